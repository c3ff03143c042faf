package indexer

import (
	"context"
	"log/slog"
	"time"
)

// RetryWithBackoff calls operation until it succeeds or maxAttempts is
// reached, waiting baseDelay * 2^(attempt-1) between attempts. It returns
// the last error, or the context's error if ctx ends first.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("batch succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("batch failed", "attempt", attempt, "maxAttempts", maxAttempts, "err", lastErr)
		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
