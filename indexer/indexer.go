package indexer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/marketscout/semantic"
)

// Config controls batching and retries.
type Config struct {
	// BatchSize is the number of documents embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns the default indexing configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      64,
		ReportInterval: 64,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Indexer writes documents to a semantic store.
type Indexer struct {
	target   semantic.Indexer
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// New creates an indexer. A nil config uses DefaultConfig and a nil
// progress writer discards progress output.
func New(target semantic.Indexer, config *Config, progress io.Writer) (*Indexer, error) {
	if target == nil {
		return nil, ErrTargetRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Indexer{
		target:   target,
		config:   config,
		progress: progress,
		logger:   slog.Default().With("component", "indexer"),
	}, nil
}

// Run indexes docs and returns the number written. Blank and repeated
// documents are skipped. A batch that still fails after retries stops the
// run; documents in earlier batches stay indexed.
func (ix *Indexer) Run(ctx context.Context, docs []string) (int, error) {
	docs = Clean(docs)
	if len(docs) == 0 {
		fmt.Fprintf(ix.progress, "No documents to index\n")
		return 0, nil
	}

	fmt.Fprintf(ix.progress, "Indexing %d documents (batch size: %d)\n", len(docs), ix.config.BatchSize)
	tracker := NewProgressTracker(ix.progress, len(docs), ix.config.ReportInterval)
	tracker.Start()

	for start := 0; start < len(docs); start += ix.config.BatchSize {
		batch := docs[start:min(start+ix.config.BatchSize, len(docs))]

		err := RetryWithBackoff(ctx, func() error {
			return ix.target.AddTexts(ctx, batch)
		}, ix.config.MaxRetries, ix.config.RetryDelay)
		if err != nil {
			tracker.Finish()
			ix.logger.Error("batch failed", "offset", start, "size", len(batch), "err", err)
			return tracker.Done(), fmt.Errorf("index batch at %d: %w", start, err)
		}
		tracker.Add(len(batch))
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(ix.progress, "Indexing complete. %d documents in %v\n", len(docs), elapsed.Round(time.Millisecond))
	return len(docs), nil
}

// Clean trims documents and drops blanks and exact repeats, keeping order.
func Clean(docs []string) []string {
	seen := make(map[string]struct{}, len(docs))
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// ReadDocuments reads one document per line from r, skipping blank lines
// and lines starting with '#'.
func ReadDocuments(r io.Reader) ([]string, error) {
	var docs []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		docs = append(docs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return docs, nil
}
