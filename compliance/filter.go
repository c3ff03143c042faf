// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compliance

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/marketscout/core"
)

// ReasonEmptyInput is the block reason for blank queries.
const ReasonEmptyInput = "empty input"

// Filter applies the denylist and ticker normalization to incoming queries.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	terms  []string
	logger *slog.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithDenylist replaces the default denylist. Terms are matched lower-cased.
func WithDenylist(terms []string) Option {
	return func(f *Filter) {
		f.terms = make([]string, 0, len(terms))
		for _, t := range terms {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				f.terms = append(f.terms, t)
			}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		f.logger = logger
	}
}

// NewFilter creates a Filter using DefaultDenylist unless overridden.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{
		logger: slog.Default().With("component", "compliance-filter"),
	}
	WithDenylist(DefaultDenylist)(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Check screens query and returns the normalized text to work with.
//
// Blank queries and queries containing a denylisted term are blocked. An
// explicit ticker with valid syntax is returned as-is. Otherwise the first
// whitespace-separated token with ticker syntax is returned, falling back to
// the trimmed query.
func (f *Filter) Check(query, ticker string) core.FilterResult {
	query = strings.TrimSpace(query)
	if query == "" {
		f.logger.Warn("query blocked", "reason", ReasonEmptyInput)
		return core.Blocked(ReasonEmptyInput)
	}

	lowered := strings.ToLower(query)
	for _, term := range f.terms {
		if strings.Contains(lowered, term) {
			reason := fmt.Sprintf("contains term '%s'", term)
			f.logger.Warn("query blocked", "reason", reason)
			return core.Blocked(reason)
		}
	}

	ticker = strings.TrimSpace(ticker)
	if core.IsTickerSymbol(ticker) {
		f.logger.Info("query accepted", "ticker", ticker, "source", "explicit")
		return core.Accepted(ticker, true)
	}

	for _, token := range strings.Fields(query) {
		if core.IsTickerSymbol(token) {
			f.logger.Info("query accepted", "ticker", token, "source", "token")
			return core.Accepted(token, true)
		}
	}

	f.logger.Debug("query accepted", "source", "text")
	return core.Accepted(query, false)
}
