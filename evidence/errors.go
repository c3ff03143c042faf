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

package evidence

import "errors"

var (
	// ErrBlocked is matched by errors returned for queries the compliance
	// filter rejects. Use errors.As with *BlockedError for the reason.
	ErrBlocked = errors.New("query blocked")

	// ErrNoTicker is returned when no ticker could be determined and
	// ticker-less operation is disabled.
	ErrNoTicker = errors.New("no valid company ticker could be determined from the query")

	// ErrFilterRequired is returned when an assembler has no compliance filter.
	ErrFilterRequired = errors.New("compliance filter required")

	// ErrResolverRequired is returned when an assembler has no resolver.
	ErrResolverRequired = errors.New("entity resolver required")

	// ErrDocumentsRequired is returned when an assembler has no document source.
	ErrDocumentsRequired = errors.New("document source required")

	// ErrNewsRequired is returned when an assembler has no news source.
	ErrNewsRequired = errors.New("news source required")

	// ErrTrendsRequired is returned when an assembler has no trend source.
	ErrTrendsRequired = errors.New("trend source required")

	// ErrQuotesRequired is returned when an assembler has no quote source.
	ErrQuotesRequired = errors.New("quote source required")
)

// BlockedError carries the compliance filter's reason.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "query blocked: " + e.Reason
}

// Is makes errors.Is(err, ErrBlocked) true.
func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}
