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

package lexical

import (
	"errors"

	"github.com/poiesic/marketscout/core"
)

var (
	// ErrEmptyQuery is returned when the query is blank.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyCorpus is returned when no documents are indexed.
	ErrEmptyCorpus = errors.New("no indexed documents available")
)

// Sentinel entries returned by Rank in place of results.
const (
	SentinelEmptyQuery  = core.WarningMarker + " Error: Query cannot be empty!"
	SentinelEmptyCorpus = core.WarningMarker + " Error: No indexed documents available for search."
)
