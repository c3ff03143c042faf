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

// Package resolve maps free-text company mentions to ticker records.
//
// Resolution runs in three steps:
//   - candidate extraction: entity recognition over the lowercased text,
//     falling back to fuzzy matching against a list of known company names
//   - curated lookup in a Directory of well-known issuers
//   - a live symbol lookup, treating the candidate itself as a ticker
//
// Every step is best-effort. Failures are reported in the Resolution's
// Status rather than returned as errors, so callers can tell "not found"
// from "could not determine" without aborting their own work.
package resolve
