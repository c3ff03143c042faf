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

// Package search provides hybrid lexical and semantic retrieval.
//
// The Fuser combines two independent rankers:
//   - Lexical ranking using BM25 over the in-memory corpus
//   - Semantic ranking using vector similarity over an embedded index
//
// Lexical results come first, duplicates (by exact text) are dropped keeping
// the first occurrence, and the merged list is truncated to the requested
// size only after deduplication. A failing ranker contributes nothing
// rather than failing the search.
package search
