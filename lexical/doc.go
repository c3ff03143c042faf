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

// Package lexical ranks corpus documents against a query with Okapi BM25.
//
// A Ranker owns its corpus: the document list and the bleve (scorch) index built
// from it are swapped together by UpdateCorpus, so readers never see an
// index that disagrees with the documents. Rebuilds are skipped when the new
// corpus has the same fingerprint as the current one.
//
// Results are ordered by score, highest first, with ties broken by corpus
// order. Documents that do not match the query follow the matches in corpus
// order with a score of zero, so a ranking always covers the whole corpus
// up to the requested size.
//
// Rank reports an empty query or an empty corpus as a single sentinel
// entry; Search reports the same conditions as ErrEmptyQuery and
// ErrEmptyCorpus.
package lexical
