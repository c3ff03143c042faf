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

// Package semantic provides nearest-neighbor document retrieval.
//
// Searcher is the contract the rest of the system consumes. Two
// implementations are provided:
//
//   - LocalStore: embeds queries with an ai.Embedder and scans documents
//     held in a storage.DocumentRepository (BadgerDB by default)
//   - VectorStore: adapts any langchaingo vectorstores.VectorStore, such as
//     the hosted Pinecone index created by NewPinecone
//
// Both also implement Indexer so corpus documents can be loaded with the
// same component that serves queries.
package semantic
