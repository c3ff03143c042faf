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

// Package storage provides the persistence abstraction layer for marketscout.
//
// Two repositories are defined here:
//
//   - TrendRepository: durable search-trend cache, keyed by ticker or query
//   - DocumentRepository: embedded corpus documents with vector similarity search
//
// Implementations live in sub-packages: storage/badger (embedded, the
// default for both) and storage/redis (trend cache shared across processes).
// Values are encoded with mus-go; see serialization.go.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/var/lib/marketscout", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	trends := badger.NewTrendRepository(backend)
//	entry, err := trends.GetTrend(ctx, "NVDA")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // fetch and PutTrend
//	}
package storage
