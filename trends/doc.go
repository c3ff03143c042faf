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

// Package trends serves search-interest observations from a durable cache,
// fetching from a rate-limited provider only on a miss.
//
// A key that has been stored with at least one observation is never fetched
// again. Misses retry a bounded number of times when the provider reports
// rate limiting, waiting a fixed cooldown between attempts. Any other
// provider failure is returned inline and nothing is cached.
package trends
