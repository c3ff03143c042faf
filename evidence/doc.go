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

// Package evidence runs the query pipeline: compliance filtering, ticker
// resolution, the four evidence-gathering stages, context assembly and
// answer generation.
//
// The stages are ordered Filter, Resolve, Gather, Assemble. Only a blocked
// query or an unresolvable ticker end a run early. The gather stages
// (document fusion, news, trends, quote) run concurrently on a worker pool,
// each under its own timeout; a failing stage contributes a placeholder
// and a diagnostic instead of failing the run.
package evidence
