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

// Package compliance screens research queries before any other stage runs.
//
// A Filter rejects queries that mention a denylisted term and otherwise
// normalizes the query to the token downstream stages should work with:
// an explicit ticker, the first ticker-shaped token in the text, or the
// trimmed text itself.
//
// The denylist is a case-insensitive substring screen. It is advisory
// moderation and does not attempt to be an exhaustive safety filter.
package compliance
