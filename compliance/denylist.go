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

package compliance

// DefaultDenylist covers violence, fraud and market manipulation,
// discrimination, and adult content. Order matters: the first term found in
// a query is the one reported.
var DefaultDenylist = []string{
	"kill", "murder", "death", "assassinate", "bomb", "terror",
	"illegal", "fraud", "scam", "manipulate", "insider", "launder",
	"hate", "racist", "discriminate", "offensive",
	"nsfw", "sex", "porn", "gambling",
}
