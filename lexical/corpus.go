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

// DefaultCorpus is the starting document set used when no corpus file is
// configured.
var DefaultCorpus = []string{
	"NVIDIA is a leader in AI computing and GPUs.",
	"Tesla produces electric cars and is expanding into AI and robotics.",
	"Microsoft develops cloud solutions like Azure and Office 365.",
	"Apple is known for iPhones, MacBooks, and innovative technology.",
	"Amazon dominates e-commerce and cloud computing with AWS.",
}
