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

// Package config loads marketscout settings.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional YAML file, and MARKETSCOUT_* environment variables (with "."
// replaced by "_", e.g. MARKETSCOUT_NEWS_API_KEY). The unprefixed variables
// OPENAI_API_KEY, NEWS_API_KEY, PINECONE_API_KEY, SERPAPI_API_KEY,
// GEMINI_API_KEY and ANTHROPIC_API_KEY are honored as fallbacks. A .env
// file in the working directory is loaded into the environment first.
package config
