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

// Package ai provides abstractions for the AI services marketscout depends on.
//
// The package is designed around four interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - EntityExtractor: Tags organizations, products and other entities in text
//   - Generator: Answers a prompt given a system instruction
//   - AIProvider: Aggregates the services above for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs via langchaingo (embeddings, NER, generation)
//   - ai/gemini: Google Gemini generation
//   - ai/anthropic: Anthropic Messages API generation
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors return interface types. Mock constructors return
// concrete types so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	entities, err := provider.EntityExtractor().ExtractEntities(ctx, "tell me about nvidia")
//	answer, err := provider.Generator().Generate(ctx, "Be brief.", "What does NVIDIA make?")
package ai
