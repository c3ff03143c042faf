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

package ai

import (
	"errors"
	"slices"
	"strings"
)

// Generator backends.
const (
	GeneratorOpenAI    = "openai"
	GeneratorGemini    = "gemini"
	GeneratorAnthropic = "anthropic"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ChatHost is the base URL for entity extraction and OpenAI-compatible generation.
	ChatHost string

	// APIKey is the token sent to OpenAI-compatible hosts. Local servers accept "none".
	APIKey string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ExtractorModel is the model identifier to use for entity extraction.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ExtractorModel string

	// Generator selects the answer backend: GeneratorOpenAI, GeneratorGemini
	// or GeneratorAnthropic.
	Generator string

	// GenerationModel is the model identifier used to answer queries.
	GenerationModel string

	// GeneratorAPIKey authenticates the Gemini or Anthropic backends.
	GeneratorAPIKey string

	// MaxTokens bounds the length of generated answers.
	// Default: 1024
	MaxTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithChatHost sets the chat service host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithHost sets both embedding and chat hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ChatHost = host
	}
}

// WithAPIKey sets the token for OpenAI-compatible hosts.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithExtractorModel sets the entity extraction model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// WithGenerator selects the generation backend and its model.
func WithGenerator(backend, model string) ConfigOption {
	return func(c *Config) {
		c.Generator = backend
		c.GenerationModel = model
	}
}

// WithGeneratorAPIKey sets the credential for hosted generation backends.
func WithGeneratorAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.GeneratorAPIKey = key
	}
}

// WithMaxTokens sets the generated answer length bound.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:   defaultHost,
		ChatHost:        defaultHost,
		APIKey:          "none",
		EmbeddingModel:  "embeddinggemma",
		ExtractorModel:  "qwen2.5:3b",
		Generator:       GeneratorOpenAI,
		GenerationModel: "qwen2.5:7b",
		MaxTokens:       1024,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.openai.com/v1"),
//	    WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    WithGenerator(GeneratorOpenAI, "gpt-4o-mini"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = withV1(c.EmbeddingHost)
	c.ChatHost = withV1(c.ChatHost)
	c.Generator = strings.ToLower(strings.TrimSpace(c.Generator))
	if c.Generator == "" {
		c.Generator = GeneratorOpenAI
	}
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

func withV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ChatHost == "" {
		return errors.New("ai config: ChatHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ExtractorModel == "" {
		return errors.New("ai config: ExtractorModel is required")
	}
	if c.GenerationModel == "" {
		return errors.New("ai config: GenerationModel is required")
	}
	if !slices.Contains([]string{GeneratorOpenAI, GeneratorGemini, GeneratorAnthropic}, c.Generator) {
		return errors.New("ai config: Generator must be one of openai, gemini, anthropic")
	}
	if c.Generator != GeneratorOpenAI && c.GeneratorAPIKey == "" {
		return errors.New("ai config: GeneratorAPIKey is required for " + c.Generator)
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	return nil
}
