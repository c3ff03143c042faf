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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.ExtractorModel)
	assert.Equal(t, GeneratorOpenAI, cfg.Generator)
	assert.Equal(t, 1024, cfg.MaxTokens)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithChatHost("http://chat:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat:9090/v1", cfg.ChatHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithAPIKey("sk-test"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithExtractorModel("gpt-4o-mini"),
			WithGenerator(GeneratorAnthropic, "claude-sonnet-4-5"),
			WithGeneratorAPIKey("key"),
			WithMaxTokens(512),
		)

		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ExtractorModel)
		assert.Equal(t, GeneratorAnthropic, cfg.Generator)
		assert.Equal(t, "claude-sonnet-4-5", cfg.GenerationModel)
		assert.Equal(t, "key", cfg.GeneratorAPIKey)
		assert.Equal(t, 512, cfg.MaxTokens)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "https://api.openai.com/v1", "https://api.openai.com/v1"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host, ChatHost: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.ChatHost)
		})
	}

	t.Run("generator defaults", func(t *testing.T) {
		cfg := &Config{Generator: "  Gemini "}
		cfg.Normalize()
		assert.Equal(t, GeneratorGemini, cfg.Generator)
		assert.Equal(t, "none", cfg.APIKey)

		cfg = &Config{}
		cfg.Normalize()
		assert.Equal(t, GeneratorOpenAI, cfg.Generator)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }, "EmbeddingHost is required"},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }, "ChatHost is required"},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }, "EmbeddingModel is required"},
		{"missing extractor model", func(c *Config) { c.ExtractorModel = "" }, "ExtractorModel is required"},
		{"missing generation model", func(c *Config) { c.GenerationModel = "" }, "GenerationModel is required"},
		{"unknown generator", func(c *Config) { c.Generator = "bard" }, "Generator must be one of"},
		{"hosted generator without key", func(c *Config) { c.Generator = GeneratorGemini }, "GeneratorAPIKey is required for gemini"},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, "MaxTokens must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("hosted generator with key", func(t *testing.T) {
		cfg := NewConfig(WithGenerator(GeneratorGemini, "gemini-2.5-flash"), WithGeneratorAPIKey("k"))
		assert.NoError(t, cfg.Validate())
	})

	t.Run("normalizes before validating", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:8080"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8080/v1", cfg.ChatHost)
	})
}

func TestIsCompanyLabel(t *testing.T) {
	assert.True(t, IsCompanyLabel(LabelOrganization))
	assert.True(t, IsCompanyLabel(LabelProduct))
	assert.False(t, IsCompanyLabel(LabelPerson))
	assert.False(t, IsCompanyLabel(""))
}
