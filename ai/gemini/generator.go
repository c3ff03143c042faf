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

// Package gemini implements ai.Generator on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/marketscout/ai"
	"google.golang.org/genai"
)

// ErrAPIKeyRequired is returned when no Gemini API key is configured.
var ErrAPIKeyRequired = errors.New("gemini API key is required")

// Generator answers prompts with a Gemini model.
type Generator struct {
	client    *genai.Client
	model     string
	maxTokens int32
	logger    *slog.Logger
}

// NewGenerator creates a Gemini generator from config.GeneratorAPIKey and
// config.GenerationModel.
func NewGenerator(ctx context.Context, config *ai.Config) (ai.Generator, error) {
	if config.GeneratorAPIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeneratorAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Generator{
		client:    client,
		model:     config.GenerationModel,
		maxTokens: int32(config.MaxTokens),
		logger:    slog.Default().With("component", "gemini-generator"),
	}, nil
}

// Generate performs a single GenerateContent call.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: prompt}},
			Role:  "user",
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		MaxOutputTokens:   g.maxTokens,
	})
	if err != nil {
		g.logger.Error("gemini API call failed", "model", g.model, "err", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	return resp.Text(), nil
}
