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

package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/marketscout/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrEmptyResponse is returned when the model answers with no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// Generator implements ai.Generator using an OpenAI-compatible chat model.
type Generator struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:    client,
		maxTokens: config.MaxTokens,
		logger:    slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a chat-completion generator using the provided configuration.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate sends one system and one user message and returns the first choice.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithMaxTokens(g.maxTokens))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ErrEmptyResponse
	}
	return response.Choices[0].Content, nil
}
