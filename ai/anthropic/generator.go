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

// Package anthropic implements ai.Generator on the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/poiesic/marketscout/ai"
)

// ErrAPIKeyRequired is returned when no Anthropic API key is configured.
var ErrAPIKeyRequired = errors.New("anthropic API key is required")

// Generator answers prompts with an Anthropic model.
type Generator struct {
	client    sdk.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewGenerator creates an Anthropic generator. Extra request options, such
// as option.WithBaseURL, are passed to the SDK client.
func NewGenerator(config *ai.Config, opts ...option.RequestOption) (ai.Generator, error) {
	if config.GeneratorAPIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	opts = append([]option.RequestOption{option.WithAPIKey(config.GeneratorAPIKey)}, opts...)
	return &Generator{
		client:    sdk.NewClient(opts...),
		model:     config.GenerationModel,
		maxTokens: int64(config.MaxTokens),
		logger:    slog.Default().With("component", "anthropic-generator"),
	}, nil
}

// Generate sends a single message and concatenates the text blocks of the reply.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
		System:    []sdk.TextBlockParam{{Text: system}},
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		g.logger.Error("anthropic API call failed", "model", g.model, "err", err)
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
