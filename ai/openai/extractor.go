package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/marketscout/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// EntityExtractor implements ai.EntityExtractor by prompting an
// OpenAI-compatible chat model for JSON.
type EntityExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// entity is an internal type used for JSON unmarshaling.
type entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// recognition is the wrapper structure for the LLM's JSON response.
type recognition struct {
	Entities []entity `json:"entities"`
}

func newEntityExtractor(config *ai.Config) (*EntityExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &EntityExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewEntityExtractor creates a new entity extractor using the provided configuration.
func NewEntityExtractor(config *ai.Config) (ai.EntityExtractor, error) {
	return newEntityExtractor(config)
}

// ExtractEntities tags entities in text using an LLM.
func (e *EntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.Entity, error) {
	text = scrubString(text)
	if text == "" {
		return []ai.Entity{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildEntityPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.Entity{}, nil
		}

		entities, err := parseEntities(response.Choices[0].Content)
		if err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", response.Choices[0].Content,
				"err", err)
			continue
		}

		e.logger.Debug("extracted entities", "count", len(entities))
		return entities, nil
	}

	e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
	return nil, lastErr
}

// parseEntities decodes a model response, dropping entries with unknown
// labels or empty text. Order is preserved.
func parseEntities(raw string) ([]ai.Entity, error) {
	var result recognition
	if err := json.Unmarshal([]byte(quoteSchemaKeys(stripFences(raw))), &result); err != nil {
		return nil, err
	}

	entities := make([]ai.Entity, 0, len(result.Entities))
	for _, ent := range result.Entities {
		label := strings.ToUpper(strings.TrimSpace(ent.Label))
		txt := strings.TrimSpace(ent.Text)
		if txt == "" || !slices.Contains(ai.EntityLabels, label) {
			continue
		}
		entities = append(entities, ai.Entity{Text: txt, Label: label})
	}
	return entities, nil
}
