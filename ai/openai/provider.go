package openai

import (
	"log/slog"

	"github.com/poiesic/marketscout/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder, entity extractor and generator instances.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	extractor *EntityExtractor
	generator ai.Generator
	logger    *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithGenerator replaces the OpenAI-compatible generator, e.g. with a Gemini
// or Anthropic backend.
func WithGenerator(g ai.Generator) ProviderOption {
	return func(p *Provider) {
		p.generator = g
	}
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	extractor, err := newEntityExtractor(config)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		config:    config,
		embedder:  embedder,
		extractor: extractor,
		logger:    slog.Default().With("component", "openai-provider"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.generator == nil {
		g, err := newGenerator(config)
		if err != nil {
			return nil, err
		}
		p.generator = g
	}

	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// EntityExtractor returns the entity extraction service.
func (p *Provider) EntityExtractor() ai.EntityExtractor {
	return p.extractor
}

// Generator returns the answer generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
