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

// Package marketscout wires the research pipeline from a config.Config.
package marketscout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/poiesic/marketscout/ai"
	"github.com/poiesic/marketscout/ai/anthropic"
	"github.com/poiesic/marketscout/ai/gemini"
	"github.com/poiesic/marketscout/ai/openai"
	"github.com/poiesic/marketscout/compliance"
	"github.com/poiesic/marketscout/config"
	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/evidence"
	"github.com/poiesic/marketscout/indexer"
	"github.com/poiesic/marketscout/lexical"
	"github.com/poiesic/marketscout/providers/news"
	"github.com/poiesic/marketscout/providers/quotes"
	"github.com/poiesic/marketscout/providers/trendsapi"
	"github.com/poiesic/marketscout/resolve"
	"github.com/poiesic/marketscout/search"
	"github.com/poiesic/marketscout/semantic"
	"github.com/poiesic/marketscout/server"
	"github.com/poiesic/marketscout/storage"
	"github.com/poiesic/marketscout/storage/badger"
	"github.com/poiesic/marketscout/storage/redis"
	"github.com/poiesic/marketscout/trends"
	"golang.org/x/time/rate"
)

// Version is reported by the CLI and the MCP server.
const Version = "0.1.0"

// App owns every pipeline component and the resources behind them.
type App struct {
	cfg       *config.Config
	backend   *badger.Backend
	trendRepo storage.TrendRepository
	docRepo   storage.DocumentRepository
	provider  ai.AIProvider

	lexical   *lexical.Ranker
	semantic  semantic.Searcher
	index     semantic.Indexer
	fuser     *search.Fuser
	quotes    *quotes.Client
	resolver  *resolve.Resolver
	trends    *trends.Cache
	news      *news.Client
	assembler *evidence.Assembler

	logger *slog.Logger
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	provider   ai.AIProvider
	httpClient *http.Client
}

// WithAIProvider supplies the AI services instead of building them from
// the config.
func WithAIProvider(p ai.AIProvider) Option {
	return func(o *openOptions) {
		o.provider = p
	}
}

// WithHTTPClient sets the client used by the news, quote and trend sources.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *openOptions) {
		o.httpClient = hc
	}
}

// Open builds the pipeline described by cfg. Close releases it.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := &openOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{Timeout: cfg.Quotes.Timeout}
	}

	app := &App{cfg: cfg, logger: slog.Default().With("component", "marketscout")}
	ok := false
	defer func() {
		if !ok {
			_ = app.Close()
		}
	}()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	backend, err := badger.OpenBackend(cfg.StorePath(), false)
	if err != nil {
		return nil, err
	}
	app.backend = backend
	app.docRepo = badger.NewDocumentRepository(backend)

	if err := app.openTrendRepository(ctx); err != nil {
		return nil, err
	}
	if err := app.openProvider(ctx, options.provider); err != nil {
		return nil, err
	}
	if err := app.buildRetrieval(); err != nil {
		return nil, err
	}
	if err := app.buildSources(options.httpClient); err != nil {
		return nil, err
	}

	ok = true
	return app, nil
}

func (a *App) openTrendRepository(ctx context.Context) error {
	if a.cfg.Trends.Cache == config.CacheRedis {
		repo, err := redis.NewTrendRepository(ctx, a.cfg.Trends.RedisURL)
		if err != nil {
			return err
		}
		a.trendRepo = repo
		return nil
	}
	a.trendRepo = badger.NewTrendRepository(a.backend)
	return nil
}

func (a *App) openProvider(ctx context.Context, provider ai.AIProvider) error {
	if provider != nil {
		a.provider = provider
		return nil
	}

	aiCfg := a.cfg.AIConfig()
	if err := aiCfg.Validate(); err != nil {
		return err
	}

	var opts []openai.ProviderOption
	switch aiCfg.Generator {
	case ai.GeneratorGemini:
		g, err := gemini.NewGenerator(ctx, aiCfg)
		if err != nil {
			return err
		}
		opts = append(opts, openai.WithGenerator(g))
	case ai.GeneratorAnthropic:
		g, err := anthropic.NewGenerator(aiCfg)
		if err != nil {
			return err
		}
		opts = append(opts, openai.WithGenerator(g))
	}

	p, err := openai.NewProvider(aiCfg, opts...)
	if err != nil {
		return err
	}
	a.provider = p
	return nil
}

func (a *App) buildRetrieval() error {
	corpus := lexical.DefaultCorpus
	if a.cfg.CorpusFile != "" {
		docs, err := readCorpus(a.cfg.CorpusFile)
		if err != nil {
			return err
		}
		corpus = docs
	}
	ranker, err := lexical.NewRanker(corpus)
	if err != nil {
		return err
	}
	a.lexical = ranker

	switch a.cfg.Vector.Backend {
	case config.VectorPinecone:
		emb, err := openai.NewLangchainEmbedder(a.cfg.AIConfig())
		if err != nil {
			return err
		}
		vs, err := semantic.NewPinecone(semantic.PineconeConfig{
			Host:      a.cfg.Vector.Pinecone.Host,
			APIKey:    a.cfg.Vector.Pinecone.APIKey,
			Namespace: a.cfg.Vector.Pinecone.Namespace,
		}, emb)
		if err != nil {
			return err
		}
		a.semantic, a.index = vs, vs
	default:
		ls, err := semantic.NewLocalStore(a.docRepo, a.provider.Embedder(),
			semantic.WithMinSimilarity(a.cfg.Vector.MinSimilarity))
		if err != nil {
			return err
		}
		a.semantic, a.index = ls, ls
	}

	fuser, err := search.NewFuser(a.lexical, a.semantic)
	if err != nil {
		return err
	}
	a.fuser = fuser
	return nil
}

func (a *App) buildSources(hc *http.Client) error {
	a.quotes = quotes.NewClient(
		quotes.WithBaseURL(a.cfg.Quotes.BaseURL),
		quotes.WithHTTPClient(hc),
	)

	resolverOpts := []resolve.Option{resolve.WithSymbolLookup(a.quotes)}
	if a.cfg.Pipeline.NER == config.NERModel {
		dir := resolve.DefaultDirectory()
		known := dir.KnownCompanies()
		resolverOpts = append(resolverOpts,
			resolve.WithDirectory(dir),
			resolve.WithExtractor(resolve.NewNERExtractor(a.provider.EntityExtractor(), resolve.NewFuzzyMatcher(known), nil)))
	}
	a.resolver = resolve.NewResolver(resolverOpts...)

	trendClient := trendsapi.NewClient(a.cfg.Trends.APIKey,
		trendsapi.WithBaseURL(a.cfg.Trends.BaseURL),
		trendsapi.WithHTTPClient(hc),
		trendsapi.WithRateLimit(rate.Limit(a.cfg.Trends.Rate), 1))
	cache, err := trends.NewCache(a.trendRepo, trendClient,
		trends.WithAttempts(a.cfg.Trends.Attempts),
		trends.WithCooldown(a.cfg.Trends.Cooldown),
		trends.WithRequestTimeout(a.cfg.Trends.Timeout),
		trends.WithKeep(a.cfg.Trends.Keep),
		trends.WithWindow(a.cfg.Trends.Timeframe, a.cfg.Trends.Geo))
	if err != nil {
		return err
	}
	a.trends = cache

	a.news = news.NewClient(a.cfg.News.APIKey,
		news.WithBaseURL(a.cfg.News.BaseURL),
		news.WithHTTPClient(hc),
		news.WithPageSize(a.cfg.News.PageSize),
		news.WithKeep(a.cfg.News.Keep),
		news.WithRateLimit(rate.Limit(a.cfg.News.Rate), 1))

	assembler, err := evidence.NewAssembler(evidence.Sources{
		Filter:    compliance.NewFilter(),
		Resolver:  a.resolver,
		Documents: a.fuser,
		News:      a.news,
		Trends:    a.trends,
		Quotes:    a.quotes,
	},
		evidence.WithGenerator(a.provider.Generator()),
		evidence.WithNameSource(a.quotes),
		evidence.WithStageTimeout(a.cfg.Pipeline.StageTimeout),
		evidence.WithTrendsTimeout(a.cfg.Pipeline.TrendsTimeout),
		evidence.WithGenerationTimeout(a.cfg.Pipeline.GenerationTimeout),
		evidence.WithAllowTickerless(a.cfg.Pipeline.AllowTickerless),
		evidence.WithPoolSize(a.cfg.Pipeline.PoolSize))
	if err != nil {
		return err
	}
	a.assembler = assembler
	return nil
}

func readCorpus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return indexer.ReadDocuments(f)
}

// Close releases the worker pool, AI clients and storage. It is safe to
// call on a partially opened App.
func (a *App) Close() error {
	var errs []error
	if a.assembler != nil {
		a.assembler.Release()
	}
	if a.lexical != nil {
		if err := a.lexical.Close(); err != nil {
			a.logger.Error("error closing lexical index", "err", err)
			errs = append(errs, err)
		}
	}
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
		}
	}
	if a.trendRepo != nil {
		if err := a.trendRepo.Close(); err != nil {
			a.logger.Error("error closing trend repository", "err", err)
			errs = append(errs, err)
		}
	}
	if a.docRepo != nil {
		if err := a.docRepo.Close(); err != nil {
			a.logger.Error("error closing document repository", "err", err)
			errs = append(errs, err)
		}
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Config returns the configuration the App was opened with.
func (a *App) Config() *config.Config { return a.cfg }

// Assembler returns the evidence pipeline.
func (a *App) Assembler() *evidence.Assembler { return a.assembler }

// Lexical returns the BM25 ranker.
func (a *App) Lexical() *lexical.Ranker { return a.lexical }

// Semantic returns the configured vector search backend.
func (a *App) Semantic() semantic.Searcher { return a.semantic }

// Fuser returns the hybrid searcher.
func (a *App) Fuser() *search.Fuser { return a.fuser }

// Resolver returns the company-to-ticker resolver.
func (a *App) Resolver() *resolve.Resolver { return a.resolver }

// Trends returns the trend cache.
func (a *App) Trends() *trends.Cache { return a.trends }

// Provider returns the AI services.
func (a *App) Provider() ai.AIProvider { return a.provider }

// Ask runs the full pipeline for one query.
func (a *App) Ask(ctx context.Context, q string, ticker, country string) *core.Answer {
	return a.assembler.Answer(ctx, core.Query{Text: q, Ticker: ticker, Country: country}, a.cfg.Pipeline.TopK)
}

// NewIndexer returns an indexer writing to the configured semantic store.
func (a *App) NewIndexer(cfg *indexer.Config, progress io.Writer) (*indexer.Indexer, error) {
	return indexer.New(a.index, cfg, progress)
}

// NewMCPServer returns the MCP server exposing the pipeline.
func (a *App) NewMCPServer() *mcp.Server {
	return server.NewMCPServer(a.assembler, Version, a.cfg.Pipeline.TopK)
}

// NewServer returns the HTTP server. The MCP tool is mounted at /mcp.
func (a *App) NewServer() (*server.Server, error) {
	return server.New(server.Services{
		Lexical:  a.lexical,
		Semantic: a.semantic,
		Hybrid:   a.fuser,
		Resolver: a.resolver,
		Answerer: a.assembler,
		Trends:   a.trends,
		Entities: a.provider.EntityExtractor(),
		Indexer:  a.index,
	},
		server.WithDefaultTopK(a.cfg.Pipeline.TopK),
		server.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		server.WithMCP(a.NewMCPServer()))
}
