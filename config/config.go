package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/marketscout/ai"
	"github.com/spf13/viper"
)

// Vector backends.
const (
	VectorLocal    = "local"
	VectorPinecone = "pinecone"
)

// Entity extraction modes for company resolution.
const (
	NERGazetteer = "gazetteer"
	NERModel     = "llm"
)

// Trend cache backends.
const (
	CacheBadger = "badger"
	CacheRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	DataDir    string         `mapstructure:"data_dir"`
	CorpusFile string         `mapstructure:"corpus_file"`
	Log        LogConfig      `mapstructure:"log"`
	AI         AIConfig       `mapstructure:"ai"`
	Vector     VectorConfig   `mapstructure:"vector"`
	News       NewsConfig     `mapstructure:"news"`
	Quotes     QuotesConfig   `mapstructure:"quotes"`
	Trends     TrendsConfig   `mapstructure:"trends"`
	Pipeline   PipelineConfig `mapstructure:"pipeline"`
	Server     ServerConfig   `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AIConfig mirrors ai.Config.
type AIConfig struct {
	EmbeddingHost   string `mapstructure:"embedding_host"`
	ChatHost        string `mapstructure:"chat_host"`
	APIKey          string `mapstructure:"api_key"`
	EmbeddingModel  string `mapstructure:"embedding_model"`
	ExtractorModel  string `mapstructure:"extractor_model"`
	Generator       string `mapstructure:"generator"`
	GenerationModel string `mapstructure:"generation_model"`
	GeneratorAPIKey string `mapstructure:"generator_api_key"`
	MaxTokens       int    `mapstructure:"max_tokens"`
}

type VectorConfig struct {
	Backend       string         `mapstructure:"backend"`
	MinSimilarity float32        `mapstructure:"min_similarity"`
	Pinecone      PineconeConfig `mapstructure:"pinecone"`
}

type PineconeConfig struct {
	Host      string `mapstructure:"host"`
	APIKey    string `mapstructure:"api_key"`
	Namespace string `mapstructure:"namespace"`
}

type NewsConfig struct {
	APIKey   string  `mapstructure:"api_key"`
	BaseURL  string  `mapstructure:"base_url"`
	PageSize int     `mapstructure:"page_size"`
	Keep     int     `mapstructure:"keep"`
	Rate     float64 `mapstructure:"rate"`
}

type QuotesConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TrendsConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Rate      float64       `mapstructure:"rate"`
	Timeframe string        `mapstructure:"timeframe"`
	Geo       string        `mapstructure:"geo"`
	Keep      int           `mapstructure:"keep"`
	Attempts  int           `mapstructure:"attempts"`
	Cooldown  time.Duration `mapstructure:"cooldown"`
	// Timeout bounds a single provider request.
	Timeout  time.Duration `mapstructure:"timeout"`
	Cache    string        `mapstructure:"cache"`
	RedisURL string        `mapstructure:"redis_url"`
}

type PipelineConfig struct {
	TopK         int           `mapstructure:"top_k"`
	StageTimeout time.Duration `mapstructure:"stage_timeout"`
	// TrendsTimeout bounds the trends stage. Zero derives it from the
	// trends attempts, cooldown and timeout.
	TrendsTimeout     time.Duration `mapstructure:"trends_timeout"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	PoolSize          int           `mapstructure:"pool_size"`
	AllowTickerless   bool          `mapstructure:"allow_tickerless"`
	// NER selects how company names are found in queries: the local
	// gazetteer or the configured extractor model.
	NER string `mapstructure:"ner"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// legacyEnv maps config keys to the unprefixed variables a .env file
// commonly carries.
var legacyEnv = map[string]string{
	"ai.api_key":              "OPENAI_API_KEY",
	"news.api_key":            "NEWS_API_KEY",
	"vector.pinecone.api_key": "PINECONE_API_KEY",
	"trends.api_key":          "SERPAPI_API_KEY",
}

// Load reads configuration. An empty path searches for marketscout.yaml in
// the working directory and skips it silently when absent; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("marketscout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MARKETSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "MARKETSCOUT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.fillGeneratorKey()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and an
// empty environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are all plain scalars; decoding cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	aiDefaults := ai.DefaultConfig()

	v.SetDefault("data_dir", filepath.Join(home, ".marketscout"))
	v.SetDefault("corpus_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.embedding_host", aiDefaults.EmbeddingHost)
	v.SetDefault("ai.chat_host", aiDefaults.ChatHost)
	v.SetDefault("ai.api_key", aiDefaults.APIKey)
	v.SetDefault("ai.embedding_model", aiDefaults.EmbeddingModel)
	v.SetDefault("ai.extractor_model", aiDefaults.ExtractorModel)
	v.SetDefault("ai.generator", aiDefaults.Generator)
	v.SetDefault("ai.generation_model", aiDefaults.GenerationModel)
	v.SetDefault("ai.generator_api_key", "")
	v.SetDefault("ai.max_tokens", aiDefaults.MaxTokens)

	v.SetDefault("vector.backend", VectorLocal)
	v.SetDefault("vector.min_similarity", 0.0)
	v.SetDefault("vector.pinecone.host", "")
	v.SetDefault("vector.pinecone.api_key", "")
	v.SetDefault("vector.pinecone.namespace", "")

	v.SetDefault("news.api_key", "")
	v.SetDefault("news.base_url", "https://newsapi.org/v2/everything")
	v.SetDefault("news.page_size", 20)
	v.SetDefault("news.keep", 5)
	v.SetDefault("news.rate", 1.0)

	v.SetDefault("quotes.base_url", "https://query2.finance.yahoo.com/v10/finance/quoteSummary")
	v.SetDefault("quotes.timeout", 10*time.Second)

	v.SetDefault("trends.api_key", "")
	v.SetDefault("trends.base_url", "https://serpapi.com/search.json")
	v.SetDefault("trends.rate", 1.0)
	v.SetDefault("trends.timeframe", "today 1-m")
	v.SetDefault("trends.geo", "US")
	v.SetDefault("trends.keep", 5)
	v.SetDefault("trends.attempts", 3)
	v.SetDefault("trends.cooldown", 60*time.Second)
	v.SetDefault("trends.timeout", 20*time.Second)
	v.SetDefault("trends.cache", CacheBadger)
	v.SetDefault("trends.redis_url", "redis://localhost:6379/0")

	v.SetDefault("pipeline.top_k", 5)
	v.SetDefault("pipeline.stage_timeout", 15*time.Second)
	v.SetDefault("pipeline.trends_timeout", 0)
	v.SetDefault("pipeline.generation_timeout", 60*time.Second)
	v.SetDefault("pipeline.pool_size", 0)
	v.SetDefault("pipeline.allow_tickerless", false)
	v.SetDefault("pipeline.ner", NERGazetteer)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.cors_origins", []string{"*"})
}

// fillGeneratorKey picks up the vendor key for hosted generators when no
// explicit generator key was configured.
func (c *Config) fillGeneratorKey() {
	if c.AI.GeneratorAPIKey != "" {
		return
	}
	switch strings.ToLower(c.AI.Generator) {
	case ai.GeneratorGemini:
		c.AI.GeneratorAPIKey = os.Getenv("GEMINI_API_KEY")
	case ai.GeneratorAnthropic:
		c.AI.GeneratorAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
}

// Validate checks values that have a closed set of choices or must be
// positive. Missing API keys are not errors: the affected source degrades
// to a warning entry at query time.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir is required")
	}
	if !slices.Contains([]string{VectorLocal, VectorPinecone}, c.Vector.Backend) {
		return fmt.Errorf("config: vector.backend must be %q or %q", VectorLocal, VectorPinecone)
	}
	if c.Vector.Backend == VectorPinecone && (c.Vector.Pinecone.Host == "" || c.Vector.Pinecone.APIKey == "") {
		return errors.New("config: vector.pinecone.host and vector.pinecone.api_key are required for the pinecone backend")
	}
	if !slices.Contains([]string{CacheBadger, CacheRedis}, c.Trends.Cache) {
		return fmt.Errorf("config: trends.cache must be %q or %q", CacheBadger, CacheRedis)
	}
	if !slices.Contains([]string{NERGazetteer, NERModel}, c.Pipeline.NER) {
		return fmt.Errorf("config: pipeline.ner must be %q or %q", NERGazetteer, NERModel)
	}
	if c.Pipeline.TopK < 1 {
		return errors.New("config: pipeline.top_k must be positive")
	}
	if c.Pipeline.StageTimeout <= 0 {
		return errors.New("config: pipeline.stage_timeout must be positive")
	}
	if c.Trends.Attempts < 1 {
		return errors.New("config: trends.attempts must be positive")
	}
	if c.Trends.Timeout <= 0 {
		return errors.New("config: trends.timeout must be positive")
	}
	if c.Pipeline.TrendsTimeout < 0 {
		return errors.New("config: pipeline.trends_timeout must not be negative")
	}
	if c.Pipeline.TrendsTimeout > 0 && c.Pipeline.TrendsTimeout < c.MinTrendsTimeout() {
		return fmt.Errorf("config: pipeline.trends_timeout must be at least %s to cover %d attempts with a %s cooldown",
			c.MinTrendsTimeout(), c.Trends.Attempts, c.Trends.Cooldown)
	}
	return nil
}

// MinTrendsTimeout is the shortest trends stage that can still wait out
// every cooldown and complete one provider request.
func (c *Config) MinTrendsTimeout() time.Duration {
	return time.Duration(c.Trends.Attempts-1)*c.Trends.Cooldown + c.Trends.Timeout
}

// AIConfig converts the ai section into an ai.Config.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithChatHost(c.AI.ChatHost),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithExtractorModel(c.AI.ExtractorModel),
		ai.WithGenerator(c.AI.Generator, c.AI.GenerationModel),
		ai.WithGeneratorAPIKey(c.AI.GeneratorAPIKey),
		ai.WithMaxTokens(c.AI.MaxTokens),
	)
}

// StorePath is where the badger database lives.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "store")
}
