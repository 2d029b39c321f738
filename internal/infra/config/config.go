package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Chat     ChatConfig     `yaml:"chat"`
	LLM      LLMConfig      `yaml:"llm"`
	Cache    CacheConfig    `yaml:"cache"`
	Postgres PostgresConfig `yaml:"postgres"`
	Admin    AdminConfig    `yaml:"admin"`
	Assets   AssetsConfig   `yaml:"assets"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the fixed-window request limiter.
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxRequests int           `yaml:"maxRequests"`
	Window      time.Duration `yaml:"window"`
}

// ChatConfig holds the resolution-pipeline knobs. Both thresholds are
// brand-tunable, never hardcoded.
type ChatConfig struct {
	SimilarityThreshold float64 `yaml:"similarityThreshold"`
	SynthesisThreshold  float64 `yaml:"synthesisThreshold"`
	AnswerMaxChars      int     `yaml:"answerMaxChars"`
	MaxMessageChars     int     `yaml:"maxMessageChars"`
	MaxAnswerTokens     int     `yaml:"maxAnswerTokens"`
	KnowledgeContext    string  `yaml:"knowledgeContext"`
}

// LLMConfig contains OpenAI-compatible provider settings.
type LLMConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	EmbeddingModel string        `yaml:"embeddingModel"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	EmbedMaxTokens int           `yaml:"embedMaxTokens"`
}

// CacheConfig contains connection information for the Valkey cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	FAQTTL    time.Duration `yaml:"faqTtl"`
	ConfigTTL time.Duration `yaml:"configTtl"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AdminConfig protects maintenance endpoints. An empty token disables them.
type AdminConfig struct {
	Token string `yaml:"token"`
}

// AssetsConfig points at the widget bundle object store.
type AssetsConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	ObjectKey string `yaml:"objectKey"`
	LocalPath string `yaml:"localPath"`
}

// CatalogConfig controls the development seed for the in-memory catalog.
type CatalogConfig struct {
	SeedFile string `yaml:"seedFile"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.MaxRequests = parsed
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.RateLimit.Window = parsed
		}
	}
	if v := os.Getenv("CHAT_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chat.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("CHAT_SYNTHESIS_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chat.SynthesisThreshold = parsed
		}
	}
	if v := os.Getenv("CHAT_ANSWER_MAX_CHARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.AnswerMaxChars = parsed
		}
	}
	if v := os.Getenv("CHAT_MAX_MESSAGE_CHARS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.MaxMessageChars = parsed
		}
	}
	if v := os.Getenv("CHAT_KNOWLEDGE_CONTEXT"); v != "" {
		cfg.Chat.KnowledgeContext = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Admin.Token = v
	}
	if v := os.Getenv("ASSETS_ENDPOINT"); v != "" {
		cfg.Assets.Endpoint = v
	}
	if v := os.Getenv("ASSETS_ACCESS_KEY"); v != "" {
		cfg.Assets.AccessKey = v
	}
	if v := os.Getenv("ASSETS_SECRET_KEY"); v != "" {
		cfg.Assets.SecretKey = v
	}
	if v := os.Getenv("ASSETS_BUCKET"); v != "" {
		cfg.Assets.Bucket = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:     true,
				MaxRequests: 20,
				Window:      time.Minute,
			},
		},
		Chat: ChatConfig{
			SimilarityThreshold: 0.55,
			SynthesisThreshold:  0.70,
			AnswerMaxChars:      200,
			MaxMessageChars:     500,
			MaxAnswerTokens:     200,
			KnowledgeContext:    "You are a helpful assistant for this brand's website visitors.",
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.4,
			RequestTimeout: 15 * time.Second,
			EmbedMaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled:   false,
			FAQTTL:    5 * time.Minute,
			ConfigTTL: 10 * time.Minute,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Assets: AssetsConfig{
			ObjectKey: "widget.js",
			Region:    "auto",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Chat.SimilarityThreshold < 0 || c.Chat.SimilarityThreshold > 1 {
		return errors.New("chat.similarityThreshold must be within [0,1]")
	}
	if c.Chat.SynthesisThreshold < 0 || c.Chat.SynthesisThreshold > 1 {
		return errors.New("chat.synthesisThreshold must be within [0,1]")
	}
	if c.Chat.AnswerMaxChars <= 0 {
		return errors.New("chat.answerMaxChars must be positive")
	}
	if c.Chat.MaxMessageChars <= 0 {
		return errors.New("chat.maxMessageChars must be positive")
	}
	if c.Chat.MaxAnswerTokens <= 0 {
		return errors.New("chat.maxAnswerTokens must be positive")
	}
	if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
		return errors.New("llm.embeddingModel cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.RequestTimeout <= 0 {
		return errors.New("llm.requestTimeout must be positive")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when the cache is enabled")
	}
	if c.Cache.FAQTTL < 0 || c.Cache.ConfigTTL < 0 {
		return errors.New("cache TTLs cannot be negative")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.MaxRequests <= 0 {
			return errors.New("http.rateLimit.maxRequests must be positive")
		}
		if c.HTTP.RateLimit.Window <= 0 {
			return errors.New("http.rateLimit.window must be positive")
		}
	}
	return nil
}
