package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/domain/lead"
	"github.com/askbar/askbar/internal/infra/assets"
	"github.com/askbar/askbar/internal/infra/cache"
	"github.com/askbar/askbar/internal/infra/catalog"
	"github.com/askbar/askbar/internal/infra/config"
	llmopenai "github.com/askbar/askbar/internal/infra/llm/openai"
)

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		SimilarityThreshold: cfg.Chat.SimilarityThreshold,
		SynthesisThreshold:  cfg.Chat.SynthesisThreshold,
		AnswerMaxChars:      cfg.Chat.AnswerMaxChars,
		MaxAnswerTokens:     cfg.Chat.MaxAnswerTokens,
		MaxMessageChars:     cfg.Chat.MaxMessageChars,
		Temperature:         cfg.LLM.Temperature,
		KnowledgeContext:    cfg.Chat.KnowledgeContext,
	}
}

func provideLLMClient(cfg *config.Config, logger *slog.Logger) *llmopenai.Client {
	return llmopenai.NewClient(llmopenai.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		RequestTimeout: cfg.LLM.RequestTimeout,
		EmbedMaxTokens: cfg.LLM.EmbedMaxTokens,
	}, logger)
}

func provideCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		return cache.NewMemoryCache()
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return cache.NewMemoryCache()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return cache.NewMemoryCache()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		return cache.NewMemoryCache()
	}
	logger.Info("valkey cache enabled", "addr", cfg.Cache.Addr)
	return cache.NewValkeyCache(client, "askbar")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// backingStore groups the persistence interfaces one backend satisfies.
type backingStore struct {
	catalog chat.CatalogStore
	leads   lead.Repository
	audit   chat.AuditSink
}

func provideBackingStore(cfg *config.Config, logger *slog.Logger) backingStore {
	memory := catalog.NewMemoryStore()
	fallback := backingStore{catalog: memory, leads: memory, audit: memory}

	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory catalog")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory catalog", "error", err)
		return fallback
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory catalog", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory catalog", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("postgres catalog enabled")
	store := catalog.NewPostgresStore(pool)
	return backingStore{catalog: store, leads: store, audit: store}
}

func provideCachedCatalog(cfg *config.Config, store backingStore, c cache.Cache, logger *slog.Logger) *catalog.CachedStore {
	return catalog.NewCachedStore(store.catalog, c, cfg.Cache.FAQTTL, cfg.Cache.ConfigTTL, logger)
}

func provideLeadRepository(store backingStore) lead.Repository {
	return store.leads
}

func provideAuditSink(store backingStore) chat.AuditSink {
	return store.audit
}

func provideBundleSource(cfg *config.Config, logger *slog.Logger) assets.BundleSource {
	if cfg.Assets.Endpoint != "" && cfg.Assets.Bucket != "" {
		source, err := assets.NewObjectStoreSource(
			cfg.Assets.Endpoint,
			cfg.Assets.AccessKey,
			cfg.Assets.SecretKey,
			cfg.Assets.Bucket,
			cfg.Assets.Region,
			cfg.Assets.ObjectKey,
			logger,
		)
		if err == nil {
			logger.Info("object store bundle source enabled", "bucket", cfg.Assets.Bucket)
			return source
		}
		logger.Error("object store init failed, using local bundle", "error", err)
	}
	path := cfg.Assets.LocalPath
	if path == "" {
		path = "web/widget.js"
	}
	return assets.NewLocalSource(path)
}
