package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/infra/cache"
)

const (
	faqsCacheKey   = "faqs:all"
	configCacheKey = "config:all"
)

// CachedStore layers a byte cache over a CatalogStore. Reads serve cached
// snapshots; writes invalidate them.
type CachedStore struct {
	inner     chat.CatalogStore
	cache     cache.Cache
	faqTTL    time.Duration
	configTTL time.Duration
	logger    *slog.Logger
}

// NewCachedStore wraps inner with read-through caching.
func NewCachedStore(inner chat.CatalogStore, c cache.Cache, faqTTL, configTTL time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		inner:     inner,
		cache:     c,
		faqTTL:    faqTTL,
		configTTL: configTTL,
		logger:    logger.With("component", "catalog.cache"),
	}
}

func (s *CachedStore) ListLiveFAQs(ctx context.Context) ([]chat.FAQ, error) {
	if payload, err := s.cache.Get(ctx, faqsCacheKey); err == nil {
		var faqs []chat.FAQ
		if err := json.Unmarshal(payload, &faqs); err == nil {
			return faqs, nil
		}
		// Corrupt entry, fall through to the source of truth.
		_ = s.cache.Del(ctx, faqsCacheKey)
	}

	faqs, err := s.inner.ListLiveFAQs(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(faqs); err == nil {
		if err := s.cache.Set(ctx, faqsCacheKey, payload, s.faqTTL); err != nil {
			s.logger.Warn("cache faq snapshot failed", "error", err)
		}
	}
	return faqs, nil
}

func (s *CachedStore) GetConfig(ctx context.Context) (chat.WidgetConfig, error) {
	if payload, err := s.cache.Get(ctx, configCacheKey); err == nil {
		var cfg chat.WidgetConfig
		if err := json.Unmarshal(payload, &cfg); err == nil {
			return cfg, nil
		}
		_ = s.cache.Del(ctx, configCacheKey)
	}

	cfg, err := s.inner.GetConfig(ctx)
	if err != nil {
		return chat.WidgetConfig{}, err
	}
	if payload, err := json.Marshal(cfg); err == nil {
		if err := s.cache.Set(ctx, configCacheKey, payload, s.configTTL); err != nil {
			s.logger.Warn("cache config snapshot failed", "error", err)
		}
	}
	return cfg, nil
}

func (s *CachedStore) IncrementViewCount(ctx context.Context, faqID string) error {
	if err := s.inner.IncrementViewCount(ctx, faqID); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, faqsCacheKey); err != nil {
		s.logger.Warn("invalidate faq snapshot failed", "error", err)
	}
	return nil
}

func (s *CachedStore) UpdateEmbedding(ctx context.Context, faqID string, embedding chat.Embedding) error {
	if err := s.inner.UpdateEmbedding(ctx, faqID, embedding); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, faqsCacheKey); err != nil {
		s.logger.Warn("invalidate faq snapshot failed", "error", err)
	}
	return nil
}

// Invalidate drops all cached snapshots. The admin cache-clear endpoint and
// the embeddings sync use it.
func (s *CachedStore) Invalidate(ctx context.Context) error {
	return s.cache.Del(ctx, faqsCacheKey, configCacheKey)
}

var _ chat.CatalogStore = (*CachedStore)(nil)
