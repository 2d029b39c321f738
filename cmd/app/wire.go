//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/askbar/askbar/internal/bootstrap"
	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/domain/lead"
	"github.com/askbar/askbar/internal/infra/catalog"
	"github.com/askbar/askbar/internal/infra/config"
	llmopenai "github.com/askbar/askbar/internal/infra/llm/openai"
	httpiface "github.com/askbar/askbar/internal/interface/http"
	"github.com/askbar/askbar/internal/telemetry"
	"github.com/askbar/askbar/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		telemetry.NewRunner,
		provideChatConfig,
		provideLLMClient,
		provideCache,
		provideBackingStore,
		provideCachedCatalog,
		provideLeadRepository,
		provideAuditSink,
		provideBundleSource,
		chat.NewService,
		lead.NewService,
		wire.Bind(new(chat.CatalogStore), new(*catalog.CachedStore)),
		wire.Bind(new(chat.Embedder), new(*llmopenai.Client)),
		wire.Bind(new(chat.Completer), new(*llmopenai.Client)),
		wire.Bind(new(httpiface.CacheInvalidator), new(*catalog.CachedStore)),
		httpiface.NewWidgetHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
