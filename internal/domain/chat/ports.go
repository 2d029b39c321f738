package chat

import "context"

// CatalogStore provides the FAQ corpus and brand configuration. Both reads are
// treated as immutable snapshots per resolution call.
type CatalogStore interface {
	// ListLiveFAQs returns LIVE entries sorted priority-descending.
	ListLiveFAQs(ctx context.Context) ([]FAQ, error)
	GetConfig(ctx context.Context) (WidgetConfig, error)
	// IncrementViewCount is non-critical telemetry, called detached.
	IncrementViewCount(ctx context.Context, faqID string) error
	UpdateEmbedding(ctx context.Context, faqID string, embedding Embedding) error
}

// Embedder turns text into fixed-length vectors via an external model.
type Embedder interface {
	Embed(ctx context.Context, text string) (Embedding, error)
	EmbedBatch(ctx context.Context, texts []string) ([]Embedding, error)
}

// Completer produces generative text via an external model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}

// AuditSink records widget events. Callers treat failures as disposable.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}
