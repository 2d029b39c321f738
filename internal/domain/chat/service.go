package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/askbar/askbar/internal/telemetry"
	apperrors "github.com/askbar/askbar/pkg/errors"
)

// Service exposes the answer-resolution pipeline and the widget bootstrap.
type Service interface {
	Resolve(ctx context.Context, q Query) (Answer, error)
	Bootstrap(ctx context.Context) (BootConfig, error)
	SyncEmbeddings(ctx context.Context) (SyncReport, error)
}

type service struct {
	cfg      Config
	catalog  CatalogStore
	embedder Embedder
	synth    *synthesizer
	audit    AuditSink
	tasks    *telemetry.Runner
	logger   *slog.Logger
}

// NewService wires up the chat domain.
func NewService(cfg Config, catalog CatalogStore, embedder Embedder, completer Completer, audit AuditSink, tasks *telemetry.Runner, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		catalog:  catalog,
		embedder: embedder,
		synth:    newSynthesizer(completer, cfg, logger),
		audit:    audit,
		tasks:    tasks,
		logger:   logger.With("component", "chat.service"),
	}
}

// resolver is one strategy in the prioritized chain. It reports whether it
// produced an answer; provider failures degrade to (zero, false) internally.
type resolver func(ctx context.Context, q Query, faqs []FAQ, cfg WidgetConfig) (Answer, bool)

// Resolve validates the query, then runs the strategy chain: category
// shortcut, exact text match, semantic match, generic fallback. The fallback
// always answers, so a validated query never fails on provider errors.
func (s *service) Resolve(ctx context.Context, q Query) (Answer, error) {
	q.Message = strings.TrimSpace(q.Message)
	if q.Message == "" {
		return Answer{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}
	if s.cfg.MaxMessageChars > 0 && utf8.RuneCountInString(q.Message) > s.cfg.MaxMessageChars {
		return Answer{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message is too long", nil)
	}
	if strings.TrimSpace(q.SessionID) == "" {
		return Answer{}, apperrors.Wrap(apperrors.CodeInvalidInput, "session id is required", nil)
	}

	cfg, err := s.catalog.GetConfig(ctx)
	if err != nil {
		return Answer{}, apperrors.Wrap(apperrors.CodeCatalogError, "load widget config failed", err)
	}
	faqs, err := s.catalog.ListLiveFAQs(ctx)
	if err != nil {
		return Answer{}, apperrors.Wrap(apperrors.CodeCatalogError, "load faqs failed", err)
	}

	plan := []resolver{s.categoryShortcut, s.exactMatch, s.semanticMatch}
	for _, strategy := range plan {
		if answer, ok := strategy(ctx, q, faqs, cfg); ok {
			s.recordAnswer(q, answer)
			return answer, nil
		}
	}

	answer := s.genericFallback(ctx, q, cfg)
	s.recordAnswer(q, answer)
	return answer, nil
}

// categoryShortcut serves the highest-priority FAQ of the quick-button
// category. The list is already priority-descending, so the first hit wins
// and ties stay stable.
func (s *service) categoryShortcut(_ context.Context, q Query, faqs []FAQ, cfg WidgetConfig) (Answer, bool) {
	if q.PreviousCategory == "" {
		return Answer{}, false
	}
	for _, faq := range faqs {
		if faq.Category == q.PreviousCategory {
			s.logger.Info("faq match (quick button)", "faq_id", faq.ID, "category", faq.Category)
			return s.answerFromFAQ(faq, faq.ShortAnswer, 1, cfg), true
		}
	}
	return Answer{}, false
}

// exactMatch trusts case-insensitive, whitespace-trimmed question equality
// and returns the short answer verbatim.
func (s *service) exactMatch(_ context.Context, q Query, faqs []FAQ, cfg WidgetConfig) (Answer, bool) {
	queryLower := strings.ToLower(q.Message)
	for _, faq := range faqs {
		if strings.ToLower(strings.TrimSpace(faq.Question)) == queryLower {
			s.logger.Info("faq match (exact)", "faq_id", faq.ID)
			return s.answerFromFAQ(faq, faq.ShortAnswer, 1, cfg), true
		}
	}
	return Answer{}, false
}

// semanticMatch embeds the query and scans the corpus by cosine similarity.
// Embedding failures skip the strategy rather than failing the request.
func (s *service) semanticMatch(ctx context.Context, q Query, faqs []FAQ, cfg WidgetConfig) (Answer, bool) {
	embedding, err := s.embedder.Embed(ctx, q.Message)
	if err != nil || embedding.IsZero() {
		s.logger.Warn("query embedding failed, skipping semantic match", "error", err)
		return Answer{}, false
	}

	match, ok := findMostSimilar(embedding, faqs, s.cfg.SimilarityThreshold)
	if !ok {
		return Answer{}, false
	}
	s.logger.Info("faq match (semantic)", "faq_id", match.FAQ.ID, "similarity", match.Similarity)

	answer := match.FAQ.ShortAnswer
	if match.FAQ.ForceSynthesis || match.Similarity < s.cfg.SynthesisThreshold {
		answer = s.synth.Rephrase(ctx, cfg.BrandName, q.Message, match.FAQ.ShortAnswer)
	}
	return s.answerFromFAQ(match.FAQ, answer, match.Similarity, cfg), true
}

// genericFallback always answers: model output constrained to the brand
// context, or the static fallback message when generation fails.
func (s *service) genericFallback(ctx context.Context, q Query, cfg WidgetConfig) Answer {
	s.logger.Info("no faq match, using generic fallback")
	answer := Answer{
		Answer:     s.synth.Fallback(ctx, q.Message, cfg),
		CTAs:       resolveCTAs(nil, cfg),
		Confidence: 0,
		Source:     SourceNoMatch,
	}
	finalizeCTAFields(&answer)
	return answer
}

func (s *service) answerFromFAQ(faq FAQ, text string, confidence float64, cfg WidgetConfig) Answer {
	answer := Answer{
		Answer:     text,
		Category:   faq.Category,
		FAQID:      faq.ID,
		CTAs:       resolveCTAs(&faq, cfg),
		Confidence: confidence,
		Source:     SourceFAQMatch,
	}
	finalizeCTAFields(&answer)
	s.bumpViewCount(faq.ID)
	return answer
}

// finalizeCTAFields keeps the legacy single-CTA field in sync and supplies
// the generic button when nothing at all is configured.
func finalizeCTAFields(answer *Answer) {
	switch len(answer.CTAs) {
	case 0:
		answer.CTA = &CTAItem{Label: "Learn more", Action: ActionLeadCapture}
	case 1:
		answer.CTA = &answer.CTAs[0]
	}
}

func (s *service) bumpViewCount(faqID string) {
	s.tasks.Go("faq_view_count", func(ctx context.Context) error {
		return s.catalog.IncrementViewCount(ctx, faqID)
	})
}

func (s *service) recordAnswer(q Query, answer Answer) {
	payload := map[string]any{
		"source":     string(answer.Source),
		"confidence": answer.Confidence,
	}
	if answer.FAQID != "" {
		payload["faq_id"] = answer.FAQID
	}
	event := AuditEvent{
		Name:      EventAnswerServed,
		SessionID: q.SessionID,
		Payload:   payload,
		UserAgent: q.UserAgent,
		Referrer:  q.Referrer,
		CreatedAt: time.Now().UTC(),
	}
	s.tasks.Go("audit_answer_served", func(ctx context.Context) error {
		return s.audit.Record(ctx, event)
	})
}

// Bootstrap assembles the widget boot payload: brand settings plus one quick
// button per category, each carrying the category's top question.
func (s *service) Bootstrap(ctx context.Context) (BootConfig, error) {
	cfg, err := s.catalog.GetConfig(ctx)
	if err != nil {
		return BootConfig{}, apperrors.Wrap(apperrors.CodeCatalogError, "load widget config failed", err)
	}
	faqs, err := s.catalog.ListLiveFAQs(ctx)
	if err != nil {
		return BootConfig{}, apperrors.Wrap(apperrors.CodeCatalogError, "load faqs failed", err)
	}

	limit := cfg.QuickButtonsLimit
	if limit <= 0 {
		limit = 6
	}
	seen := make(map[string]struct{})
	buttons := make([]QuickButton, 0, limit)
	for _, faq := range faqs {
		if faq.Category == "" {
			continue
		}
		if _, dup := seen[faq.Category]; dup {
			continue
		}
		seen[faq.Category] = struct{}{}
		buttons = append(buttons, QuickButton{Label: faq.Category, Category: faq.Category, Question: faq.Question})
		if len(buttons) >= limit {
			break
		}
	}

	brand := cfg.BrandName
	if brand == "" {
		brand = "Support"
	}
	welcome := cfg.WelcomeMessage
	if welcome == "" {
		welcome = "Hi! How can I help you today?"
	}
	fallback := cfg.FallbackMessage
	if fallback == "" {
		fallback = defaultFallbackMessage
	}
	contactLabel := cfg.ContactCTALabel
	if contactLabel == "" {
		contactLabel = "Contact Us"
	}

	return BootConfig{
		BrandName:          brand,
		WelcomeMessage:     welcome,
		QuickButtons:       buttons,
		Theme:              cfg.Theme,
		FallbackMessage:    fallback,
		ContactCTALabel:    contactLabel,
		ContactCTAURL:      cfg.ContactCTAURL,
		ContactCTAs:        normalizeCTAList(cfg.ContactCTAs, "Contact"),
		RequireEmailToChat: cfg.RequireEmailToChat,
	}, nil
}

// SyncEmbeddings backfills vectors for LIVE FAQs that have none. Batch
// results come back in input order from the embedder.
func (s *service) SyncEmbeddings(ctx context.Context) (SyncReport, error) {
	faqs, err := s.catalog.ListLiveFAQs(ctx)
	if err != nil {
		return SyncReport{}, apperrors.Wrap(apperrors.CodeCatalogError, "load faqs failed", err)
	}

	missing := make([]FAQ, 0)
	for _, faq := range faqs {
		if faq.Embedding.IsZero() {
			missing = append(missing, faq)
		}
	}
	report := SyncReport{Total: len(faqs)}
	if len(missing) == 0 {
		return report, nil
	}

	texts := make([]string, len(missing))
	for i, faq := range missing {
		texts[i] = faq.Question
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, apperrors.Wrap(apperrors.CodeLLMError, "embedding batch failed", err)
	}

	for i, faq := range missing {
		if i >= len(embeddings) || embeddings[i].IsZero() {
			continue
		}
		if err := s.catalog.UpdateEmbedding(ctx, faq.ID, embeddings[i]); err != nil {
			return report, apperrors.Wrap(apperrors.CodeCatalogError, "store embedding failed", err)
		}
		report.Updated++
	}
	s.logger.Info("embedding sync complete", "updated", report.Updated, "total", report.Total)
	return report, nil
}
