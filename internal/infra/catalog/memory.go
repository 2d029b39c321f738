package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/domain/lead"
)

// MemoryStore keeps the catalog in process memory. It backs development
// setups without Postgres and the service tests.
type MemoryStore struct {
	mu     sync.RWMutex
	faqs   map[string]chat.FAQ
	config chat.WidgetConfig
	leads  []lead.Lead
	events []chat.AuditEvent
}

// NewMemoryStore creates an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{faqs: make(map[string]chat.FAQ)}
}

// Seed replaces the stored FAQ corpus and configuration.
func (s *MemoryStore) Seed(faqs []chat.FAQ, config chat.WidgetConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faqs = make(map[string]chat.FAQ, len(faqs))
	for _, entry := range faqs {
		s.faqs[entry.ID] = entry
	}
	s.config = config
}

func (s *MemoryStore) ListLiveFAQs(_ context.Context) ([]chat.FAQ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chat.FAQ, 0, len(s.faqs))
	for _, entry := range s.faqs {
		if entry.Status == chat.StatusLive {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetConfig(_ context.Context) (chat.WidgetConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, nil
}

func (s *MemoryStore) IncrementViewCount(_ context.Context, faqID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.faqs[faqID]
	if !ok {
		return fmt.Errorf("faq %q not found", faqID)
	}
	entry.ViewCount++
	s.faqs[faqID] = entry
	return nil
}

func (s *MemoryStore) UpdateEmbedding(_ context.Context, faqID string, embedding chat.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.faqs[faqID]
	if !ok {
		return fmt.Errorf("faq %q not found", faqID)
	}
	entry.Embedding = embedding
	s.faqs[faqID] = entry
	return nil
}

func (s *MemoryStore) Insert(_ context.Context, record lead.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, record)
	return nil
}

func (s *MemoryStore) Record(_ context.Context, event chat.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Leads returns captured leads, used by tests.
func (s *MemoryStore) Leads() []lead.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lead.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Events returns recorded events, used by tests.
func (s *MemoryStore) Events() []chat.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chat.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

var _ chat.CatalogStore = (*MemoryStore)(nil)
var _ chat.AuditSink = (*MemoryStore)(nil)
var _ lead.Repository = (*MemoryStore)(nil)
