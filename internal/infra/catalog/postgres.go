package catalog

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/domain/lead"
)

// PostgresStore implements the catalog, lead, and audit persistence on pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListLiveFAQs returns LIVE entries sorted priority-descending.
func (s *PostgresStore) ListLiveFAQs(ctx context.Context) ([]chat.FAQ, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, category, short_answer, long_answer, keywords,
		       status, priority, cta_label, cta_url, ctas, embedding,
		       view_count, force_synthesis
		FROM faqs
		WHERE status = $1
		ORDER BY priority DESC, id
	`, string(chat.StatusLive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faqs []chat.FAQ
	for rows.Next() {
		entry, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		faqs = append(faqs, entry)
	}
	return faqs, rows.Err()
}

// GetConfig assembles the widget configuration from key/value rows.
func (s *PostgresStore) GetConfig(ctx context.Context) (chat.WidgetConfig, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM widget_config`)
	if err != nil {
		return chat.WidgetConfig{}, err
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return chat.WidgetConfig{}, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return chat.WidgetConfig{}, err
	}
	return configFromValues(values), nil
}

// IncrementViewCount bumps the served counter for one FAQ.
func (s *PostgresStore) IncrementViewCount(ctx context.Context, faqID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE faqs SET view_count = view_count + 1 WHERE id = $1
	`, faqID)
	return err
}

// UpdateEmbedding stores a freshly computed vector.
func (s *PostgresStore) UpdateEmbedding(ctx context.Context, faqID string, embedding chat.Embedding) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE faqs SET embedding = $2 WHERE id = $1
	`, faqID, pgvector.NewVector(embedding))
	return err
}

// Insert stores a captured lead.
func (s *PostgresStore) Insert(ctx context.Context, record lead.Lead) error {
	tags, err := json.Marshal(record.Tags)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO leads (id, email, zip, name, tags, source, source_category,
		                   source_question_id, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.ID, record.Email, record.Zip, record.Name, tags, record.Source,
		record.SourceCategory, record.SourceQuestionID, record.SessionID, record.CreatedAt)
	return err
}

// Record appends one widget event.
func (s *PostgresStore) Record(ctx context.Context, event chat.AuditEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO widget_events (name, session_id, payload, user_agent, referrer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.Name, event.SessionID, payload, event.UserAgent, event.Referrer, event.CreatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFAQ(row rowScanner) (chat.FAQ, error) {
	var (
		entry     chat.FAQ
		longAns   sql.NullString
		keywords  sql.NullString
		ctaLabel  sql.NullString
		ctaURL    sql.NullString
		ctasJSON  []byte
		embedding *pgvector.Vector
	)
	err := row.Scan(&entry.ID, &entry.Question, &entry.Category, &entry.ShortAnswer,
		&longAns, &keywords, &entry.Status, &entry.Priority,
		&ctaLabel, &ctaURL, &ctasJSON, &embedding,
		&entry.ViewCount, &entry.ForceSynthesis)
	if err != nil {
		return chat.FAQ{}, err
	}
	entry.LongAnswer = longAns.String
	entry.Keywords = keywords.String
	entry.CTALabel = ctaLabel.String
	entry.CTAURL = ctaURL.String
	if len(ctasJSON) > 0 {
		if err := json.Unmarshal(ctasJSON, &entry.CTAs); err != nil {
			return chat.FAQ{}, err
		}
	}
	if embedding != nil {
		entry.Embedding = chat.Embedding(embedding.Slice())
	}
	return entry, nil
}

var _ chat.CatalogStore = (*PostgresStore)(nil)
var _ chat.AuditSink = (*PostgresStore)(nil)
var _ lead.Repository = (*PostgresStore)(nil)
