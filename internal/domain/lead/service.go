package lead

import (
	"context"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/telemetry"
	apperrors "github.com/askbar/askbar/pkg/errors"
)

const maxNameLength = 100

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// Repository persists captured leads.
type Repository interface {
	Insert(ctx context.Context, lead Lead) error
}

// Service validates and stores widget leads.
type Service interface {
	Capture(ctx context.Context, req CaptureRequest) (uuid.UUID, error)
}

type service struct {
	repo   Repository
	audit  chat.AuditSink
	tasks  *telemetry.Runner
	logger *slog.Logger
}

// NewService wires up the lead domain.
func NewService(repo Repository, audit chat.AuditSink, tasks *telemetry.Runner, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		audit:  audit,
		tasks:  tasks,
		logger: logger.With("component", "lead.service"),
	}
}

// Capture stores the lead and records a lead_captured event detached.
func (s *service) Capture(ctx context.Context, req CaptureRequest) (uuid.UUID, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeInvalidInput, "valid email is required", err)
	}
	zip := strings.TrimSpace(req.Zip)
	if zip != "" && !zipPattern.MatchString(zip) {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeInvalidInput, "zip must be 5 digits", nil)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeInvalidInput, "session id is required", nil)
	}
	name := strings.TrimSpace(req.Name)
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}

	record := Lead{
		ID:               uuid.New(),
		Email:            email,
		Zip:              zip,
		Name:             name,
		Tags:             req.Tags,
		Source:           "web",
		SourceCategory:   req.SourceCategory,
		SourceQuestionID: req.SourceQuestionID,
		SessionID:        req.SessionID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.CodeCatalogError, "store lead failed", err)
	}
	s.logger.Info("lead captured", "lead_id", record.ID, "session_id", record.SessionID)

	event := chat.AuditEvent{
		Name:      chat.EventLeadCaptured,
		SessionID: record.SessionID,
		Payload: map[string]any{
			"source_category":    record.SourceCategory,
			"source_question_id": record.SourceQuestionID,
		},
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
		CreatedAt: record.CreatedAt,
	}
	s.tasks.Go("audit_lead_captured", func(ctx context.Context) error {
		return s.audit.Record(ctx, event)
	})
	return record.ID, nil
}
