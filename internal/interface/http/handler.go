package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/domain/lead"
	"github.com/askbar/askbar/internal/infra/assets"
	"github.com/askbar/askbar/internal/telemetry"
)

// CacheInvalidator drops cached catalog snapshots.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// WidgetHandler exposes the widget API.
type WidgetHandler struct {
	chat   chat.Service
	leads  lead.Service
	audit  chat.AuditSink
	tasks  *telemetry.Runner
	caches CacheInvalidator
	bundle assets.BundleSource
	logger *slog.Logger
}

// NewWidgetHandler constructs the handler.
func NewWidgetHandler(
	chatSvc chat.Service,
	leadSvc lead.Service,
	audit chat.AuditSink,
	tasks *telemetry.Runner,
	caches CacheInvalidator,
	bundle assets.BundleSource,
	logger *slog.Logger,
) *WidgetHandler {
	return &WidgetHandler{
		chat:   chatSvc,
		leads:  leadSvc,
		audit:  audit,
		tasks:  tasks,
		caches: caches,
		bundle: bundle,
		logger: logger.With("component", "http.handler"),
	}
}

type chatRequest struct {
	Message          string `json:"message"`
	SessionID        string `json:"session_id"`
	PreviousCategory string `json:"previous_category,omitempty"`
}

// Chat resolves one visitor message.
func (h *WidgetHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return
	}

	answer, err := h.chat.Resolve(c.Request.Context(), chat.Query{
		Message:          req.Message,
		SessionID:        req.SessionID,
		PreviousCategory: req.PreviousCategory,
		UserAgent:        c.Request.UserAgent(),
		Referrer:         c.GetHeader("Referer"),
	})
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Config serves the widget bootstrap payload.
func (h *WidgetHandler) Config(c *gin.Context) {
	boot, err := h.chat.Bootstrap(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, boot)
}

// Lead captures a visitor contact.
func (h *WidgetHandler) Lead(c *gin.Context) {
	var req lead.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.Referrer = c.GetHeader("Referer")

	id, err := h.leads.Capture(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type eventRequest struct {
	Event     string         `json:"event"`
	SessionID string         `json:"session_id"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Event records one widget telemetry event. The write happens detached so
// the widget never waits on the event log.
func (h *WidgetHandler) Event(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return
	}
	if !chat.KnownEvent(req.Event) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "unknown event name", nil))
		return
	}
	if req.SessionID == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "session id is required", nil))
		return
	}

	event := chat.AuditEvent{
		Name:      req.Event,
		SessionID: req.SessionID,
		Payload:   req.Payload,
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.GetHeader("Referer"),
		CreatedAt: time.Now().UTC(),
	}
	h.tasks.Go("audit_widget_event", func(ctx context.Context) error {
		return h.audit.Record(ctx, event)
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// AdminCacheClear drops cached catalog snapshots.
func (h *WidgetHandler) AdminCacheClear(c *gin.Context) {
	if err := h.caches.Invalidate(c.Request.Context()); err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	h.logger.Info("cache cleared by admin")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdminEmbeddingsSync backfills missing FAQ embeddings.
func (h *WidgetHandler) AdminEmbeddingsSync(c *gin.Context) {
	report, err := h.chat.SyncEmbeddings(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	if err := h.caches.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("cache invalidation after sync failed", "error", err)
	}
	c.JSON(http.StatusOK, report)
}

// WidgetBundle serves the embeddable script.
func (h *WidgetHandler) WidgetBundle(c *gin.Context) {
	body, etag, err := h.bundle.Bundle(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "widget bundle unavailable", err))
		return
	}
	defer body.Close()

	if etag != "" {
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
	}
	c.Header("Content-Type", "application/javascript; charset=utf-8")
	c.Header("Cache-Control", "public, max-age=300")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Warn("widget bundle write failed", "error", err)
	}
}

// Health reports liveness.
func (h *WidgetHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
