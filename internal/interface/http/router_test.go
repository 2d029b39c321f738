package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/askbar/askbar/internal/domain/chat"
	"github.com/askbar/askbar/internal/domain/lead"
	"github.com/askbar/askbar/internal/infra/cache"
	"github.com/askbar/askbar/internal/infra/config"
	"github.com/askbar/askbar/internal/telemetry"
	apperrors "github.com/askbar/askbar/pkg/errors"
)

type stubChatService struct {
	answer chat.Answer
	err    error
	report chat.SyncReport
}

func (s *stubChatService) Resolve(_ context.Context, q chat.Query) (chat.Answer, error) {
	if s.err != nil {
		return chat.Answer{}, s.err
	}
	return s.answer, nil
}

func (s *stubChatService) Bootstrap(_ context.Context) (chat.BootConfig, error) {
	return chat.BootConfig{BrandName: "Acme", WelcomeMessage: "Hello!"}, nil
}

func (s *stubChatService) SyncEmbeddings(_ context.Context) (chat.SyncReport, error) {
	return s.report, nil
}

type stubLeadService struct {
	err error
}

func (s *stubLeadService) Capture(_ context.Context, _ lead.CaptureRequest) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return uuid.New(), nil
}

type stubSink struct {
	mu     sync.Mutex
	events []chat.AuditEvent
}

func (s *stubSink) Record(_ context.Context, event chat.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) Invalidate(_ context.Context) error {
	s.calls++
	return nil
}

type stubBundle struct{}

func (stubBundle) Bundle(_ context.Context) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("(function(){})();")), "abc123", nil
}

func newTestEngine(t *testing.T, mutate func(cfg *config.Config)) (http.Handler, *stubChatService, *stubSink, *stubInvalidator, *telemetry.Runner) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:   ":0",
			RateLimit: config.RateLimitConfig{Enabled: false},
		},
		Admin: config.AdminConfig{Token: "sekrit"},
	}
	if mutate != nil {
		mutate(cfg)
	}
	chatSvc := &stubChatService{answer: chat.Answer{Answer: "You can vote by mail.", Source: chat.SourceFAQMatch, Confidence: 1}}
	sink := &stubSink{}
	invalidator := &stubInvalidator{}
	tasks := telemetry.NewRunner(logger)
	handler := NewWidgetHandler(chatSvc, &stubLeadService{}, sink, tasks, invalidator, stubBundle{}, logger)
	engine := newEngine(cfg, handler, cache.NewMemoryCache(), logger)
	return engine, chatSvc, sink, invalidator, tasks
}

func postJSON(t *testing.T, h http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t, nil)

	rec := postJSON(t, engine, "/api/v1/chat", map[string]string{
		"message":    "How can I vote?",
		"session_id": "s1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var answer chat.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	require.Equal(t, "You can vote by mail.", answer.Answer)
	require.Equal(t, chat.SourceFAQMatch, answer.Source)
}

func TestChatEndpointMapsInvalidInput(t *testing.T) {
	engine, chatSvc, _, _, _ := newTestEngine(t, nil)
	chatSvc.err = apperrors.Wrap(apperrors.CodeInvalidInput, "message is required", nil)

	rec := postJSON(t, engine, "/api/v1/chat", map[string]string{"session_id": "s1"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_input")
}

func TestConfigEndpoint(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Acme")
}

func TestEventEndpointValidatesName(t *testing.T) {
	engine, _, sink, _, tasks := newTestEngine(t, nil)

	rec := postJSON(t, engine, "/api/v1/events", map[string]any{
		"event":      "widget_open",
		"session_id": "s1",
	}, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	tasks.Wait()
	require.Len(t, sink.events, 1)
	require.Equal(t, chat.EventWidgetOpen, sink.events[0].Name)

	rec = postJSON(t, engine, "/api/v1/events", map[string]any{
		"event":      "made_up_event",
		"session_id": "s1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t, func(cfg *config.Config) {
		cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, MaxRequests: 2, Window: time.Minute}
	})

	body := map[string]string{"message": "hi", "session_id": "s1"}
	for i := 0; i < 2; i++ {
		rec := postJSON(t, engine, "/api/v1/chat", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := postJSON(t, engine, "/api/v1/chat", body, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestAdminAuth(t *testing.T) {
	engine, _, _, invalidator, _ := newTestEngine(t, nil)

	rec := postJSON(t, engine, "/api/v1/admin/cache/clear", map[string]string{}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, engine, "/api/v1/admin/cache/clear", map[string]string{}, map[string]string{
		"Authorization": "Bearer sekrit",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, invalidator.calls)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t, func(cfg *config.Config) {
		cfg.Admin.Token = ""
	})

	rec := postJSON(t, engine, "/api/v1/admin/cache/clear", map[string]string{}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWidgetBundle(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/widget.js", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	require.Equal(t, "abc123", rec.Header().Get("ETag"))

	req = httptest.NewRequest(http.MethodGet, "/widget.js", nil)
	req.Header.Set("If-None-Match", "abc123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
