package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0.55, cfg.Chat.SimilarityThreshold)
	require.Equal(t, 0.70, cfg.Chat.SynthesisThreshold)
	require.Equal(t, 200, cfg.Chat.AnswerMaxChars)
	require.Equal(t, 20, cfg.HTTP.RateLimit.MaxRequests)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("CHAT_SIMILARITY_THRESHOLD", "0.6")
	t.Setenv("LLM_MODEL", "gpt-4o")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	require.Equal(t, ":9999", cfg.HTTP.Address)
	require.Equal(t, 0.6, cfg.Chat.SimilarityThreshold)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.HTTP.RateLimit.Window)
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := defaultConfig()
	cfg.Chat.SimilarityThreshold = 1.5
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsCacheWithoutAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Enabled = true
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsRateLimitWithoutWindow(t *testing.T) {
	cfg := defaultConfig()
	cfg.HTTP.RateLimit.Window = 0
	require.Error(t, cfg.Validate())
}
