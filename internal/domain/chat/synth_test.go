package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	text       string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string, _ int, _ float32) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	return s.text, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSynthConfig() Config {
	return Config{
		SimilarityThreshold: 0.5,
		SynthesisThreshold:  0.7,
		AnswerMaxChars:      200,
		MaxAnswerTokens:     200,
		MaxMessageChars:     500,
		KnowledgeContext:    "The brand sells hand-made candles in Vermont.",
	}
}

func TestTruncateAtWordUnderCap(t *testing.T) {
	require.Equal(t, "short answer", truncateAtWord("short answer", 200))
}

func TestTruncateAtWordNeverSplitsWords(t *testing.T) {
	in := strings.Repeat("word ", 60) // 300 chars
	out := truncateAtWord(in, 200)
	require.LessOrEqual(t, utf8.RuneCountInString(out), 200)
	for _, w := range strings.Fields(out) {
		require.Equal(t, "word", w)
	}
	require.False(t, strings.HasSuffix(out, " "))
}

func TestTruncateAtWordDisabledCap(t *testing.T) {
	in := strings.Repeat("x", 500)
	require.Equal(t, in, truncateAtWord(in, 0))
}

func TestRephraseReturnsCanonicalOnError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("timeout")}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	got := synth.Rephrase(context.Background(), "Acme", "when do you open?", "We open at 9am.")
	require.Equal(t, "We open at 9am.", got)
}

func TestRephraseReturnsCanonicalOnEmptyContent(t *testing.T) {
	completer := &stubCompleter{text: "   "}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	got := synth.Rephrase(context.Background(), "Acme", "when do you open?", "We open at 9am.")
	require.Equal(t, "We open at 9am.", got)
}

func TestRephraseTruncatesAtCap(t *testing.T) {
	completer := &stubCompleter{text: strings.Repeat("friendly ", 40)}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	got := synth.Rephrase(context.Background(), "Acme", "q", "a")
	require.LessOrEqual(t, utf8.RuneCountInString(got), 200)
	require.NotContains(t, got, "friendl\n")
}

func TestRephrasePromptCarriesConstraints(t *testing.T) {
	completer := &stubCompleter{text: "Sure, we open at 9am."}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	synth.Rephrase(context.Background(), "Acme", "when do you open?", "We open at 9am.")
	require.Contains(t, completer.lastSystem, "Preserve every fact")
	require.Contains(t, completer.lastSystem, "Acme")
	require.Contains(t, completer.lastUser, "when do you open?")
}

func TestFallbackReturnsStaticMessageOnError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("unavailable")}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	got := synth.Fallback(context.Background(), "anything", WidgetConfig{FallbackMessage: "Please email us."})
	require.Equal(t, "Please email us.", got)
}

func TestFallbackDefaultsStaticMessage(t *testing.T) {
	completer := &stubCompleter{err: errors.New("unavailable")}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	got := synth.Fallback(context.Background(), "anything", WidgetConfig{})
	require.Equal(t, defaultFallbackMessage, got)
}

func TestFallbackPromptForbidsMetaCommentary(t *testing.T) {
	completer := &stubCompleter{text: "Happy to help with candles."}
	synth := newSynthesizer(completer, testSynthConfig(), testLogger())
	synth.Fallback(context.Background(), "do you ship?", WidgetConfig{BrandName: "Acme Candles"})
	require.Contains(t, completer.lastSystem, "search results")
	require.Contains(t, completer.lastSystem, "Never mention that you are an AI")
	require.Contains(t, completer.lastSystem, "Acme Candles")
	require.Contains(t, completer.lastSystem, "hand-made candles")
}
