package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const defaultFallbackMessage = "I'm not sure about that. Would you like to speak with someone?"

// synthesizer wraps the generation provider behind the two synthesis modes.
// It is an enhancement layer: every failure path returns the caller-supplied
// fallback text, never an error.
type synthesizer struct {
	completer Completer
	cfg       Config
	logger    *slog.Logger
}

func newSynthesizer(completer Completer, cfg Config, logger *slog.Logger) *synthesizer {
	return &synthesizer{
		completer: completer,
		cfg:       cfg,
		logger:    logger.With("component", "chat.synthesizer"),
	}
}

// Rephrase rewrites a canonical short answer into a conversational reply
// without adding facts. On any provider failure the canonical answer comes
// back verbatim.
func (s *synthesizer) Rephrase(ctx context.Context, brandName, question, shortAnswer string) string {
	system := fmt.Sprintf(`You are the voice of %s, answering a visitor inside a chat widget.
Rewrite the canonical answer below as a warm, conversational reply to the visitor's question.

RULES:
- Preserve every fact in the canonical answer; never add names, numbers, or commitments that are not in it.
- Write in first person, in the brand's voice, at most two sentences.
- Do not end with a question.
- Never mention that you are an automated system.`, brandName)
	user := fmt.Sprintf("Question: %q\nCanonical answer: %q", question, shortAnswer)

	text, err := s.completer.Complete(ctx, system, user, s.cfg.MaxAnswerTokens, s.cfg.Temperature)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		s.logger.Warn("rephrase failed, returning canonical answer", "error", err)
		return shortAnswer
	}
	return truncateAtWord(text, s.cfg.AnswerMaxChars)
}

// Fallback generates a response constrained to the brand's knowledge context.
// On any provider failure the configured static fallback message comes back.
func (s *synthesizer) Fallback(ctx context.Context, question string, cfg WidgetConfig) string {
	fallback := cfg.FallbackMessage
	if fallback == "" {
		fallback = defaultFallbackMessage
	}
	brand := cfg.BrandName
	if brand == "" {
		brand = "the brand"
	}

	system := fmt.Sprintf(`%s

INSTRUCTIONS:
- You are a warm, friendly assistant for %s; answer naturally and conversationally in 2-4 sentences.
- Only use facts from the context above; never invent specific names, numbers, or policy details.
- Never say "search results", "I don't have information", "please provide more context", or "I cannot find".
- Never mention that you are an AI or that you are looking anything up.
- For completely off-topic questions, warmly redirect the visitor back to %s.
- Do not include URLs in your response; the widget shows call-to-action buttons separately.`,
		strings.TrimSpace(s.cfg.KnowledgeContext), brand, brand)

	text, err := s.completer.Complete(ctx, system, question, s.cfg.MaxAnswerTokens, s.cfg.Temperature)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		s.logger.Warn("fallback generation failed, returning static message", "error", err)
		return fallback
	}
	return truncateAtWord(text, s.cfg.AnswerMaxChars)
}

// truncateAtWord cuts s to at most max runes, backing up to the nearest word
// boundary so no word is ever split. max <= 0 disables the cap.
func truncateAtWord(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := runes[:max]
	if idx := lastSpaceIndex(cut); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(string(cut), " \t\n")
}

func lastSpaceIndex(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case ' ', '\t', '\n':
			return i
		}
	}
	return -1
}
