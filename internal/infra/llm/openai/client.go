package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/askbar/askbar/internal/domain/chat"
	apperrors "github.com/askbar/askbar/pkg/errors"
	"github.com/askbar/askbar/pkg/metrics"
)

// maxEmbedChars bounds embedding input when no tokenizer is available.
const maxEmbedChars = 8000

// Config describes the provider connection.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	RequestTimeout time.Duration
	EmbedMaxTokens int
}

// Client implements chat.Embedder and chat.Completer against any
// OpenAI-compatible endpoint.
type Client struct {
	api     *openai.Client
	cfg     Config
	encoder *tiktoken.Tiktoken
	logger  *slog.Logger
}

// NewClient builds the provider client. A nil tokenizer is tolerated; input
// truncation then falls back to a character bound.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("tokenizer unavailable, using character truncation", "error", err)
		encoder = nil
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		encoder: encoder,
		logger:  logger.With("component", "llm.openai"),
	}
}

// Embed returns the vector for one text.
func (c *Client) Embed(ctx context.Context, text string) (chat.Embedding, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([]chat.Embedding, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	inputs := make([]string, len(texts))
	for i, text := range texts {
		inputs[i] = c.truncateForEmbedding(text)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: inputs,
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLLMError, "create embeddings failed", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, apperrors.Wrap(apperrors.CodeLLMError, "embedding count mismatch", nil)
	}

	// Responses may arrive out of order; Index restores input order.
	vectors := make([]chat.Embedding, len(inputs))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, apperrors.Wrap(apperrors.CodeLLMError, "embedding index out of range", nil)
		}
		vectors[item.Index] = chat.Embedding(item.Embedding)
	}
	c.logUsage("embeddings", metrics.TokenUsage{
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	})
	return vectors, nil
}

// Complete runs one chat completion and returns the trimmed text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "chat completion returned no choices", errors.New("empty choices"))
	}
	c.logUsage("completion", metrics.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	})
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) truncateForEmbedding(text string) string {
	if c.encoder != nil && c.cfg.EmbedMaxTokens > 0 {
		return truncateTokens(c.encoder, text, c.cfg.EmbedMaxTokens)
	}
	if len(text) > maxEmbedChars {
		return text[:maxEmbedChars]
	}
	return text
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

func (c *Client) logUsage(kind string, usage metrics.TokenUsage) {
	c.logger.Debug("provider usage",
		"kind", kind,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"total_tokens", usage.TotalTokens,
	)
}

// truncateTokens trims text to at most maxTokens tokens under enc.
func truncateTokens(enc *tiktoken.Tiktoken, text string, maxTokens int) string {
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return enc.Decode(tokens[:maxTokens])
}

var _ chat.Embedder = (*Client)(nil)
var _ chat.Completer = (*Client)(nil)
