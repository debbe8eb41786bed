// Package llm adapts the Anthropic Messages API to provider.Session.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/anikor-backend/internal/config"
	"github.com/heartmarshall/anikor-backend/internal/provider"
)

// Client hands out model sessions. It holds configuration only; every
// session owns its own HTTP transport.
type Client struct {
	cfg config.TranslatorConfig
	log *slog.Logger
}

// NewClient creates a Client. With an empty API key Acquire always
// returns provider.ErrDisabled.
func NewClient(logger *slog.Logger, cfg config.TranslatorConfig) *Client {
	return &Client{
		cfg: cfg,
		log: logger.With("adapter", "llm"),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

// Acquire opens a new session backed by a fresh transport.
func (c *Client) Acquire(ctx context.Context) (provider.Session, error) {
	if !c.cfg.Enabled() {
		return nil, provider.ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	opts := []option.RequestOption{
		option.WithAPIKey(c.cfg.APIKey),
		option.WithHTTPClient(&http.Client{Transport: transport, Timeout: c.cfg.Timeout}),
		option.WithMaxRetries(0),
	}
	if c.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.cfg.BaseURL))
	}

	return &Session{
		api:       anthropic.NewClient(opts...),
		transport: transport,
		model:     c.cfg.Model,
		maxTokens: c.cfg.MaxTokens,
		log:       c.log,
	}, nil
}

// Session is a single-attempt model scope.
type Session struct {
	api       anthropic.Client
	transport *http.Transport
	model     string
	maxTokens int64
	log       *slog.Logger
}

// Complete sends one user turn and returns the concatenated text blocks.
func (s *Session) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	msg, err := s.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   s.maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", &provider.ExternalError{Service: "llm", Err: err}
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	s.log.DebugContext(ctx, "llm completion",
		slog.Float64("temperature", temperature),
		slog.Int64("input_tokens", msg.Usage.InputTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	if b.Len() == 0 {
		return "", fmt.Errorf("llm: empty response (stop reason %q)", msg.StopReason)
	}
	return b.String(), nil
}

// Close releases the session's idle connections.
func (s *Session) Close() error {
	s.transport.CloseIdleConnections()
	return nil
}
