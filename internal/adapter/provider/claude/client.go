// Package claude relays practice conversations to the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/lingua-cards/internal/config"
	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// Client completes tutor turns with Claude.
type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// New creates a Client from ChatConfig. Extra request options are applied
// after the configured ones.
func New(cfg config.ChatConfig, logger *slog.Logger, opts ...option.RequestOption) *Client {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	return &Client{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
		log:       logger.With("adapter", "claude"),
	}
}

// Complete sends the conversation and returns the text of the reply.
// Learner turns become user messages, tutor turns assistant messages.
func (c *Client) Complete(ctx context.Context, system string, turns []domain.ChatTurn) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(t.Text)
		if t.Role == domain.ChatRoleTutor {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  messages,
	})
	if err != nil {
		return "", c.mapError(ctx, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("claude: empty response: %w", domain.ErrUnavailable)
	}

	c.log.DebugContext(ctx, "claude reply",
		slog.Int("turns", len(turns)),
		slog.Int64("input_tokens", msg.Usage.InputTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return text, nil
}

func (c *Client) mapError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("claude: %w", ctx.Err())
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		c.log.WarnContext(ctx, "claude request failed", slog.Int("status", apiErr.StatusCode))
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("claude: %w", domain.ErrRateLimited)
		case apiErr.StatusCode >= 500 || apiErr.StatusCode == 529:
			return fmt.Errorf("claude: status %d: %w", apiErr.StatusCode, domain.ErrUnavailable)
		default:
			return fmt.Errorf("claude: status %d: %w", apiErr.StatusCode, err)
		}
	}

	// Transport failures: the tutor can still fall back to its script.
	return fmt.Errorf("claude: %w: %w", domain.ErrUnavailable, err)
}
