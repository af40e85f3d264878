// Package translate provides machine translation for words the static
// tables cannot resolve.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

const maxResponseBytes = 1 << 20

// HTTP calls a LibreTranslate-compatible JSON API.
type HTTP struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewHTTP creates an HTTP provider for the service at baseURL.
func NewHTTP(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
		log:        logger.With("adapter", "translate"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate translates text from one language to another.
func (p *HTTP) Translate(ctx context.Context, text string, from, to domain.Language) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: string(from),
		Target: string(to),
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("translate: encode request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, payload, text)
	if err != nil {
		p.log.ErrorContext(ctx, "translate request failed", slog.String("text", text), slog.String("error", err.Error()))
		return "", fmt.Errorf("translate: request failed: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("translate: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("translate: %w", domain.ErrRateLimited)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("translate: status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		var apiErr translateResponse
		_ = json.Unmarshal(body, &apiErr)
		return "", fmt.Errorf("translate: unexpected status %d: %s", resp.StatusCode, apiErr.Error)
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("translate: decode json: %w", err)
	}

	p.log.DebugContext(ctx, "translate response",
		slog.String("text", text),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
	)
	return strings.TrimSpace(out.TranslatedText), nil
}

// doWithRetry posts payload with a single retry on 5xx or network errors.
// The request is rebuilt for the retry since its body was consumed.
func (p *HTTP) doWithRetry(ctx context.Context, payload []byte, text string) (*http.Response, error) {
	do := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return p.httpClient.Do(req)
	}

	resp, err := do()
	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "translate retry", slog.String("text", text), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.retryDelay):
	}
	return do()
}
