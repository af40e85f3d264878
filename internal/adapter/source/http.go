package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

// maxDocumentSize is the largest outline accepted; bigger bodies are an error.
const maxDocumentSize = 4 << 20

// HTTP fetches outlines from <baseURL>/<lang>/<level>.md.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	maxSize    int64
	log        *slog.Logger
}

// NewHTTP creates an HTTP source. timeout bounds each attempt.
func NewHTTP(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
		maxSize:    maxDocumentSize,
		log:        logger.With("adapter", "source_http"),
	}
}

// Fetch downloads the outline of (lang, level). HTTP 404 is domain.ErrNotFound;
// a 5xx after the retry is domain.ErrUnavailable.
func (s *HTTP) Fetch(ctx context.Context, lang domain.Language, level domain.Level) (string, error) {
	reqURL := s.baseURL + "/" + documentPath(lang, level)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("source_http: create request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain")

	resp, err := s.doWithRetry(ctx, req)
	if err != nil {
		s.log.ErrorContext(ctx, "outline request failed", slog.String("url", reqURL), slog.String("error", err.Error()))
		return "", fmt.Errorf("source_http: request failed: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("outline %s/%s: %w", lang, level, domain.ErrNotFound)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("source_http: status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("source_http: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("source_http: read body: %w", err)
	}
	if int64(len(body)) > s.maxSize {
		return "", fmt.Errorf("source_http: outline %s/%s exceeds %d bytes: %w", lang, level, s.maxSize, domain.ErrUnavailable)
	}

	s.log.DebugContext(ctx, "outline downloaded",
		slog.String("url", reqURL),
		slog.Int("bytes", len(body)),
	)
	return string(body), nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (s *HTTP) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := s.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	s.log.WarnContext(ctx, "outline retry", slog.String("url", req.URL.String()), slog.String("reason", reason))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.retryDelay):
	}

	return s.httpClient.Do(req)
}
