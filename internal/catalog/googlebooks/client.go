// Package googlebooks is a rate-limited client for the Google Books volumes
// API. Responses are normalized into domain books so callers never see the
// upstream shape.
package googlebooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/darcyapp/darcy-server/internal/errors"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1"
	defaultTimeout = 30 * time.Second

	// searchMaxResults caps how many volumes a search returns.
	searchMaxResults = 10
)

// Client provides access to the Google Books volumes API.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	apiKey  string
	baseURL string
}

// New creates a Google Books client. The API key is optional: unauthenticated
// requests are answered at a reduced quota.
func New(logger *slog.Logger, apiKey string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		// Google's default quota is generous; 5 rps with a burst of 10
		// keeps a single instance comfortably inside it.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		logger:  logger,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// doRequest executes a rate-limited GET and classifies the response status.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	requestURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("google books request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("google books request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("read google books response").WithCause(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, apperrors.NotFound("volume not found")
	case http.StatusTooManyRequests:
		return nil, apperrors.UpstreamRateLimited("google books rate limit exceeded")
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, apperrors.UpstreamUnauthorized("google books rejected the API key")
	default:
		return nil, apperrors.Upstream(fmt.Sprintf("google books returned status %d", resp.StatusCode))
	}
}
