// Package client talks to the search API over HTTP. It is the engine-side
// adapter for both full searches and remote suggestions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/delarge95/ai-news-aggregator-sub000/internal/domain"
	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

const defaultTimeout = 10 * time.Second

// Client is a search API client
type Client struct {
	baseURL         string
	http            *http.Client
	suggestionLimit int
	logger          *logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithSuggestionLimit sets how many suggestions are requested
func WithSuggestionLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.suggestionLimit = n
		}
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{Timeout: timeout},
		suggestionLimit: 8,
		logger:          log.WithComponent("search-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Search runs one page of a search
func (c *Client) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	var resp domain.SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []domain.SearchResult{}
	}
	return &resp, nil
}

// Suggest fetches suggestions for a partial query
func (c *Client) Suggest(ctx context.Context, partial string) ([]domain.SuggestionItem, error) {
	q := url.Values{}
	q.Set("q", partial)
	q.Set("limit", strconv.Itoa(c.suggestionLimit))

	var items []domain.SuggestionItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/suggestions?"+q.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// IndexArticles submits articles for indexing
func (c *Client) IndexArticles(ctx context.Context, articles []*domain.Article) error {
	body, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/v1/articles", bytes.NewReader(body), nil)
}

// do performs a request and decodes the envelope payload into out.
// Transport failures and 5xx answers wrap domain.ErrNetwork; 4xx answers wrap
// domain.ErrInvalidRequest. Cancellation is returned as the context error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug("Search API unreachable", "path", path, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrNetwork, resp.StatusCode, env.Error)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d: %s", domain.ErrInvalidRequest, resp.StatusCode, env.Error)
	}

	if decodeErr != nil {
		if errors.Is(decodeErr, io.EOF) && out == nil {
			return nil
		}
		return fmt.Errorf("%w: malformed response: %v", domain.ErrNetwork, decodeErr)
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", domain.ErrNetwork, env.Error)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: malformed payload: %v", domain.ErrNetwork, err)
	}
	return nil
}
