// Package newsapi is a minimal NewsAPI.org client used for coverage lookups
// during content verification.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

// DefaultBaseURL is the production NewsAPI endpoint.
const DefaultBaseURL = "https://newsapi.org"

const (
	maxQueryLen = 100
	pageSize    = 2
)

// Client implements capability.NewsSearcher against the /v2/everything
// endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	policy  retry.Policy
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryPolicy replaces the retry schedule.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// New creates a NewsAPI client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("newsapi: API key cannot be empty")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		policy:  capability.LookupPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type articleJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type everythingResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []articleJSON `json:"articles"`
}

// SearchNews queries /v2/everything for the most relevant recent coverage.
// The query is truncated to 100 characters and at most two articles are
// requested.
func (c *Client) SearchNews(ctx context.Context, query string) ([]capability.Article, error) {
	if len(query) > maxQueryLen {
		query = query[:maxQueryLen]
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	q.Set("sortBy", "relevancy")
	q.Set("language", "en")
	endpoint := c.baseURL + "/v2/everything?" + q.Encode()

	var out []capability.Article
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		articles, err := c.fetch(ctx, endpoint)
		if err != nil {
			return err
		}
		out = articles
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]capability.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &capability.Error{
			Capability: "newsapi",
			Code:       capability.CodeNetworkError,
			Message:    "request failed",
			Retryable:  true,
			Cause:      err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &capability.Error{
			Capability: "newsapi",
			Code:       capability.CodeNetworkError,
			Message:    "read body",
			Retryable:  true,
			Cause:      err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var parsed everythingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &capability.Error{
			Capability: "newsapi",
			Code:       capability.CodeBadRequest,
			Message:    "decode response",
			Retryable:  false,
			Cause:      err,
		}
	}
	if parsed.Status != "ok" {
		return nil, &capability.Error{
			Capability: "newsapi",
			Code:       parsed.Code,
			Message:    parsed.Message,
			Retryable:  false,
		}
	}

	articles := make([]capability.Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		ts, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, capability.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			PublishedAt: ts,
		})
	}
	return articles, nil
}

func statusError(status int, body []byte) error {
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	switch {
	case status == http.StatusTooManyRequests:
		return &capability.Error{
			Capability: "newsapi",
			Code:       capability.CodeRateLimited,
			Message:    "HTTP 429: " + msg,
			Retryable:  true,
		}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &capability.Error{
			Capability: "newsapi",
			Code:       capability.CodeInvalidAPIKey,
			Message:    fmt.Sprintf("HTTP %d: %s", status, msg),
			Retryable:  false,
		}
	case status >= 500:
		return &capability.Error{
			Capability: "newsapi",
			Code:       capability.CodeServerError,
			Message:    fmt.Sprintf("HTTP %d: %s", status, msg),
			Retryable:  true,
		}
	}
	return &capability.Error{
		Capability: "newsapi",
		Code:       capability.CodeBadRequest,
		Message:    fmt.Sprintf("HTTP %d: %s", status, msg),
		Retryable:  false,
	}
}
