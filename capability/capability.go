// Package capability defines the external services the triage pipeline
// consumes: LLM completion, news search, and fact-check search. Stage nodes
// depend on these interfaces; concrete clients live in the subpackages.
package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

// Completer produces a model completion for a prompt. Implementations are
// expected to request JSON output from the model, but callers must still
// tolerate prose around the JSON body.
type Completer interface {
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// Article is a single news search result.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsSearcher finds recent news coverage related to a query.
type NewsSearcher interface {
	SearchNews(ctx context.Context, query string) ([]Article, error)
}

// FactCheck is a single claim review from a fact-checking service.
type FactCheck struct {
	Text     string `json:"text"`
	Claimant string `json:"claimant"`
	Rating   string `json:"rating"`
	URL      string `json:"url"`
}

// FactChecker finds published fact checks related to a query.
type FactChecker interface {
	SearchFactChecks(ctx context.Context, query string) ([]FactCheck, error)
}

// Error codes shared across capability implementations.
const (
	CodeRateLimited   = "rate_limited"
	CodeInvalidAPIKey = "invalid_api_key"
	CodeQuotaExceeded = "quota_exceeded"
	CodeServerError   = "server_error"
	CodeNetworkError  = "network_error"
	CodeBadRequest    = "bad_request"
	CodeEmptyResponse = "empty_response"
)

// ErrEmptyResponse reports a completion that came back with no content.
var ErrEmptyResponse = errors.New("capability: empty response")

// Error is the classified failure of a capability call.
type Error struct {
	Capability string
	Code       string
	Message    string
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Capability, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Capability, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsRateLimit reports whether err looks like a rate limit. Detection is by
// error text: any mention of "429" or "rate" counts, which covers both
// classified capability errors and raw SDK errors.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") || strings.Contains(s, "rate")
}

// IsRetryable reports whether err is a capability error marked retryable, or
// a rate limit by text.
func IsRetryable(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return IsRateLimit(err)
}

// Complete runs c.CompleteJSON under pol and rejects empty completions.
func Complete(ctx context.Context, c Completer, prompt string, pol retry.Policy) (string, error) {
	var out string
	err := pol.Do(ctx, func(ctx context.Context) error {
		s, err := c.CompleteJSON(ctx, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return ErrEmptyResponse
		}
		out = s
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// LLMPolicy is the retry schedule applied to model completions: four attempts
// with exponential backoff on rate limits, a single delayed retry otherwise.
func LLMPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     4,
		BaseDelay:       2 * time.Second,
		MaxDelay:        60 * time.Second,
		Jitter:          time.Second,
		Retryable:       IsRateLimit,
		FallbackRetries: 1,
		FallbackDelay:   time.Second,
	}
}

// OncePolicy runs a call exactly once. The risk assessment stage uses it: a
// failed assessment is fatal to the run, never retried.
func OncePolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 1}
}

// LookupPolicy is the retry schedule for HTTP lookup capabilities.
func LookupPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:     3,
		BaseDelay:       500 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		Jitter:          250 * time.Millisecond,
		Retryable:       IsRetryable,
		FallbackRetries: 0,
	}
}
