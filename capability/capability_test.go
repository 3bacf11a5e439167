package capability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 status", errors.New("HTTP 429 Too Many Requests"), true},
		{"rate text", errors.New("rate limit exceeded"), true},
		{"mixed case", errors.New("Rate-Limited by upstream"), true},
		{"classified", &Error{Capability: "openrouter", Code: CodeRateLimited, Message: "429"}, true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRateLimit(tc.err); got != tc.want {
				t.Errorf("IsRateLimit(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	retryable := &Error{Capability: "newsapi", Code: CodeServerError, Retryable: true}
	if !IsRetryable(retryable) {
		t.Error("retryable capability error should be retryable")
	}

	permanent := &Error{Capability: "newsapi", Code: CodeInvalidAPIKey, Retryable: false}
	if IsRetryable(permanent) {
		t.Error("invalid API key should not be retryable")
	}

	if !IsRetryable(errors.New("429 too many requests")) {
		t.Error("rate limit text should be retryable")
	}
	if IsRetryable(errors.New("no such host")) {
		t.Error("unclassified error should not be retryable")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := &Error{Capability: "newsapi", Code: CodeNetworkError, Message: "request failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected Error to wrap its cause")
	}
	if !strings.Contains(err.Error(), "newsapi") || !strings.Contains(err.Error(), CodeNetworkError) {
		t.Errorf("Error() = %q", err.Error())
	}
}

func fastLLMPolicy() retry.Policy {
	pol := LLMPolicy()
	pol.BaseDelay = time.Millisecond
	pol.MaxDelay = 5 * time.Millisecond
	pol.Jitter = 0
	pol.FallbackDelay = time.Millisecond
	return pol
}

func TestCompleteReturnsResponse(t *testing.T) {
	mock := &MockCompleter{Responses: []string{`{"ok":true}`}}

	out, err := Complete(context.Background(), mock, "prompt", fastLLMPolicy())
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("Complete = %q", out)
	}
	if mock.CallCount() != 1 {
		t.Errorf("call count = %d, want 1", mock.CallCount())
	}
}

func TestCompleteRejectsEmptyResponse(t *testing.T) {
	mock := &MockCompleter{Responses: []string{"   "}}

	_, err := Complete(context.Background(), mock, "prompt", fastLLMPolicy())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	mock := &MockCompleter{
		Responses: []string{`{"ok":true}`},
		Err:       errors.New("429 rate limit"),
		ErrCalls:  2,
	}

	out, err := Complete(context.Background(), mock, "prompt", fastLLMPolicy())
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != `{"ok":true}` {
		t.Errorf("Complete = %q", out)
	}
	if mock.CallCount() != 3 {
		t.Errorf("call count = %d, want 3", mock.CallCount())
	}
}

func TestCompleteExhaustsRateLimitRetries(t *testing.T) {
	rateErr := errors.New("429 rate limit")
	mock := &MockCompleter{Err: rateErr}

	_, err := Complete(context.Background(), mock, "prompt", fastLLMPolicy())
	if !errors.Is(err, rateErr) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if mock.CallCount() != 4 {
		t.Errorf("call count = %d, want 4", mock.CallCount())
	}
}

func TestCompleteRetriesOtherErrorsOnce(t *testing.T) {
	mock := &MockCompleter{Err: errors.New("invalid request")}

	_, err := Complete(context.Background(), mock, "prompt", fastLLMPolicy())
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 2 {
		t.Errorf("call count = %d, want 2 (one fallback retry)", mock.CallCount())
	}
}

func TestPoliciesAreValid(t *testing.T) {
	if err := LLMPolicy().Validate(); err != nil {
		t.Errorf("LLMPolicy invalid: %v", err)
	}
	if err := LookupPolicy().Validate(); err != nil {
		t.Errorf("LookupPolicy invalid: %v", err)
	}
	if err := OncePolicy().Validate(); err != nil {
		t.Errorf("OncePolicy invalid: %v", err)
	}
}
