package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Retryable:   capability.IsRetryable,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key", WithBaseURL(srv.URL), WithRetryPolicy(fastPolicy()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c
}

const okBody = `{
	"status": "ok",
	"articles": [
		{
			"title": "Climate summit opens",
			"description": "Leaders gather",
			"url": "https://example.com/summit",
			"publishedAt": "2026-08-20T10:00:00Z"
		},
		{
			"title": "Markets react",
			"description": "Stocks move",
			"url": "https://example.com/markets",
			"publishedAt": "2026-08-21T08:30:00Z"
		}
	]
}`

func TestSearchNewsParsesArticles(t *testing.T) {
	var gotQuery, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(okBody))
	})

	articles, err := client.SearchNews(context.Background(), "climate summit")
	if err != nil {
		t.Fatalf("SearchNews returned error: %v", err)
	}

	if gotQuery != "climate summit" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[0].Title != "Climate summit opens" || articles[0].URL != "https://example.com/summit" {
		t.Errorf("articles[0] = %+v", articles[0])
	}
	want := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if !articles[0].PublishedAt.Equal(want) {
		t.Errorf("publishedAt = %v, want %v", articles[0].PublishedAt, want)
	}
}

func TestSearchNewsRequestParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("pageSize") != "2" {
			t.Errorf("pageSize = %q, want 2", q.Get("pageSize"))
		}
		if q.Get("sortBy") != "relevancy" {
			t.Errorf("sortBy = %q", q.Get("sortBy"))
		}
		if q.Get("language") != "en" {
			t.Errorf("language = %q", q.Get("language"))
		}
		if r.URL.Path != "/v2/everything" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	if _, err := client.SearchNews(context.Background(), "anything"); err != nil {
		t.Fatalf("SearchNews returned error: %v", err)
	}
}

func TestSearchNewsTruncatesLongQueries(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	long := strings.Repeat("x", 250)
	if _, err := client.SearchNews(context.Background(), long); err != nil {
		t.Fatalf("SearchNews returned error: %v", err)
	}
	if len(gotQuery) != 100 {
		t.Errorf("query length = %d, want 100", len(gotQuery))
	}
}

func TestSearchNewsRetriesOn429(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(okBody))
	})

	articles, err := client.SearchNews(context.Background(), "q")
	if err != nil {
		t.Fatalf("SearchNews returned error: %v", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
	if len(articles) != 2 {
		t.Errorf("got %d articles, want 2", len(articles))
	}
}

func TestSearchNewsInvalidKeyNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	})

	_, err := client.SearchNews(context.Background(), "q")
	var capErr *capability.Error
	if !errors.As(err, &capErr) {
		t.Fatalf("expected capability error, got %v", err)
	}
	if capErr.Code != capability.CodeInvalidAPIKey {
		t.Errorf("code = %q, want %q", capErr.Code, capability.CodeInvalidAPIKey)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}

func TestSearchNewsAPIErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":"parameterInvalid","message":"bad query"}`))
	})

	_, err := client.SearchNews(context.Background(), "q")
	var capErr *capability.Error
	if !errors.As(err, &capErr) {
		t.Fatalf("expected capability error, got %v", err)
	}
	if capErr.Code != "parameterInvalid" {
		t.Errorf("code = %q", capErr.Code)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
