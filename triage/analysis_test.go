package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

func fastLLMPolicy() retry.Policy {
	pol := capability.LLMPolicy()
	pol.BaseDelay = time.Millisecond
	pol.MaxDelay = 5 * time.Millisecond
	pol.Jitter = 0
	pol.FallbackDelay = time.Millisecond
	return pol
}

const analysisJSON = `{
	"content_type": "news",
	"language": "en",
	"topics": ["politics", "government"],
	"entities": [{"name": "Jordan Hale", "type": "person", "confidence": 0.9}],
	"sentiment": {"negative": 0.7, "confidence": 0.8},
	"summary": "Report about a leaked memo",
	"key_claims": ["a memo was leaked"],
	"writing_style": "sensational"
}`

func TestAnalysisNodeParsesCompletion(t *testing.T) {
	mock := &capability.MockCompleter{Responses: []string{analysisJSON}}
	node := AnalysisNode(mock, fastLLMPolicy())

	res := node(context.Background(), ContentState{Text: "some text"})
	if res.Err != nil {
		t.Fatalf("node returned error: %v", res.Err)
	}

	d := res.Delta
	if d.ContentType != "news" || d.Language != "en" || d.WritingStyle != "sensational" {
		t.Errorf("delta = %+v", d)
	}
	if len(d.Topics) != 2 || len(d.Entities) != 1 || d.Entities[0].Name != "Jordan Hale" {
		t.Errorf("topics/entities = %v / %v", d.Topics, d.Entities)
	}
	if d.Summary != "Report about a leaked memo" || len(d.KeyClaims) != 1 {
		t.Errorf("summary/claims = %q / %v", d.Summary, d.KeyClaims)
	}
	if d.Sentiment["negative"] != 0.7 {
		t.Errorf("sentiment = %v", d.Sentiment)
	}
}

func TestAnalysisNodeToleratesProseAroundJSON(t *testing.T) {
	mock := &capability.MockCompleter{
		Responses: []string{"Here is the analysis:\n" + analysisJSON + "\nLet me know if you need more."},
	}
	node := AnalysisNode(mock, fastLLMPolicy())

	res := node(context.Background(), ContentState{Text: "some text"})
	if res.Err != nil {
		t.Fatalf("node returned error: %v", res.Err)
	}
	if res.Delta.ContentType != "news" {
		t.Errorf("delta = %+v", res.Delta)
	}
}

func TestAnalysisNodeFillsMissingFields(t *testing.T) {
	mock := &capability.MockCompleter{Responses: []string{`{"summary": "just a summary"}`}}
	node := AnalysisNode(mock, fastLLMPolicy())

	res := node(context.Background(), ContentState{Text: "some text"})
	if res.Err != nil {
		t.Fatalf("node returned error: %v", res.Err)
	}

	d := res.Delta
	if d.ContentType != "unknown" || d.Language != "en" || d.WritingStyle != "unknown" {
		t.Errorf("defaults not applied: %+v", d)
	}
	if d.Sentiment["neutral"] != 1.0 || d.Sentiment["confidence"] != 0.5 {
		t.Errorf("sentiment default = %v", d.Sentiment)
	}
	if d.Summary != "just a summary" {
		t.Errorf("summary = %q", d.Summary)
	}
}

func TestAnalysisNodeMalformedJSONDegrades(t *testing.T) {
	mock := &capability.MockCompleter{Responses: []string{"the model rambled instead of answering"}}
	node := AnalysisNode(mock, fastLLMPolicy())

	res := node(context.Background(), ContentState{Text: "some text"})
	if res.Err != nil {
		t.Fatalf("malformed output must not fail the run, got %v", res.Err)
	}

	d := res.Delta
	if d.Summary != "Analysis failed - JSON parse error" {
		t.Errorf("summary = %q", d.Summary)
	}
	if d.ContentType != "unknown" {
		t.Errorf("content type = %q", d.ContentType)
	}
	if d.Sentiment["neutral"] != 1.0 || d.Sentiment["confidence"] != 0.1 {
		t.Errorf("sentiment = %v", d.Sentiment)
	}
	if d.Topics == nil || d.Entities == nil || d.KeyClaims == nil {
		t.Errorf("defaults should use empty lists: %+v", d)
	}
}

func TestAnalysisNodeRateLimitExhaustionDegrades(t *testing.T) {
	mock := &capability.MockCompleter{Err: errors.New("429 rate limit exceeded")}
	node := AnalysisNode(mock, fastLLMPolicy())

	res := node(context.Background(), ContentState{Text: "some text"})
	if res.Err != nil {
		t.Fatalf("rate limit exhaustion must not fail the run, got %v", res.Err)
	}
	if res.Delta.Summary != "Analysis paused due to rate limiting" {
		t.Errorf("summary = %q", res.Delta.Summary)
	}
	if mock.CallCount() != 4 {
		t.Errorf("call count = %d, want 4", mock.CallCount())
	}
}

func TestAnalysisNodeOtherErrorsAreFatal(t *testing.T) {
	cause := errors.New("invalid api key")
	mock := &capability.MockCompleter{Err: cause}
	node := AnalysisNode(mock, fastLLMPolicy())

	res := node(context.Background(), ContentState{Text: "some text"})
	if !errors.Is(res.Err, cause) {
		t.Fatalf("expected fatal error, got %v", res.Err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"prefix {\"a\":1} suffix", `{"a":1}`},
		{"no json here", "no json here"},
		{"} backwards {", "} backwards {"},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
