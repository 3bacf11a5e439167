package triage

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/graph"
	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

type analysisResponse struct {
	ContentType  string             `json:"content_type"`
	Language     string             `json:"language"`
	Topics       []string           `json:"topics"`
	Entities     []Entity           `json:"entities"`
	Sentiment    map[string]float64 `json:"sentiment"`
	Summary      string             `json:"summary"`
	KeyClaims    []string           `json:"key_claims"`
	WritingStyle string             `json:"writing_style"`
}

// AnalysisNode builds the content_analysis stage. It classifies the text
// through the LLM and degrades gracefully: a malformed completion or an
// exhausted rate-limit retry produces safe defaults instead of failing the
// run, so downstream stages always see a classification group.
func AnalysisNode(llm capability.Completer, pol retry.Policy) graph.NodeFunc[ContentState] {
	return func(ctx context.Context, s ContentState) graph.NodeResult[ContentState] {
		raw, err := capability.Complete(ctx, llm, analysisPrompt(s.Text), pol)
		if err != nil {
			if capability.IsRateLimit(err) {
				return graph.NodeResult[ContentState]{
					Delta: analysisDefaults("Analysis paused due to rate limiting"),
				}
			}
			return graph.NodeResult[ContentState]{Err: err}
		}

		var data analysisResponse
		if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
			return graph.NodeResult[ContentState]{
				Delta: analysisDefaults("Analysis failed - JSON parse error"),
			}
		}

		delta := ContentState{
			ContentType:  orDefault(data.ContentType, "unknown"),
			Language:     orDefault(data.Language, "en"),
			Topics:       data.Topics,
			Entities:     data.Entities,
			Sentiment:    data.Sentiment,
			Summary:      data.Summary,
			KeyClaims:    data.KeyClaims,
			WritingStyle: orDefault(data.WritingStyle, "unknown"),
		}
		if delta.Sentiment == nil {
			delta.Sentiment = map[string]float64{"neutral": 1.0, "confidence": 0.5}
		}
		return graph.NodeResult[ContentState]{Delta: delta}
	}
}

// analysisDefaults is the classification group used when the model output
// cannot be used. The summary records why.
func analysisDefaults(summary string) ContentState {
	return ContentState{
		ContentType:  "unknown",
		Language:     "en",
		Topics:       []string{},
		Entities:     []Entity{},
		Sentiment:    map[string]float64{"neutral": 1.0, "confidence": 0.1},
		Summary:      summary,
		KeyClaims:    []string{},
		WritingStyle: "unknown",
	}
}

// extractJSON returns the substring between the first '{' and the last '}',
// tolerating prose the model emits around the object.
func extractJSON(text string) string {
	i := strings.Index(text, "{")
	j := strings.LastIndex(text, "}")
	if i == -1 || j == -1 || i > j {
		return text
	}
	return text[i : j+1]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
