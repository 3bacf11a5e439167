package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/graph"
	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

type riskResponse struct {
	RiskLevel  string  `json:"risk_level"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// RiskNode builds the risk_assessment stage. The completion runs in JSON
// mode and is decoded strictly: a malformed response or an invalid risk
// level fails the run. This is deliberately harsher than content analysis,
// because a fabricated risk level would silently route content away from
// review.
//
// MisinformationFlags is carried as an empty list for the report consumer;
// no stage currently produces flags.
func RiskNode(llm capability.Completer, pol retry.Policy) graph.NodeFunc[ContentState] {
	return func(ctx context.Context, s ContentState) graph.NodeResult[ContentState] {
		raw, err := capability.Complete(ctx, llm, riskPrompt(s.Text), pol)
		if err != nil {
			return graph.NodeResult[ContentState]{Err: err}
		}

		var data riskResponse
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return graph.NodeResult[ContentState]{
				Err: fmt.Errorf("decode risk assessment: %w", err),
			}
		}
		if !validRiskLevel(data.RiskLevel) {
			return graph.NodeResult[ContentState]{
				Err: fmt.Errorf("invalid risk level %q", data.RiskLevel),
			}
		}

		return graph.NodeResult[ContentState]{Delta: ContentState{
			RiskLevel:           data.RiskLevel,
			ConfidenceScore:     data.Confidence,
			RiskScore:           1 - data.Confidence,
			RiskReason:          data.Reason,
			MisinformationFlags: []string{},
			FlagsDetected:       0,
		}}
	}
}

func validRiskLevel(level string) bool {
	switch level {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}
