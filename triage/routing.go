package triage

import "strings"

// highRiskKeywords mark text that warrants external verification.
var highRiskKeywords = []string{"breaking", "exclusive", "leaked", "secret", "shocking"}

// NextAfterAnalysis decides whether a run goes through external verification
// or straight to risk assessment. A caller opt-out always skips verification.
// When verification is enabled it still runs only for content worth checking:
// a high-risk keyword in the text, or entities found by analysis. Everything
// else skips straight to risk assessment without external lookups.
func NextAfterAnalysis(s ContentState) Stage {
	if !s.IncludeExternalVerification {
		return StageRisk
	}
	lower := strings.ToLower(s.Text)
	for _, kw := range highRiskKeywords {
		if strings.Contains(lower, kw) {
			return StageVerification
		}
	}
	if len(s.Entities) > 0 {
		return StageVerification
	}
	return StageRisk
}

// NextAfterRisk decides whether a run needs human review before the report.
// High and critical risk always do, as does an explicit review request;
// medium risk does only in thorough analysis mode.
func NextAfterRisk(s ContentState) Stage {
	if s.RiskLevel == RiskHigh || s.RiskLevel == RiskCritical || s.ForceHumanReview {
		return StageReview
	}
	if s.RiskLevel == RiskMedium && s.AnalysisMode == ModeThorough {
		return StageReview
	}
	return StageReport
}
