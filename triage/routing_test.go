package triage

import "testing"

func TestNextAfterAnalysis(t *testing.T) {
	cases := []struct {
		name  string
		state ContentState
		want  Stage
	}{
		{
			"opt-out skips verification",
			ContentState{Text: "plain text about gardening"},
			StageRisk,
		},
		{
			"opt-out wins over keyword",
			ContentState{Text: "BREAKING news from the capital"},
			StageRisk,
		},
		{
			"opt-out wins over entities",
			ContentState{Text: "plain text", Entities: []Entity{{Name: "Jordan Hale"}}},
			StageRisk,
		},
		{
			"enabled with keyword",
			ContentState{IncludeExternalVerification: true, Text: "BREAKING news from the capital"},
			StageVerification,
		},
		{
			"enabled with entities",
			ContentState{IncludeExternalVerification: true, Text: "plain text", Entities: []Entity{{Name: "Jordan Hale"}}},
			StageVerification,
		},
		{
			"enabled with nothing to check",
			ContentState{IncludeExternalVerification: true, Text: "plain text about gardening"},
			StageRisk,
		},
		{
			"keyword matching is case-insensitive",
			ContentState{IncludeExternalVerification: true, Text: "a Leaked memo surfaced"},
			StageVerification,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextAfterAnalysis(tc.state); got != tc.want {
				t.Errorf("NextAfterAnalysis = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNextAfterRisk(t *testing.T) {
	cases := []struct {
		name  string
		state ContentState
		want  Stage
	}{
		{"low risk", ContentState{RiskLevel: RiskLow}, StageReport},
		{"medium risk balanced", ContentState{RiskLevel: RiskMedium, AnalysisMode: ModeBalanced}, StageReport},
		{"medium risk thorough", ContentState{RiskLevel: RiskMedium, AnalysisMode: ModeThorough}, StageReview},
		{"high risk", ContentState{RiskLevel: RiskHigh}, StageReview},
		{"critical risk", ContentState{RiskLevel: RiskCritical}, StageReview},
		{"forced review", ContentState{RiskLevel: RiskLow, ForceHumanReview: true}, StageReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextAfterRisk(tc.state); got != tc.want {
				t.Errorf("NextAfterRisk = %s, want %s", got, tc.want)
			}
		})
	}
}
