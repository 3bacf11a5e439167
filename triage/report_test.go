package triage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
)

func TestBuildRecommendationsByRiskTier(t *testing.T) {
	cases := []struct {
		level     string
		wantFirst string
		wantLen   int
	}{
		{RiskCritical, "URGENT: Do not publish without thorough fact-checking", 4},
		{RiskHigh, "CAUTION: Additional fact-checking strongly recommended", 3},
		{RiskMedium, "STANDARD: Follow normal editorial review process", 2},
		{RiskLow, "CLEAR: Content appears safe for standard publication", 1},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			recs := buildRecommendations(ContentState{RiskLevel: tc.level})
			if len(recs) != tc.wantLen {
				t.Fatalf("got %d recommendations: %v", len(recs), recs)
			}
			if recs[0] != tc.wantFirst {
				t.Errorf("recs[0] = %q", recs[0])
			}
		})
	}
}

func TestBuildRecommendationsHumanOverrideComesFirst(t *testing.T) {
	cases := []struct {
		decision  string
		wantFirst string
	}{
		{DecisionRejected, "DO NOT PUBLISH: Human reviewer has rejected this content"},
		{DecisionNeedsEditing, "EDIT REQUIRED: Content flagged for revision before publication"},
		{DecisionApproved, "HUMAN APPROVED: Content has been reviewed and approved"},
	}
	for _, tc := range cases {
		t.Run(tc.decision, func(t *testing.T) {
			recs := buildRecommendations(ContentState{
				RiskLevel:     RiskHigh,
				HumanApproval: tc.decision,
			})
			if recs[0] != tc.wantFirst {
				t.Errorf("recs[0] = %q, want %q", recs[0], tc.wantFirst)
			}
			if recs[1] != "CAUTION: Additional fact-checking strongly recommended" {
				t.Errorf("risk advisory displaced: %v", recs)
			}
		})
	}
}

func TestBuildRecommendationsContentTypeAdvisory(t *testing.T) {
	recs := buildRecommendations(ContentState{RiskLevel: RiskLow, ContentType: "news"})
	last := recs[len(recs)-1]
	if last != "NEWS: Verify publication date and source credibility" {
		t.Errorf("last recommendation = %q", last)
	}

	recs = buildRecommendations(ContentState{RiskLevel: RiskLow, ContentType: "blog_post"})
	for _, r := range recs {
		if strings.HasPrefix(r, "NEWS:") || strings.HasPrefix(r, "RESEARCH:") || strings.HasPrefix(r, "SOCIAL:") {
			t.Errorf("unexpected content-type advisory: %q", r)
		}
	}
}

func TestReportNodeProducesCompleteOutput(t *testing.T) {
	node := ReportNode()
	state := ContentState{
		RunID:             "run-42",
		RiskLevel:         RiskHigh,
		ConfidenceScore:   0.6,
		VerificationScore: 0.3,
		ContentType:       "news",
		Language:          "en",
		WritingStyle:      "sensational",
		Summary:           "Unverified claims about a leak",
		Topics:            []string{"politics", "security", "media", "extra"},
		Entities:          []Entity{{Name: "Jordan Hale"}},
		SimilarArticles:   []capability.Article{{Title: "coverage"}},
		FactCheckResults:  []capability.FactCheck{{Rating: "False"}},
		HumanApproval:     DecisionRejected,
		ReviewerNotes:     "claims cannot be substantiated",
		StartedAt:         time.Now().Add(-2 * time.Second),
	}

	res := node(context.Background(), state)
	if res.Err != nil {
		t.Fatalf("node returned error: %v", res.Err)
	}
	if !res.Route.Terminal {
		t.Error("report stage must terminate the run")
	}

	d := res.Delta
	if !d.ProcessingComplete {
		t.Error("processing_complete not set")
	}
	if d.ReportTimestamp == "" {
		t.Error("report timestamp not set")
	}
	if d.ProcessingTime <= 0 {
		t.Errorf("processing time = %v", d.ProcessingTime)
	}
	if len(d.Recommendations) == 0 {
		t.Fatal("no recommendations")
	}
	if d.Recommendations[0] != "DO NOT PUBLISH: Human reviewer has rejected this content" {
		t.Errorf("recs[0] = %q", d.Recommendations[0])
	}

	report := d.FinalReport
	for _, want := range []string{
		"## Content Analysis Report",
		"**Analysis ID:** run-42",
		"- **Risk Level:** HIGH",
		"- **Confidence Score:** 60.0%",
		"- **Verification Score:** 30.0%",
		"### Key Entities\n- Jordan Hale",
		"### Topics\n- politics, security, media",
		"### External Verification",
		"- **Related Articles Found:** 1",
		"### Human Review",
		"- **Reviewer Notes:** claims cannot be substantiated",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
	if strings.Contains(report, "extra") {
		t.Error("topics section should cap at three")
	}
}

func TestReportNodeOmitsEmptySections(t *testing.T) {
	node := ReportNode()

	res := node(context.Background(), ContentState{
		RiskLevel:     RiskLow,
		Summary:       "fine",
		HumanApproval: DecisionAutoApproved,
	})
	if res.Err != nil {
		t.Fatalf("node returned error: %v", res.Err)
	}

	report := res.Delta.FinalReport
	for _, absent := range []string{"### Key Entities", "### Topics", "### Risk Flags", "### External Verification", "### Human Review"} {
		if strings.Contains(report, absent) {
			t.Errorf("report should omit %q\n%s", absent, report)
		}
	}
}

func TestReportNodeShowsReviewForAutoApprovedOnlyWhenReviewed(t *testing.T) {
	node := ReportNode()

	res := node(context.Background(), ContentState{
		RiskLevel:     RiskLow,
		HumanApproval: DecisionAutoApproved,
	})
	if strings.Contains(res.Delta.FinalReport, "### Human Review") {
		t.Error("auto-approved runs should not show a review section")
	}

	res = node(context.Background(), ContentState{
		RiskLevel:     RiskHigh,
		HumanApproval: DecisionApproved,
	})
	report := res.Delta.FinalReport
	if !strings.Contains(report, "### Human Review") {
		t.Error("reviewed runs should show a review section")
	}
	if !strings.Contains(report, "- **Reviewer Notes:** No additional notes") {
		t.Errorf("missing notes placeholder:\n%s", report)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"news":         "News",
		"social media": "Social Media",
		"":             "",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
