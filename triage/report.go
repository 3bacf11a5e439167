package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/graph"
)

// ReportNode builds the generate_report stage: a pure function of the
// accumulated state producing the ordered recommendation list and the final
// markdown report. The stage never aborts the run; if report assembly panics
// it falls back to a minimal report built from whatever data is available.
func ReportNode() graph.NodeFunc[ContentState] {
	return func(_ context.Context, s ContentState) (result graph.NodeResult[ContentState]) {
		defer func() {
			if r := recover(); r != nil {
				result = graph.NodeResult[ContentState]{
					Delta: fallbackReport(s, r),
					Route: graph.Stop(),
				}
			}
		}()

		delta := ContentState{
			Recommendations:    buildRecommendations(s),
			FinalReport:        renderReport(s),
			ProcessingComplete: true,
			ReportTimestamp:    time.Now().Format("2006-01-02 15:04:05"),
			ProcessingTime:     elapsedSeconds(s),
		}
		return graph.NodeResult[ContentState]{Delta: delta, Route: graph.Stop()}
	}
}

// buildRecommendations assembles the advisory list: risk-tier advisories
// first, then a human-review override inserted at position 0, then
// content-type advisories appended.
func buildRecommendations(s ContentState) []string {
	var recs []string

	switch s.RiskLevel {
	case RiskCritical:
		recs = append(recs,
			"URGENT: Do not publish without thorough fact-checking",
			"VERIFY: All claims with primary sources",
			"LABEL: Consider adding a content warning if published",
			"MONITOR: Track engagement and feedback closely",
		)
	case RiskHigh:
		recs = append(recs,
			"CAUTION: Additional fact-checking strongly recommended",
			"REVIEW: Have a second opinion before publication",
			"TRACK: Monitor audience response if published",
		)
	case RiskMedium:
		recs = append(recs,
			"STANDARD: Follow normal editorial review process",
			"MONITOR: Regular content performance tracking",
		)
	default:
		recs = append(recs, "CLEAR: Content appears safe for standard publication")
	}

	switch s.HumanApproval {
	case DecisionRejected:
		recs = insertFirst(recs, "DO NOT PUBLISH: Human reviewer has rejected this content")
	case DecisionNeedsEditing:
		recs = insertFirst(recs, "EDIT REQUIRED: Content flagged for revision before publication")
	case DecisionApproved:
		recs = insertFirst(recs, "HUMAN APPROVED: Content has been reviewed and approved")
	}

	switch s.ContentType {
	case "news":
		recs = append(recs, "NEWS: Verify publication date and source credibility")
	case "research":
		recs = append(recs, "RESEARCH: Check for peer review and methodology")
	case "social_media":
		recs = append(recs, "SOCIAL: Higher scrutiny for viral potential")
	}

	return recs
}

func insertFirst(recs []string, rec string) []string {
	return append([]string{rec}, recs...)
}

// renderReport produces the markdown report. Sections are included only
// when their backing data is non-empty.
func renderReport(s ContentState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Content Analysis Report\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	if s.RunID != "" {
		fmt.Fprintf(&b, "**Analysis ID:** %s\n", s.RunID)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "### Risk Assessment\n")
	fmt.Fprintf(&b, "- **Risk Level:** %s\n", strings.ToUpper(orDefault(s.RiskLevel, "unknown")))
	fmt.Fprintf(&b, "- **Confidence Score:** %.1f%%\n", s.ConfidenceScore*100)
	fmt.Fprintf(&b, "- **Verification Score:** %.1f%%\n", s.VerificationScore*100)
	fmt.Fprintf(&b, "- **Flags Detected:** %d\n\n", len(s.MisinformationFlags))

	fmt.Fprintf(&b, "### Content Overview\n")
	fmt.Fprintf(&b, "- **Type:** %s\n", titleCase(orDefault(s.ContentType, "unknown")))
	fmt.Fprintf(&b, "- **Language:** %s\n", orDefault(s.Language, "unknown"))
	fmt.Fprintf(&b, "- **Writing Style:** %s\n", titleCase(orDefault(s.WritingStyle, "unknown")))
	fmt.Fprintf(&b, "- **Summary:** %s\n\n", orDefault(s.Summary, "No summary available"))

	if len(s.Entities) > 0 {
		names := make([]string, 0, 5)
		for _, e := range s.Entities {
			names = append(names, e.Name)
			if len(names) == 5 {
				break
			}
		}
		fmt.Fprintf(&b, "### Key Entities\n- %s\n\n", strings.Join(names, ", "))
	}

	if len(s.Topics) > 0 {
		topics := s.Topics
		if len(topics) > 3 {
			topics = topics[:3]
		}
		fmt.Fprintf(&b, "### Topics\n- %s\n\n", strings.Join(topics, ", "))
	}

	if len(s.MisinformationFlags) > 0 {
		fmt.Fprintf(&b, "### Risk Flags\n")
		for _, flag := range s.MisinformationFlags {
			fmt.Fprintf(&b, "- %s\n", titleCase(strings.ReplaceAll(flag, "_", " ")))
		}
		b.WriteString("\n")
	}

	if len(s.SimilarArticles) > 0 || len(s.FactCheckResults) > 0 {
		fmt.Fprintf(&b, "### External Verification\n")
		fmt.Fprintf(&b, "- **Related Articles Found:** %d\n", len(s.SimilarArticles))
		fmt.Fprintf(&b, "- **Fact-Check Results:** %d\n\n", len(s.FactCheckResults))
	}

	if s.HumanApproval != DecisionAutoApproved {
		fmt.Fprintf(&b, "### Human Review\n")
		fmt.Fprintf(&b, "- **Status:** %s\n", titleCase(strings.ReplaceAll(s.HumanApproval, "_", " ")))
		fmt.Fprintf(&b, "- **Reviewer Notes:** %s\n\n", orDefault(s.ReviewerNotes, "No additional notes"))
	}

	return b.String()
}

// fallbackReport is the last-resort output when report assembly panics.
func fallbackReport(s ContentState, cause any) ContentState {
	report := fmt.Sprintf(
		"## Content Analysis Report\n\nReport generation degraded (%v).\n\n- **Risk Level:** %s\n- **Summary:** %s\n",
		cause,
		strings.ToUpper(orDefault(s.RiskLevel, "unknown")),
		orDefault(s.Summary, "No summary available"),
	)
	return ContentState{
		Recommendations:    []string{"REVIEW: Report generation was incomplete, inspect the run manually"},
		FinalReport:        report,
		ProcessingComplete: true,
		ReportTimestamp:    time.Now().Format("2006-01-02 15:04:05"),
		ProcessingTime:     elapsedSeconds(s),
	}
}

func elapsedSeconds(s ContentState) float64 {
	if s.StartedAt.IsZero() {
		return 0
	}
	return time.Since(s.StartedAt).Seconds()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
