// Package triage implements the content-risk triage pipeline: LLM content
// analysis, optional external verification, risk assessment, conditional
// human review with suspend/resume, and report generation.
package triage

import (
	"time"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
)

// Stage identifies a pipeline stage. Routing decisions return a Stage
// instead of free-form strings.
type Stage string

const (
	StageAnalysis     Stage = "content_analysis"
	StageVerification Stage = "verification"
	StageRisk         Stage = "risk_assessment"
	StageReview       Stage = "human_review"
	StageReport       Stage = "generate_report"
)

// Risk levels assigned by the risk assessment stage.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Human review decisions.
const (
	DecisionAutoApproved = "auto_approved"
	DecisionApproved     = "approved"
	DecisionRejected     = "rejected"
	DecisionNeedsEditing = "needs_editing"
	DecisionSkipped      = "skipped"
)

// Review status values.
const (
	StatusNoReviewNeeded = "no_review_needed"
	StatusPending        = "pending"
	StatusReviewed       = "reviewed"
)

// Analysis modes. Thorough mode additionally routes medium-risk content to
// human review.
const (
	ModeBalanced = "balanced"
	ModeThorough = "thorough"
)

// Entity is a named entity recognized during content analysis.
type Entity struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// ContentState is the record threaded through one pipeline run. Field groups
// are populated stage by stage; each stage returns a partial ContentState
// that the reducer merges into the running state.
type ContentState struct {
	// Input, set by the caller at run start.
	RunID                       string    `json:"run_id"`
	Text                        string    `json:"text"`
	SourceURL                   string    `json:"source_url"`
	ForceHumanReview            bool      `json:"force_human_review"`
	IncludeExternalVerification bool      `json:"include_external_verification"`
	AnalysisMode                string    `json:"analysis_mode"`
	StartedAt                   time.Time `json:"started_at"`

	// Classification, set by content_analysis.
	ContentType  string             `json:"content_type"`
	Language     string             `json:"language"`
	Topics       []string           `json:"topics"`
	Entities     []Entity           `json:"entities"`
	Sentiment    map[string]float64 `json:"sentiment"`
	Summary      string             `json:"summary"`
	KeyClaims    []string           `json:"key_claims"`
	WritingStyle string             `json:"writing_style"`

	// Verification, set by the optional verification stage.
	FactCheckResults  []capability.FactCheck `json:"fact_check_results"`
	SimilarArticles   []capability.Article   `json:"similar_articles"`
	VerificationScore float64                `json:"verification_score"`

	// Risk, set by risk_assessment.
	MisinformationFlags []string `json:"misinformation_flags"`
	RiskLevel           string   `json:"risk_level"`
	ConfidenceScore     float64  `json:"confidence_score"`
	RiskScore           float64  `json:"risk_score"`
	RiskReason          string   `json:"risk_reason"`
	FlagsDetected       int      `json:"flags_detected"`

	// Review, set by human_review. ReviewDecision is the externally
	// supplied decision injected on resume; it is input to the review
	// stage, not its output.
	HumanApproval  string `json:"human_approval"`
	ReviewStatus   string `json:"review_status"`
	ReviewerNotes  string `json:"reviewer_notes"`
	ReviewDecision string `json:"review_decision,omitempty"`

	// Output, set by generate_report.
	Recommendations    []string `json:"recommendations"`
	FinalReport        string   `json:"final_report"`
	ProcessingComplete bool     `json:"processing_complete"`
	ReportTimestamp    string   `json:"report_timestamp"`
	ProcessingTime     float64  `json:"processing_time"`
}
