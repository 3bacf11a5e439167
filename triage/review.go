package triage

import (
	"context"

	"github.com/PaawanBarach/ai-content-intelligence/graph"
)

// ReviewReason tags pause records created by the review stage.
const ReviewReason = "human_review"

// ReviewDecisions are the choices offered to the reviewer while a run is
// suspended.
var ReviewDecisions = []string{
	DecisionApproved,
	DecisionRejected,
	DecisionNeedsEditing,
	DecisionSkipped,
}

// ReviewNode builds the human_review stage, a three-state machine:
//
//   - A pending decision on the state (injected by a resume) is recorded
//     immediately: human_approval takes the decision, review_status becomes
//     reviewed, and the run proceeds to the report.
//   - Low risk without a forced review auto-approves without suspending.
//   - Anything else suspends the run, publishing the risk level, the
//     summary, and the accepted decisions for the outside reviewer.
func ReviewNode() graph.NodeFunc[ContentState] {
	return func(_ context.Context, s ContentState) graph.NodeResult[ContentState] {
		if s.ReviewDecision != "" {
			return graph.NodeResult[ContentState]{
				Delta: ContentState{
					HumanApproval: s.ReviewDecision,
					ReviewStatus:  StatusReviewed,
					ReviewerNotes: s.ReviewerNotes,
				},
				Route: graph.Goto(string(StageReport)),
			}
		}

		if s.RiskLevel == RiskLow && !s.ForceHumanReview {
			return graph.NodeResult[ContentState]{
				Delta: ContentState{
					HumanApproval: DecisionAutoApproved,
					ReviewStatus:  StatusNoReviewNeeded,
				},
				Route: graph.Goto(string(StageReport)),
			}
		}

		return graph.NodeResult[ContentState]{
			Pause: &graph.Interrupt{
				Reason: ReviewReason,
				Prompt: map[string]any{
					"risk_level": s.RiskLevel,
					"summary":    s.Summary,
					"decisions":  ReviewDecisions,
				},
			},
		}
	}
}
