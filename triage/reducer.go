package triage

// Reduce merges a stage's partial update into the running state. Each stage
// writes exactly one field group; the group's sentinel field tells the
// reducer which group the delta carries, and the whole group is copied so a
// stage can reset a field to its zero value.
//
// Sentinels: ContentType (classification), VerificationScore (verification,
// never zero because the score floor is 0.2), RiskLevel (risk), ReviewStatus
// (review), ProcessingComplete (output).
func Reduce(prev, delta ContentState) ContentState {
	if delta.ContentType != "" {
		prev.ContentType = delta.ContentType
		prev.Language = delta.Language
		prev.Topics = delta.Topics
		prev.Entities = delta.Entities
		prev.Sentiment = delta.Sentiment
		prev.Summary = delta.Summary
		prev.KeyClaims = delta.KeyClaims
		prev.WritingStyle = delta.WritingStyle
	}

	if delta.VerificationScore > 0 {
		prev.FactCheckResults = delta.FactCheckResults
		prev.SimilarArticles = delta.SimilarArticles
		prev.VerificationScore = delta.VerificationScore
	}

	if delta.RiskLevel != "" {
		prev.MisinformationFlags = delta.MisinformationFlags
		prev.RiskLevel = delta.RiskLevel
		prev.ConfidenceScore = delta.ConfidenceScore
		prev.RiskScore = delta.RiskScore
		prev.RiskReason = delta.RiskReason
		prev.FlagsDetected = delta.FlagsDetected
	}

	if delta.ReviewStatus != "" {
		prev.HumanApproval = delta.HumanApproval
		prev.ReviewStatus = delta.ReviewStatus
		prev.ReviewerNotes = delta.ReviewerNotes
	}

	if delta.ProcessingComplete {
		prev.Recommendations = delta.Recommendations
		prev.FinalReport = delta.FinalReport
		prev.ProcessingComplete = true
		prev.ReportTimestamp = delta.ReportTimestamp
		prev.ProcessingTime = delta.ProcessingTime
	}

	return prev
}
