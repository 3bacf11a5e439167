package triage

import (
	"context"
	"strings"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/graph"
)

const (
	neutralVerificationScore = 0.5
	maxVerificationResults   = 3
)

// VerificationNode builds the verification stage. It cross-checks the
// content against news coverage and published fact checks, producing a
// corroboration score in [0,1]. The stage never fails the run: lookup errors
// count as no results, and with no usable search query it short-circuits to
// the neutral score.
func VerificationNode(news capability.NewsSearcher, checker capability.FactChecker) graph.NodeFunc[ContentState] {
	return func(ctx context.Context, s ContentState) graph.NodeResult[ContentState] {
		query := verificationQuery(s)
		if strings.TrimSpace(query) == "" {
			return graph.NodeResult[ContentState]{Delta: neutralVerification()}
		}

		var articles []capability.Article
		if news != nil {
			if found, err := news.SearchNews(ctx, query); err == nil {
				articles = found
			}
		}

		var checks []capability.FactCheck
		if checker != nil {
			if found, err := checker.SearchFactChecks(ctx, query); err == nil {
				checks = found
			}
		}

		score := neutralVerificationScore
		if len(articles) > 0 {
			score += 0.1
		}
		if len(checks) > 0 {
			// One fact-check rule fires, never both.
			switch {
			case anyRatingContains(checks, "true", "correct"):
				score += 0.2
			case anyRatingContains(checks, "false", "incorrect"):
				score -= 0.3
			}
		}
		score = clamp01(score)

		return graph.NodeResult[ContentState]{Delta: ContentState{
			FactCheckResults:  capResults(checks),
			SimilarArticles:   capArticles(articles),
			VerificationScore: score,
		}}
	}
}

// verificationQuery derives the search query: first entity name, else the
// first two topics, else the first 50 characters of the text.
func verificationQuery(s ContentState) string {
	if len(s.Entities) > 0 {
		return s.Entities[0].Name
	}
	if len(s.Topics) > 0 {
		n := len(s.Topics)
		if n > 2 {
			n = 2
		}
		return strings.Join(s.Topics[:n], " ")
	}
	if len(s.Text) > 50 {
		return s.Text[:50]
	}
	return s.Text
}

func neutralVerification() ContentState {
	return ContentState{
		FactCheckResults:  []capability.FactCheck{},
		SimilarArticles:   []capability.Article{},
		VerificationScore: neutralVerificationScore,
	}
}

func anyRatingContains(checks []capability.FactCheck, words ...string) bool {
	for _, fc := range checks {
		rating := strings.ToLower(fc.Rating)
		for _, w := range words {
			if strings.Contains(rating, w) {
				return true
			}
		}
	}
	return false
}

func capResults(checks []capability.FactCheck) []capability.FactCheck {
	if checks == nil {
		return []capability.FactCheck{}
	}
	if len(checks) > maxVerificationResults {
		return checks[:maxVerificationResults]
	}
	return checks
}

func capArticles(articles []capability.Article) []capability.Article {
	if articles == nil {
		return []capability.Article{}
	}
	if len(articles) > maxVerificationResults {
		return articles[:maxVerificationResults]
	}
	return articles
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
