// Package factcheck looks up published claim reviews through the Google Fact
// Check Tools API.
package factcheck

import (
	"context"
	"errors"

	"google.golang.org/api/factchecktools/v1alpha1"
	"google.golang.org/api/option"

	"github.com/PaawanBarach/ai-content-intelligence/capability"
	"github.com/PaawanBarach/ai-content-intelligence/retry"
)

const (
	maxQueryLen = 100
	maxResults  = 3
	maxAgeDays  = 30
)

// Client implements capability.FactChecker on the claims:search endpoint.
type Client struct {
	svc    *factchecktools.Service
	policy retry.Policy
}

// New creates a fact-check client authenticated with an API key.
func New(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("factcheck: API key cannot be empty")
	}
	svc, err := factchecktools.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, policy: capability.LookupPolicy()}, nil
}

// SearchFactChecks queries recent claim reviews matching query. The query is
// truncated to 100 characters, reviews older than 30 days are excluded, and
// at most three claims are returned.
func (c *Client) SearchFactChecks(ctx context.Context, query string) ([]capability.FactCheck, error) {
	if len(query) > maxQueryLen {
		query = query[:maxQueryLen]
	}

	var out []capability.FactCheck
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		resp, err := c.svc.Claims.Search().
			Query(query).
			MaxAgeDays(maxAgeDays).
			PageSize(maxResults).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		out = MapClaims(resp.Claims)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MapClaims converts API claims into the capability representation, keeping
// the first review of each claim and at most three claims.
func MapClaims(claims []*factchecktools.GoogleFactcheckingFactchecktoolsV1alpha1Claim) []capability.FactCheck {
	out := make([]capability.FactCheck, 0, maxResults)
	for _, claim := range claims {
		if claim == nil {
			continue
		}
		fc := capability.FactCheck{
			Text:     claim.Text,
			Claimant: claim.Claimant,
		}
		if len(claim.ClaimReview) > 0 && claim.ClaimReview[0] != nil {
			fc.Rating = claim.ClaimReview[0].TextualRating
			fc.URL = claim.ClaimReview[0].Url
		}
		out = append(out, fc)
		if len(out) == maxResults {
			break
		}
	}
	return out
}
