package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/partner"
)

// ErrNoEligiblePartner is returned when no candidate survives the
// eligibility filter. It is a business outcome, not a failure: the caller
// leaves its batch pending and relies on the retry loop.
var ErrNoEligiblePartner = errors.New("no eligible delivery partner")

// PartnerScorer is a domain service that ranks delivery partner candidates
// near a restaurant and selects the best one.
//
// Selection rules:
//   - Only partners with status online and fewer than partner.MaxAllowedOrders
//     active orders are considered.
//   - Survivors are ranked by the weighted score in Candidate.Score, which
//     favors proximity most heavily, then low load, then assignment fairness,
//     then recency of activity.
//   - Ties go to the earlier candidate in enumeration order. Candidates
//     arrive sorted by distance, so the nearer partner wins a tie.
type PartnerScorer struct{}

// NewPartnerScorer creates a new PartnerScorer instance.
func NewPartnerScorer() PartnerScorer {
	return PartnerScorer{}
}

// SelectBest returns the highest-scoring eligible candidate, or
// ErrNoEligiblePartner if none qualifies. Candidates are validated; an
// improperly constructed candidate fails the whole selection.
func (s PartnerScorer) SelectBest(candidates []*partner.Candidate, now time.Time) (*partner.Candidate, error) {
	var (
		best      *partner.Candidate
		bestScore float64
	)

	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if !c.IsEligible() {
			continue
		}

		score := c.Score(now)
		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}

	if best == nil {
		return nil, ErrNoEligiblePartner
	}

	return best, nil
}
