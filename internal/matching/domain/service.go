package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchCategory MatchType = "category"
	MatchCity     MatchType = "city"
)

type ExclusionReason string

const (
	ReasonInactive     ExclusionReason = "inactive"
	ReasonBlocked      ExclusionReason = "blocked"
	ReasonLimitReached ExclusionReason = "limit_reached"
	ReasonLowScore     ExclusionReason = "low_score"
)

// Bonuses applied when scoring a candidate against a project.
const (
	ExactMatchBonus    = 100.0
	CategoryMatchBonus = 50.0
	CityMatchBonus     = 30.0

	RatingBonusWeight = 40.0

	RecentLoginBonus = 10.0
	ActiveLoginBonus = 5.0
)

// Candidate is one supplier worth notifying about a project, with the score
// that ordered it.
type Candidate struct {
	SupplierID snowflake.ID `json:"supplier_id"`
	Score      float64      `json:"score"`
	MatchType  MatchType    `json:"match_type"`
}

// Exclusion explains why a supplier from the candidate pool did not make the
// final selection.
type Exclusion struct {
	SupplierID snowflake.ID    `json:"supplier_id"`
	Reason     ExclusionReason `json:"reason"`
	Score      float64         `json:"score"`
	MatchType  MatchType       `json:"match_type"`
}

type Service interface {
	// SelectCandidates returns the top candidates for the project, best first.
	SelectCandidates(ctx context.Context, projectID snowflake.ID) ([]Candidate, error)
	// ExplainExclusions classifies every pool supplier left out of the selection.
	ExplainExclusions(ctx context.Context, projectID snowflake.ID) ([]Exclusion, error)
}
