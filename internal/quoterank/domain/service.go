package domain

import (
	"context"

	quotedomain "github.com/craftbid/matchengine/internal/quote/domain"
)

// Component weights for the comparative quote score.
const (
	MaxPriceScore    = 30.0
	MaxRatingScore   = 40.0
	MaxDeliveryScore = 20.0
	MaxRecencyScore  = 10.0

	// NeutralRatingScore is used when a supplier's rating cannot be resolved;
	// a missing rating never disqualifies a quote outright.
	NeutralRatingScore = 20.0

	// UnspecifiedDeliveryScore applies to a quote with no delivery estimate
	// when at least one competitor specified one.
	UnspecifiedDeliveryScore = 5.0

	// DefaultDeliveryScore applies to every quote when none in the set
	// specified a delivery estimate.
	DefaultDeliveryScore = 10.0
)

// RankedQuote is a quote with its comparative score breakdown.
type RankedQuote struct {
	quotedomain.Quote

	PriceScore    float64 `json:"price_score"`
	RatingScore   float64 `json:"rating_score"`
	DeliveryScore float64 `json:"delivery_score"`
	RecencyScore  float64 `json:"recency_score"`
	TotalScore    float64 `json:"total_score"`
}

type Service interface {
	// Rank reorders the quote set best-first. The result is a permutation of
	// the input; equal totals preserve input order.
	Rank(ctx context.Context, quotes []quotedomain.Quote) ([]RankedQuote, error)
}
