package service

import (
	"context"
	"math"
	"sort"

	"github.com/craftbid/matchengine/internal/clock"
	quotedomain "github.com/craftbid/matchengine/internal/quote/domain"
	quorankdomain "github.com/craftbid/matchengine/internal/quoterank/domain"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	clock  clock.Clock
	scores ratingdomain.ScoreProvider
}

type Params struct {
	fx.In

	Log    *zap.Logger
	Clock  clock.Clock
	Scores ratingdomain.ScoreProvider
}

func New(p Params) quorankdomain.Service {
	return &Service{
		log:    p.Log.Named("quoterank.service"),
		clock:  p.Clock,
		scores: p.Scores,
	}
}

func (s *Service) Rank(ctx context.Context, quotes []quotedomain.Quote) ([]quorankdomain.RankedQuote, error) {
	if len(quotes) == 0 {
		return nil, nil
	}

	ranked := make([]quorankdomain.RankedQuote, len(quotes))
	for i, quote := range quotes {
		ranked[i] = quorankdomain.RankedQuote{
			Quote:       quote,
			RatingScore: s.ratingScore(ctx, quote),
		}
	}

	s.scorePrices(ranked)
	s.scoreDelivery(ranked)
	s.scoreRecency(ranked)

	for i := range ranked {
		ranked[i].TotalScore = round2(ranked[i].PriceScore +
			ranked[i].RatingScore +
			ranked[i].DeliveryScore +
			ranked[i].RecencyScore)
	}

	// Stable sort keeps input order for equal totals.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	return ranked, nil
}

// ratingScore falls back to the neutral mid-point when the supplier's rating
// cannot be resolved.
func (s *Service) ratingScore(ctx context.Context, quote quotedomain.Quote) float64 {
	total, err := s.scores.TotalScore(ctx, quote.SupplierID)
	if err != nil {
		s.log.Warn("rating lookup failed, using neutral rating score",
			zap.String("supplier_id", quote.SupplierID.String()),
			zap.Error(err),
		)
		return quorankdomain.NeutralRatingScore
	}
	return (total / 100) * quorankdomain.MaxRatingScore
}

// scorePrices interpolates linearly: cheapest 30, most expensive 0. All-equal
// prices all score 30.
func (s *Service) scorePrices(ranked []quorankdomain.RankedQuote) {
	minPrice, maxPrice := ranked[0].PriceCents, ranked[0].PriceCents
	for _, quote := range ranked[1:] {
		if quote.PriceCents < minPrice {
			minPrice = quote.PriceCents
		}
		if quote.PriceCents > maxPrice {
			maxPrice = quote.PriceCents
		}
	}
	for i := range ranked {
		if maxPrice == minPrice {
			ranked[i].PriceScore = quorankdomain.MaxPriceScore
			continue
		}
		ranked[i].PriceScore = quorankdomain.MaxPriceScore *
			float64(maxPrice-ranked[i].PriceCents) / float64(maxPrice-minPrice)
	}
}

// scoreDelivery interpolates over the quotes that specified an estimate:
// fastest 20, slowest 0. No estimate scores 5; if nobody specified one, every
// quote scores 10.
func (s *Service) scoreDelivery(ranked []quorankdomain.RankedQuote) {
	minDays, maxDays := 0, 0
	specified := false
	for _, quote := range ranked {
		if quote.DeliveryDays == nil {
			continue
		}
		days := *quote.DeliveryDays
		if !specified {
			minDays, maxDays = days, days
			specified = true
			continue
		}
		if days < minDays {
			minDays = days
		}
		if days > maxDays {
			maxDays = days
		}
	}

	for i := range ranked {
		switch {
		case !specified:
			ranked[i].DeliveryScore = quorankdomain.DefaultDeliveryScore
		case ranked[i].DeliveryDays == nil:
			ranked[i].DeliveryScore = quorankdomain.UnspecifiedDeliveryScore
		case maxDays == minDays:
			ranked[i].DeliveryScore = quorankdomain.MaxDeliveryScore
		default:
			ranked[i].DeliveryScore = quorankdomain.MaxDeliveryScore *
				float64(maxDays-*ranked[i].DeliveryDays) / float64(maxDays-minDays)
		}
	}
}

// scoreRecency interpolates by age against the oldest quote: the newest
// approaches 10, the oldest scores 0.
func (s *Service) scoreRecency(ranked []quorankdomain.RankedQuote) {
	now := s.clock.Now()
	oldest, newest := ranked[0].CreatedAt, ranked[0].CreatedAt
	for _, quote := range ranked[1:] {
		if quote.CreatedAt.Before(oldest) {
			oldest = quote.CreatedAt
		}
		if quote.CreatedAt.After(newest) {
			newest = quote.CreatedAt
		}
	}

	spread := newest.Sub(oldest)
	for i := range ranked {
		if spread == 0 {
			ranked[i].RecencyScore = quorankdomain.MaxRecencyScore
			continue
		}
		age := now.Sub(ranked[i].CreatedAt)
		oldestAge := now.Sub(oldest)
		ranked[i].RecencyScore = quorankdomain.MaxRecencyScore *
			float64(oldestAge-age) / float64(spread)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
