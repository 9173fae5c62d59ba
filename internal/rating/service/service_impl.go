package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	reviewdomain "github.com/craftbid/matchengine/internal/review/domain"
	supplierdomain "github.com/craftbid/matchengine/internal/supplier/domain"
	"github.com/craftbid/matchengine/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	fastResponseMinutes       = 2 * 60
	qualifyingResponseMinutes = 12 * 60

	lowRatingPenalty    = 30.0
	lowResponsePenalty  = 20.0
	staleReviewsPenalty = 40.0
	staleReviewsWindow  = 90 * 24 * time.Hour
)

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	ratings   ratingdomain.Repository
	reviews   reviewdomain.Repository
	suppliers supplierdomain.Repository
}

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Ratings   ratingdomain.Repository
	Reviews   reviewdomain.Repository
	Suppliers supplierdomain.Repository
}

func New(p Params) ratingdomain.Service {
	return &Service{
		log:       p.Log.Named("rating.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		ratings:   p.Ratings,
		reviews:   p.Reviews,
		suppliers: p.Suppliers,
	}
}

func (s *Service) Get(ctx context.Context, supplierID snowflake.ID) (ratingdomain.CompositeRating, error) {
	existing, err := s.ratings.FindBySupplier(ctx, supplierID)
	if err != nil {
		return ratingdomain.CompositeRating{}, err
	}
	if existing != nil {
		return *existing, nil
	}
	return s.Calculate(ctx, supplierID)
}

func (s *Service) Calculate(ctx context.Context, supplierID snowflake.ID) (ratingdomain.CompositeRating, error) {
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return ratingdomain.CompositeRating{}, err
	}
	if supplier == nil {
		return ratingdomain.CompositeRating{}, ratingdomain.ErrSupplierNotFound
	}

	reviews, err := s.reviews.ListVisibleBySupplier(ctx, supplierID)
	if err != nil {
		return ratingdomain.CompositeRating{}, err
	}

	now := s.clock.Now()
	rating := ratingdomain.CompositeRating{
		ID:               s.genID.Generate(),
		SupplierID:       supplierID,
		PremiumScore:     premiumScore(supplier.PremiumTier),
		ReviewScore:      reviewScore(reviews),
		ProfileScore:     profileScore(supplier),
		ResponseScore:    responseScore(reviews),
		ActivityScore:    activityScore(supplier, reviews, now),
		Penalties:        penalties(reviews, now),
		LastCalculatedAt: now,
	}
	rating.TotalScore = round2(math.Max(0,
		rating.PremiumScore+rating.ReviewScore+rating.ProfileScore+
			rating.ResponseScore+rating.ActivityScore-rating.Penalties))

	if err := s.persist(ctx, &rating); err != nil {
		return ratingdomain.CompositeRating{}, err
	}
	return rating, nil
}

// persist tries the insert first. Two workers computing the same supplier's
// first rating race on the unique supplier_id index; the loser falls back to
// fetch-then-update so exactly one row survives.
func (s *Service) persist(ctx context.Context, rating *ratingdomain.CompositeRating) error {
	existing, err := s.ratings.FindBySupplier(ctx, rating.SupplierID)
	if err != nil {
		return err
	}
	if existing != nil {
		rating.ID = existing.ID
		return s.ratings.Update(ctx, rating)
	}

	insertErr := s.ratings.Insert(ctx, rating)
	if insertErr == nil {
		return nil
	}
	if !db.IsDuplicateKeyErr(insertErr) {
		return insertErr
	}

	s.log.Debug("rating insert lost race, updating existing row",
		zap.String("supplier_id", rating.SupplierID.String()),
	)
	winner, err := s.ratings.FindBySupplier(ctx, rating.SupplierID)
	if err != nil {
		return err
	}
	if winner != nil {
		rating.ID = winner.ID
	}
	return s.ratings.Update(ctx, rating)
}

func premiumScore(tier supplierdomain.PremiumTier) float64 {
	switch tier {
	case supplierdomain.TierGold:
		return 30
	case supplierdomain.TierSilver:
		return 24
	case supplierdomain.TierBronze:
		return 18
	default:
		return 0
	}
}

func reviewScore(reviews []*reviewdomain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	avg := averageRating(reviews)
	avgComponent := (avg / 5) * 17.5
	countComponent := math.Min(float64(len(reviews))*0.75, 7.5)
	return round2(avgComponent + countComponent)
}

func profileScore(supplier *supplierdomain.Supplier) float64 {
	var score float64
	if supplier.WorkshopName != "" {
		score += 2.5
	}
	if supplier.WorkshopAddress != "" {
		score += 2.5
	}
	if supplier.ProfileImageURL != "" {
		score += 1.5
	}
	if supplier.CoverImageURL != "" {
		score += 1.5
	}
	machines := math.Min(float64(supplier.MachineCount), 5)
	score += (machines / 5) * 2.4
	// Materials component stays at 0: there is no materials-membership source
	// to score against.
	gallery := math.Min(float64(supplier.PortfolioImageCount), 3)
	score += (gallery / 3) * 8
	return round2(score)
}

func responseScore(reviews []*reviewdomain.Review) float64 {
	var total, count float64
	for _, review := range reviews {
		if review.ResponseTimeMinutes == nil {
			continue
		}
		minutes := float64(*review.ResponseTimeMinutes)
		if minutes >= qualifyingResponseMinutes {
			continue
		}
		total += minutes
		count++
	}
	if count == 0 {
		return 0
	}
	avg := total / count
	switch {
	case avg < fastResponseMinutes:
		return 15
	case avg < qualifyingResponseMinutes:
		return 10
	default:
		return 0
	}
}

// activityScore grants the review bonus for any visible review regardless of
// age; review recency only matters for the stale-review penalty.
func activityScore(supplier *supplierdomain.Supplier, reviews []*reviewdomain.Review, now time.Time) float64 {
	var score float64
	if len(reviews) > 0 {
		score += 3
	}
	if supplier.LastLoginAt != nil {
		switch since := now.Sub(*supplier.LastLoginAt); {
		case since <= 7*24*time.Hour:
			score += 7
		case since <= 30*24*time.Hour:
			score += 5
		case since <= 90*24*time.Hour:
			score += 3
		default:
			score += 1
		}
	} else {
		score += 1
	}
	return math.Min(score, ratingdomain.MaxActivityScore)
}

func penalties(reviews []*reviewdomain.Review, now time.Time) float64 {
	var total float64

	if len(reviews) > 0 {
		if averageRating(reviews) < 2 {
			total += lowRatingPenalty
		}
		var responded float64
		for _, review := range reviews {
			if review.ResponseTimeMinutes != nil {
				responded++
			}
		}
		if responded/float64(len(reviews)) < 0.5 {
			total += lowResponsePenalty
		}
	}

	cutoff := now.Add(-staleReviewsWindow)
	fresh := false
	for _, review := range reviews {
		if review.CreatedAt.After(cutoff) {
			fresh = true
			break
		}
	}
	if !fresh {
		total += staleReviewsPenalty
	}

	return total
}

func averageRating(reviews []*reviewdomain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, review := range reviews {
		sum += float64(review.Rating)
	}
	return sum / float64(len(reviews))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
