package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"go.uber.org/zap"
)

// Scores is the cache-aside read path for total scores. The cache is an
// optimization only: a miss or a cache error falls through to the calculator.
type Scores struct {
	log   *zap.Logger
	svc   ratingdomain.Service
	cache ratingdomain.ScoreCache
}

func NewScores(log *zap.Logger, svc ratingdomain.Service, cache ratingdomain.ScoreCache) ratingdomain.ScoreProvider {
	return &Scores{
		log:   log.Named("rating.scores"),
		svc:   svc,
		cache: cache,
	}
}

func (s *Scores) TotalScore(ctx context.Context, supplierID snowflake.ID) (float64, error) {
	total, hit, err := s.cache.Get(ctx, supplierID)
	if err != nil {
		s.log.Warn("score cache read failed",
			zap.String("supplier_id", supplierID.String()),
			zap.Error(err),
		)
	} else if hit {
		obsmetrics.Engine().IncCacheLookup(obsmetrics.LookupHit)
		return total, nil
	}
	obsmetrics.Engine().IncCacheLookup(obsmetrics.LookupMiss)

	rating, err := s.svc.Get(ctx, supplierID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, supplierID, rating.TotalScore); err != nil {
		s.log.Warn("score cache write failed",
			zap.String("supplier_id", supplierID.String()),
			zap.Error(err),
		)
	}
	return rating.TotalScore, nil
}
