package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/craftbid/matchengine/internal/clock"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const jobRefreshStaleRatings = "refresh_stale_ratings"

// Scheduler keeps composite ratings from going stale: suppliers whose rating
// was computed before the staleness cutoff are recomputed in small batches so
// the next fan-out reads fresh scores from the cache-aside path.
type Scheduler struct {
	log       *zap.Logger
	cfg       Config
	clock     clock.Clock
	ratings   ratingdomain.Repository
	ratingSvc ratingdomain.Service
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Ratings   ratingdomain.Repository
	RatingSvc ratingdomain.Service
	Config    Config `optional:"true"`
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Ratings == nil || p.RatingSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:       p.Log.Named("scheduler"),
		cfg:       p.Config.withDefaults(),
		clock:     p.Clock,
		ratings:   p.Ratings,
		ratingSvc: p.RatingSvc,
	}, nil
}

// RunForever ticks until ctx is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes every job a single time. Job failures are logged and
// counted, never propagated: the loop must survive a bad tick.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.runJob(ctx, jobRefreshStaleRatings, s.refreshStaleRatings)
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	err := fn(ctx)
	if err == nil {
		obsmetrics.Engine().IncSchedulerRun(name, obsmetrics.ResultOK)
		log.Debug("job finished", zap.Duration("took", time.Since(start)))
		return
	}

	obsmetrics.Engine().IncSchedulerRun(name, obsmetrics.ResultError)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return
	}
	log.Error("job failed", zap.Error(err))
}

func (s *Scheduler) refreshStaleRatings(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.cfg.RatingStaleAfter)
	supplierIDs, err := s.ratings.ListStaleSupplierIDs(ctx, cutoff, s.cfg.MaxRatingBatchSize)
	if err != nil {
		return err
	}
	if len(supplierIDs) == 0 {
		return nil
	}

	var failed int
	for _, supplierID := range supplierIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.ratingSvc.Calculate(ctx, supplierID); err != nil {
			failed++
			s.log.Warn("stale rating refresh failed",
				zap.String("supplier_id", supplierID.String()),
				zap.Error(err),
			)
		}
	}

	s.log.Info("refreshed stale ratings",
		zap.Int("total", len(supplierIDs)),
		zap.Int("failed", failed),
	)
	return nil
}
