package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRatingsRepo struct {
	stale   []snowflake.ID
	listErr error

	gotCutoff time.Time
	gotLimit  int
}

func (s *stubRatingsRepo) FindBySupplier(context.Context, snowflake.ID) (*ratingdomain.CompositeRating, error) {
	return nil, nil
}

func (s *stubRatingsRepo) ListStaleSupplierIDs(_ context.Context, cutoff time.Time, limit int) ([]snowflake.ID, error) {
	s.gotCutoff = cutoff
	s.gotLimit = limit
	return s.stale, s.listErr
}

func (s *stubRatingsRepo) Insert(context.Context, *ratingdomain.CompositeRating) error { return nil }
func (s *stubRatingsRepo) Update(context.Context, *ratingdomain.CompositeRating) error { return nil }

type stubRatingSvc struct {
	failFor    map[snowflake.ID]bool
	calculated []snowflake.ID
}

func (s *stubRatingSvc) Calculate(_ context.Context, supplierID snowflake.ID) (ratingdomain.CompositeRating, error) {
	if s.failFor[supplierID] {
		return ratingdomain.CompositeRating{}, errors.New("calculation failed")
	}
	s.calculated = append(s.calculated, supplierID)
	return ratingdomain.CompositeRating{SupplierID: supplierID}, nil
}

func (s *stubRatingSvc) Get(ctx context.Context, supplierID snowflake.ID) (ratingdomain.CompositeRating, error) {
	return s.Calculate(ctx, supplierID)
}

func newTestScheduler(t *testing.T, repo ratingdomain.Repository, svc ratingdomain.Service, now time.Time) *Scheduler {
	t.Helper()
	obsmetrics.ResetEngineMetricsForTest()

	sched, err := New(Params{
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(now),
		Ratings:   repo,
		RatingSvc: svc,
		Config: Config{
			RatingStaleAfter:   24 * time.Hour,
			MaxRatingBatchSize: 10,
		},
	})
	require.NoError(t, err)
	return sched
}

func TestRunOnceRefreshesStaleRatings(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	node, err := snowflake.NewNode(8)
	require.NoError(t, err)

	stale := []snowflake.ID{node.Generate(), node.Generate(), node.Generate()}
	repo := &stubRatingsRepo{stale: stale}
	svc := &stubRatingSvc{}
	sched := newTestScheduler(t, repo, svc, now)

	sched.RunOnce(context.Background())

	assert.Equal(t, stale, svc.calculated)
	assert.Equal(t, now.Add(-24*time.Hour), repo.gotCutoff)
	assert.Equal(t, 10, repo.gotLimit)
}

func TestRunOnceOneFailureDoesNotStopBatch(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	node, err := snowflake.NewNode(8)
	require.NoError(t, err)

	stale := []snowflake.ID{node.Generate(), node.Generate(), node.Generate()}
	repo := &stubRatingsRepo{stale: stale}
	svc := &stubRatingSvc{failFor: map[snowflake.ID]bool{stale[1]: true}}
	sched := newTestScheduler(t, repo, svc, now)

	sched.RunOnce(context.Background())

	assert.Equal(t, []snowflake.ID{stale[0], stale[2]}, svc.calculated)
}

func TestRunOnceSurvivesListError(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := &stubRatingsRepo{listErr: errors.New("db down")}
	svc := &stubRatingSvc{}
	sched := newTestScheduler(t, repo, svc, now)

	// Must not panic or propagate; the next tick will retry.
	sched.RunOnce(context.Background())
	assert.Empty(t, svc.calculated)
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
