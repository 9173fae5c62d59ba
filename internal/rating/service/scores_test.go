package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/craftbid/matchengine/internal/observability/metrics"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryCache struct {
	values map[snowflake.ID]float64
	getErr error
	setErr error
	gets   int
	sets   int
}

func (c *memoryCache) Get(_ context.Context, supplierID snowflake.ID) (float64, bool, error) {
	c.gets++
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	total, ok := c.values[supplierID]
	return total, ok, nil
}

func (c *memoryCache) Set(_ context.Context, supplierID snowflake.ID, total float64) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.values[supplierID] = total
	return nil
}

func (c *memoryCache) Delete(_ context.Context, supplierID snowflake.ID) error {
	delete(c.values, supplierID)
	return nil
}

type stubRatings struct {
	ratings map[snowflake.ID]ratingdomain.CompositeRating
	err     error
	calls   int
}

func (s *stubRatings) Calculate(ctx context.Context, supplierID snowflake.ID) (ratingdomain.CompositeRating, error) {
	return s.Get(ctx, supplierID)
}

func (s *stubRatings) Get(_ context.Context, supplierID snowflake.ID) (ratingdomain.CompositeRating, error) {
	s.calls++
	if s.err != nil {
		return ratingdomain.CompositeRating{}, s.err
	}
	rating, ok := s.ratings[supplierID]
	if !ok {
		return ratingdomain.CompositeRating{}, ratingdomain.ErrSupplierNotFound
	}
	return rating, nil
}

func TestTotalScoreCacheMissFillsCache(t *testing.T) {
	obsmetrics.ResetEngineMetricsForTest()

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	supplierID := node.Generate()

	cache := &memoryCache{values: map[snowflake.ID]float64{}}
	ratings := &stubRatings{ratings: map[snowflake.ID]ratingdomain.CompositeRating{
		supplierID: {SupplierID: supplierID, TotalScore: 77.5},
	}}
	scores := NewScores(zap.NewNop(), ratings, cache)

	total, err := scores.TotalScore(context.Background(), supplierID)
	require.NoError(t, err)
	assert.Equal(t, 77.5, total)
	assert.Equal(t, 1, ratings.calls)
	assert.Equal(t, 77.5, cache.values[supplierID])

	// Second read is served from cache.
	total, err = scores.TotalScore(context.Background(), supplierID)
	require.NoError(t, err)
	assert.Equal(t, 77.5, total)
	assert.Equal(t, 1, ratings.calls)
}

func TestTotalScoreCacheErrorsFallThrough(t *testing.T) {
	obsmetrics.ResetEngineMetricsForTest()

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)
	supplierID := node.Generate()

	cache := &memoryCache{
		values: map[snowflake.ID]float64{},
		getErr: errors.New("redis down"),
		setErr: errors.New("redis down"),
	}
	ratings := &stubRatings{ratings: map[snowflake.ID]ratingdomain.CompositeRating{
		supplierID: {SupplierID: supplierID, TotalScore: 42},
	}}
	scores := NewScores(zap.NewNop(), ratings, cache)

	total, err := scores.TotalScore(context.Background(), supplierID)
	require.NoError(t, err)
	assert.Equal(t, 42.0, total)
	assert.Equal(t, 1, ratings.calls)
}

func TestTotalScorePropagatesCalculatorError(t *testing.T) {
	obsmetrics.ResetEngineMetricsForTest()

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	cache := &memoryCache{values: map[snowflake.ID]float64{}}
	scores := NewScores(zap.NewNop(), &stubRatings{ratings: map[snowflake.ID]ratingdomain.CompositeRating{}}, cache)

	_, err = scores.TotalScore(context.Background(), node.Generate())
	assert.ErrorIs(t, err, ratingdomain.ErrSupplierNotFound)
	// Failed computations are never cached.
	assert.Empty(t, cache.values)
}
