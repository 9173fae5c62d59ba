package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrSupplierNotFound = errors.New("supplier_not_found")
	ErrInvalidID        = errors.New("invalid_supplier_id")
)

type Service interface {
	// Calculate recomputes the composite rating from scratch and persists it.
	Calculate(ctx context.Context, supplierID snowflake.ID) (CompositeRating, error)
	// Get returns the stored rating, computing it first if none exists.
	Get(ctx context.Context, supplierID snowflake.ID) (CompositeRating, error)
}

// ScoreProvider is the cache-aside read path for total scores. The candidate
// scorer and quote ranker go through it so a fan-out never recomputes the same
// supplier twice within the cache TTL.
type ScoreProvider interface {
	TotalScore(ctx context.Context, supplierID snowflake.ID) (float64, error)
}

// ScoreCache stores total scores with a short TTL. It is an optimization only:
// every consumer must stay correct when Get always misses.
type ScoreCache interface {
	Get(ctx context.Context, supplierID snowflake.ID) (float64, bool, error)
	Set(ctx context.Context, supplierID snowflake.ID, total float64) error
	Delete(ctx context.Context, supplierID snowflake.ID) error
}

type Repository interface {
	FindBySupplier(ctx context.Context, supplierID snowflake.ID) (*CompositeRating, error)
	// ListStaleSupplierIDs returns suppliers whose rating was last computed
	// before the cutoff, oldest first, capped at limit.
	ListStaleSupplierIDs(ctx context.Context, cutoff time.Time, limit int) ([]snowflake.ID, error)
	Insert(ctx context.Context, rating *CompositeRating) error
	Update(ctx context.Context, rating *CompositeRating) error
}
