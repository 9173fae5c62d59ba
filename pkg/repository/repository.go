package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is a generic gorm-backed store for simple lookups. Hot paths keep
// dedicated repository implementations; this covers the read-mostly catalog
// entities (projects, categories, cities).
type Repository[T any] interface {
	Find(ctx context.Context, query *T) ([]*T, error)
	FindOne(ctx context.Context, query *T) (*T, error)
	FindByIDs(ctx context.Context, ids []snowflake.ID) ([]*T, error)
	Create(ctx context.Context, resource *T) error
	Updates(ctx context.Context, resourceID snowflake.ID, values any) error
}
