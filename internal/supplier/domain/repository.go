package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrNotFound = errors.New("supplier_not_found")

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Supplier, error)
	FindByIDs(ctx context.Context, ids []snowflake.ID) ([]*Supplier, error)
	CategoryMemberIDs(ctx context.Context, categoryID snowflake.ID) ([]snowflake.ID, error)
	CityMemberIDs(ctx context.Context, cityID snowflake.ID) ([]snowflake.ID, error)
}
