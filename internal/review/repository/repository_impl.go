package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/review/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListVisibleBySupplier(ctx context.Context, supplierID snowflake.ID) ([]*domain.Review, error) {
	var reviews []*domain.Review
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND approved = ? AND deleted = ?", supplierID, true, false).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
