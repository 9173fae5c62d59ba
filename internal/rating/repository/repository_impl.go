package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindBySupplier(ctx context.Context, supplierID snowflake.ID) (*domain.CompositeRating, error) {
	var rating domain.CompositeRating
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

func (r *repo) ListStaleSupplierIDs(ctx context.Context, cutoff time.Time, limit int) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&domain.CompositeRating{}).
		Where("last_calculated_at < ?", cutoff).
		Order("last_calculated_at asc").
		Limit(limit).
		Pluck("supplier_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) Insert(ctx context.Context, rating *domain.CompositeRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *repo) Update(ctx context.Context, rating *domain.CompositeRating) error {
	return r.db.WithContext(ctx).
		Model(&domain.CompositeRating{}).
		Where("supplier_id = ?", rating.SupplierID).
		Updates(map[string]any{
			"premium_score":      rating.PremiumScore,
			"review_score":       rating.ReviewScore,
			"profile_score":      rating.ProfileScore,
			"response_score":     rating.ResponseScore,
			"activity_score":     rating.ActivityScore,
			"penalties":          rating.Penalties,
			"total_score":        rating.TotalScore,
			"last_calculated_at": rating.LastCalculatedAt,
		}).Error
}
