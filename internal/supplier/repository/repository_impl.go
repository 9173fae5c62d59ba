package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/supplier/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

type Params struct {
	fx.In

	DB *gorm.DB
}

func Provide(p Params) domain.Repository {
	return &repo{db: p.DB}
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *repo) FindByIDs(ctx context.Context, ids []snowflake.ID) ([]*domain.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var suppliers []*domain.Supplier
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repo) CategoryMemberIDs(ctx context.Context, categoryID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&domain.CategoryMembership{}).
		Where("category_id = ?", categoryID).
		Pluck("supplier_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) CityMemberIDs(ctx context.Context, cityID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).
		Model(&domain.CityMembership{}).
		Where("city_id = ?", cityID).
		Pluck("supplier_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
