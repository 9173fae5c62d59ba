package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/quote/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repo) ListByProject(ctx context.Context, projectID snowflake.ID) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc, id desc").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repo) FindPending(ctx context.Context, projectID, supplierID snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND supplier_id = ? AND status = ?", projectID, supplierID, domain.QuoteStatusPending).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repo) Insert(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *repo) UpdateStatus(ctx context.Context, id snowflake.ID, status domain.QuoteStatus, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": at,
		}).Error
}
