package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/messaging/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindConversation(ctx context.Context, customerID, supplierID snowflake.ID, projectID *snowflake.ID) (*domain.Conversation, error) {
	stmt := r.db.WithContext(ctx).
		Where("customer_id = ? AND supplier_id = ?", customerID, supplierID)
	if projectID != nil {
		stmt = stmt.Where("project_id = ?", *projectID)
	} else {
		stmt = stmt.Where("project_id IS NULL")
	}

	var conversation domain.Conversation
	err := stmt.First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *repo) InsertConversation(ctx context.Context, conversation *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *repo) InsertMessage(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}
