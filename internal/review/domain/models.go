package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Review feeds the composite rating: the review, responsiveness, and activity
// sub-scores plus the penalty checks all read from this set.
type Review struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id"`
	SupplierID          snowflake.ID `gorm:"not null;index" json:"supplier_id"`
	ReviewerID          snowflake.ID `gorm:"not null" json:"reviewer_id"`
	Rating              int          `gorm:"not null" json:"rating"`
	Comment             string       `json:"comment,omitempty"`
	Approved            bool         `gorm:"not null;default:false" json:"approved"`
	Deleted             bool         `gorm:"not null;default:false" json:"deleted"`
	ResponseTimeMinutes *int         `json:"response_time_minutes,omitempty"`
	CreatedAt           time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

type Repository interface {
	// ListVisibleBySupplier returns the supplier's approved, non-deleted reviews.
	ListVisibleBySupplier(ctx context.Context, supplierID snowflake.ID) ([]*Review, error)
}
