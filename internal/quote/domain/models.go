package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "PENDING"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusWithdrawn QuoteStatus = "WITHDRAWN"
)

// Quote is a supplier's bid on a project. At most one PENDING quote exists per
// (project, supplier) pair.
type Quote struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID    snowflake.ID `gorm:"not null;index" json:"project_id"`
	SupplierID   snowflake.ID `gorm:"not null;index" json:"supplier_id"`
	PriceCents   int64        `gorm:"not null" json:"price_cents"`
	DeliveryDays *int         `json:"delivery_days,omitempty"`
	Note         string       `json:"note,omitempty"`
	Status       QuoteStatus  `gorm:"not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

var (
	ErrNotFound       = errors.New("quote_not_found")
	ErrInvalidID      = errors.New("invalid_quote_id")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrDuplicateQuote = errors.New("duplicate_pending_quote")
	ErrNotPending     = errors.New("quote_not_pending")
	ErrForbidden      = errors.New("forbidden")
)

type SubmitQuoteRequest struct {
	ProjectID    snowflake.ID
	SupplierID   snowflake.ID
	PriceCents   int64
	DeliveryDays *int
	Note         string
}

type Service interface {
	// Submit records a new pending quote; a second pending quote for the same
	// (project, supplier) pair is rejected.
	Submit(ctx context.Context, req SubmitQuoteRequest) (Quote, error)
	// Accept marks the quote accepted and rejects every sibling pending quote
	// on the project. The sibling writes are independent and convergent, not
	// one transaction.
	Accept(ctx context.Context, quoteID snowflake.ID) (Quote, error)
	// Withdraw lets the owning supplier pull a pending quote.
	Withdraw(ctx context.Context, quoteID, supplierID snowflake.ID) (Quote, error)
	// ListByProject returns all quotes on the project, newest first.
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]Quote, error)
}

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Quote, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]*Quote, error)
	FindPending(ctx context.Context, projectID, supplierID snowflake.ID) (*Quote, error)
	Insert(ctx context.Context, quote *Quote) error
	UpdateStatus(ctx context.Context, id snowflake.ID, status QuoteStatus, at time.Time) error
}
