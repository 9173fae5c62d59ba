package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Conversation scopes a message thread to a (customer, supplier) pair,
// optionally pinned to one project.
type Conversation struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID  `gorm:"not null;uniqueIndex:idx_conversation_scope" json:"customer_id"`
	SupplierID snowflake.ID  `gorm:"not null;uniqueIndex:idx_conversation_scope" json:"supplier_id"`
	ProjectID  *snowflake.ID `gorm:"uniqueIndex:idx_conversation_scope" json:"project_id,omitempty"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Message carries structured metadata alongside the text so the transport
// layer can render rich notifications without re-parsing content.
type Message struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	ConversationID snowflake.ID      `gorm:"not null;index" json:"conversation_id"`
	SenderID       snowflake.ID      `gorm:"not null" json:"sender_id"`
	Content        string            `gorm:"not null" json:"content"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

var ErrInvalidParticipants = errors.New("invalid_participants")

// Service is the engine's outbound messaging port. The real conversation and
// delivery model lives outside the engine; this contract is all it needs.
type Service interface {
	GetOrCreateConversation(ctx context.Context, customerID, supplierID snowflake.ID, projectID *snowflake.ID) (snowflake.ID, error)
	SendMessage(ctx context.Context, senderID, conversationID snowflake.ID, content string, metadata map[string]any) (snowflake.ID, error)
}

type Repository interface {
	FindConversation(ctx context.Context, customerID, supplierID snowflake.ID, projectID *snowflake.ID) (*Conversation, error)
	InsertConversation(ctx context.Context, conversation *Conversation) error
	InsertMessage(ctx context.Context, message *Message) error
}
