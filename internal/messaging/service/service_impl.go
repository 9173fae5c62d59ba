package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	"github.com/craftbid/matchengine/internal/messaging/domain"
	"github.com/craftbid/matchengine/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	conversations domain.Repository
}

type Params struct {
	fx.In

	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Conversations domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:           p.Log.Named("messaging.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		conversations: p.Conversations,
	}
}

func (s *Service) GetOrCreateConversation(ctx context.Context, customerID, supplierID snowflake.ID, projectID *snowflake.ID) (snowflake.ID, error) {
	if customerID == 0 || supplierID == 0 {
		return 0, domain.ErrInvalidParticipants
	}

	existing, err := s.conversations.FindConversation(ctx, customerID, supplierID, projectID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	conversation := domain.Conversation{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		SupplierID: supplierID,
		ProjectID:  projectID,
		CreatedAt:  s.clock.Now(),
	}
	insertErr := s.conversations.InsertConversation(ctx, &conversation)
	if insertErr == nil {
		return conversation.ID, nil
	}
	if !db.IsDuplicateKeyErr(insertErr) {
		return 0, insertErr
	}

	// Another worker created the same scope first; use its row.
	winner, err := s.conversations.FindConversation(ctx, customerID, supplierID, projectID)
	if err != nil {
		return 0, err
	}
	if winner == nil {
		return 0, insertErr
	}
	return winner.ID, nil
}

func (s *Service) SendMessage(ctx context.Context, senderID, conversationID snowflake.ID, content string, metadata map[string]any) (snowflake.ID, error) {
	message := domain.Message{
		ID:             s.genID.Generate(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		Metadata:       datatypes.JSONMap(metadata),
		CreatedAt:      s.clock.Now(),
	}
	if message.Metadata == nil {
		message.Metadata = datatypes.JSONMap{}
	}
	if err := s.conversations.InsertMessage(ctx, &message); err != nil {
		return 0, err
	}
	return message.ID, nil
}
