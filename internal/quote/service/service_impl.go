package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	"github.com/craftbid/matchengine/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	quotes domain.Repository
}

type Params struct {
	fx.In

	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Quotes domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:    p.Log.Named("quote.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		quotes: p.Quotes,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitQuoteRequest) (domain.Quote, error) {
	if req.ProjectID == 0 || req.SupplierID == 0 {
		return domain.Quote{}, domain.ErrInvalidID
	}
	if req.PriceCents <= 0 {
		return domain.Quote{}, domain.ErrInvalidPrice
	}

	existing, err := s.quotes.FindPending(ctx, req.ProjectID, req.SupplierID)
	if err != nil {
		return domain.Quote{}, err
	}
	if existing != nil {
		return domain.Quote{}, domain.ErrDuplicateQuote
	}

	now := s.clock.Now()
	quote := domain.Quote{
		ID:           s.genID.Generate(),
		ProjectID:    req.ProjectID,
		SupplierID:   req.SupplierID,
		PriceCents:   req.PriceCents,
		DeliveryDays: req.DeliveryDays,
		Note:         req.Note,
		Status:       domain.QuoteStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.quotes.Insert(ctx, &quote); err != nil {
		return domain.Quote{}, err
	}
	return quote, nil
}

func (s *Service) Accept(ctx context.Context, quoteID snowflake.ID) (domain.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if quote == nil {
		return domain.Quote{}, domain.ErrNotFound
	}
	if quote.Status != domain.QuoteStatusPending {
		return domain.Quote{}, domain.ErrNotPending
	}

	now := s.clock.Now()
	if err := s.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusAccepted, now); err != nil {
		return domain.Quote{}, err
	}
	quote.Status = domain.QuoteStatusAccepted
	quote.UpdatedAt = now

	// Sibling rejections are independent writes. Each is idempotent, so a
	// failure part-way leaves a state the next accept attempt converges.
	siblings, err := s.quotes.ListByProject(ctx, quote.ProjectID)
	if err != nil {
		return *quote, err
	}
	for _, sibling := range siblings {
		if sibling.ID == quote.ID || sibling.Status != domain.QuoteStatusPending {
			continue
		}
		if err := s.quotes.UpdateStatus(ctx, sibling.ID, domain.QuoteStatusRejected, now); err != nil {
			s.log.Error("failed to reject sibling quote",
				zap.String("quote_id", sibling.ID.String()),
				zap.String("project_id", quote.ProjectID.String()),
				zap.Error(err),
			)
			return *quote, err
		}
	}
	return *quote, nil
}

func (s *Service) Withdraw(ctx context.Context, quoteID, supplierID snowflake.ID) (domain.Quote, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if quote == nil {
		return domain.Quote{}, domain.ErrNotFound
	}
	if quote.SupplierID != supplierID {
		return domain.Quote{}, domain.ErrForbidden
	}
	if quote.Status != domain.QuoteStatusPending {
		return domain.Quote{}, domain.ErrNotPending
	}

	now := s.clock.Now()
	if err := s.quotes.UpdateStatus(ctx, quote.ID, domain.QuoteStatusWithdrawn, now); err != nil {
		return domain.Quote{}, err
	}
	quote.Status = domain.QuoteStatusWithdrawn
	quote.UpdatedAt = now
	return *quote, nil
}

func (s *Service) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.Quote, error) {
	items, err := s.quotes.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	quotes := make([]domain.Quote, 0, len(items))
	for _, item := range items {
		quotes = append(quotes, *item)
	}
	return quotes, nil
}
