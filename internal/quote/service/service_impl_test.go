package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftbid/matchengine/internal/clock"
	"github.com/craftbid/matchengine/internal/quote/domain"
	quoterepo "github.com/craftbid/matchengine/internal/quote/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type quoteFixture struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   domain.Service
}

func newQuoteFixture(t *testing.T) *quoteFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Quote{}))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Quotes: quoterepo.Provide(db),
	})
	return &quoteFixture{db: db, node: node, clock: fake, svc: svc}
}

func (f *quoteFixture) submit(t *testing.T, projectID, supplierID snowflake.ID, price int64) domain.Quote {
	t.Helper()
	quote, err := f.svc.Submit(context.Background(), domain.SubmitQuoteRequest{
		ProjectID:  projectID,
		SupplierID: supplierID,
		PriceCents: price,
	})
	require.NoError(t, err)
	return quote
}

func TestSubmitRejectsDuplicatePending(t *testing.T) {
	f := newQuoteFixture(t)
	projectID, supplierID := f.node.Generate(), f.node.Generate()

	f.submit(t, projectID, supplierID, 100_000)

	_, err := f.svc.Submit(context.Background(), domain.SubmitQuoteRequest{
		ProjectID:  projectID,
		SupplierID: supplierID,
		PriceCents: 90_000,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateQuote)
}

func TestSubmitAllowsNewQuoteAfterWithdraw(t *testing.T) {
	f := newQuoteFixture(t)
	projectID, supplierID := f.node.Generate(), f.node.Generate()

	first := f.submit(t, projectID, supplierID, 100_000)
	_, err := f.svc.Withdraw(context.Background(), first.ID, supplierID)
	require.NoError(t, err)

	second := f.submit(t, projectID, supplierID, 95_000)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSubmitValidation(t *testing.T) {
	f := newQuoteFixture(t)

	_, err := f.svc.Submit(context.Background(), domain.SubmitQuoteRequest{
		SupplierID: f.node.Generate(),
		PriceCents: 100,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.Submit(context.Background(), domain.SubmitQuoteRequest{
		ProjectID:  f.node.Generate(),
		SupplierID: f.node.Generate(),
		PriceCents: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestAcceptRejectsSiblingPendingQuotes(t *testing.T) {
	f := newQuoteFixture(t)
	projectID := f.node.Generate()

	winner := f.submit(t, projectID, f.node.Generate(), 100_000)
	loserA := f.submit(t, projectID, f.node.Generate(), 110_000)
	loserB := f.submit(t, projectID, f.node.Generate(), 120_000)

	// A quote on another project must stay untouched.
	other := f.submit(t, f.node.Generate(), f.node.Generate(), 50_000)

	accepted, err := f.svc.Accept(context.Background(), winner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, accepted.Status)

	status := func(id snowflake.ID) domain.QuoteStatus {
		var q domain.Quote
		require.NoError(t, f.db.Where("id = ?", id).First(&q).Error)
		return q.Status
	}
	assert.Equal(t, domain.QuoteStatusAccepted, status(winner.ID))
	assert.Equal(t, domain.QuoteStatusRejected, status(loserA.ID))
	assert.Equal(t, domain.QuoteStatusRejected, status(loserB.ID))
	assert.Equal(t, domain.QuoteStatusPending, status(other.ID))
}

func TestAcceptNonPending(t *testing.T) {
	f := newQuoteFixture(t)
	projectID := f.node.Generate()

	quote := f.submit(t, projectID, f.node.Generate(), 100_000)
	_, err := f.svc.Accept(context.Background(), quote.ID)
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), quote.ID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestAcceptUnknownQuote(t *testing.T) {
	f := newQuoteFixture(t)

	_, err := f.svc.Accept(context.Background(), f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithdrawOwnershipAndState(t *testing.T) {
	f := newQuoteFixture(t)
	projectID, supplierID := f.node.Generate(), f.node.Generate()

	quote := f.submit(t, projectID, supplierID, 100_000)

	_, err := f.svc.Withdraw(context.Background(), quote.ID, f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	withdrawn, err := f.svc.Withdraw(context.Background(), quote.ID, supplierID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusWithdrawn, withdrawn.Status)

	_, err = f.svc.Withdraw(context.Background(), quote.ID, supplierID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestListByProjectNewestFirst(t *testing.T) {
	f := newQuoteFixture(t)
	projectID := f.node.Generate()

	first := f.submit(t, projectID, f.node.Generate(), 100_000)
	f.clock.Advance(time.Minute)
	second := f.submit(t, projectID, f.node.Generate(), 110_000)

	quotes, err := f.svc.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, second.ID, quotes[0].ID)
	assert.Equal(t, first.ID, quotes[1].ID)
}
