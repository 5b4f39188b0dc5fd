package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/integration/cakto"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
)

func newConfirmSale(t *testing.T, repo entity.LeadRepositoryInterface, q SaleQueue, orders OrderLookup) *ConfirmSaleUseCase {
	uc := NewConfirmSaleUseCase(newLifecycle(t, repo), q, orders, zaptest.NewLogger(t))
	uc.now = fixedClock(t0)
	return uc
}

func TestConfirmSaleMarksPurchasedAndPublishes(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0.Add(-time.Hour), false, false))

	q := &MockSaleQueue{}
	q.On("PublishSale", mock.Anything, mock.MatchedBy(func(p queue.SalePayload) bool {
		return p.OrderID == "ord-1" && p.Source == "hubla" && p.LeadFound && p.Name == "Ana"
	})).Return(nil).Once()

	out, err := newConfirmSale(t, repo, q, nil).Execute(context.Background(), &SaleEvent{
		Provider: entity.SourceHubla,
		Event:    "NewSale",
		Approved: true,
		OrderID:  "ord-1",
		Email:    "a@x.com",
	})
	require.NoError(t, err)
	assert.True(t, out.LeadFound)
	assert.False(t, out.AlreadyPurchased)
	assert.Equal(t, "lead-1", out.LeadID)

	leads, _ := repo.List(context.Background())
	assert.True(t, leads[0].Purchased)
	assert.Equal(t, entity.SourceHubla, leads[0].CheckoutSource)
	q.AssertExpectations(t)
}

func TestConfirmSaleTwiceKeepsFirstPurchase(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0.Add(-time.Hour), false, false))
	q := &MockSaleQueue{}
	q.On("PublishSale", mock.Anything, mock.Anything).Return(nil)
	uc := newConfirmSale(t, repo, q, nil)

	ev := &SaleEvent{Provider: entity.SourceProprio, Approved: true, OrderID: "ord-1", Email: "a@x.com"}
	_, err := uc.Execute(context.Background(), ev)
	require.NoError(t, err)

	out, err := uc.Execute(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, out.AlreadyPurchased)
}

func TestConfirmSaleLeadNotFoundStillPublishes(t *testing.T) {
	_, repo := newLeadFixture()
	q := &MockSaleQueue{}
	q.On("PublishSale", mock.Anything, mock.MatchedBy(func(p queue.SalePayload) bool { return !p.LeadFound })).Return(nil).Once()

	out, err := newConfirmSale(t, repo, q, nil).Execute(context.Background(), &SaleEvent{
		Provider: entity.SourceHubla, Approved: true, OrderID: "ord-1", Email: "ninguem@x.com",
	})
	require.NoError(t, err)
	assert.False(t, out.LeadFound)
	q.AssertExpectations(t)
}

func TestConfirmSaleIgnoresOtherEvents(t *testing.T) {
	q := &MockSaleQueue{}
	out, err := newConfirmSale(t, nil, q, nil).Execute(context.Background(), &SaleEvent{
		Provider: entity.SourceProprio, Event: "purchase_refused",
	})
	require.NoError(t, err)
	assert.True(t, out.Ignored)
	q.AssertNotCalled(t, "PublishSale", mock.Anything, mock.Anything)
}

func TestConfirmSaleLooksUpCaktoOrder(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "", "11999998888", t0.Add(-time.Hour), false, false))

	orders := &MockOrderLookup{}
	order := &cakto.Order{ID: "ord-1", Amount: 97}
	order.Customer.Phone = "5511999998888"
	orders.On("GetOrder", mock.Anything, "ord-1").Return(order, nil).Once()

	q := &MockSaleQueue{}
	q.On("PublishSale", mock.Anything, mock.MatchedBy(func(p queue.SalePayload) bool {
		return p.Phone == "11999998888" && p.AmountCents == 9700
	})).Return(nil).Once()

	out, err := newConfirmSale(t, repo, q, orders).Execute(context.Background(), &SaleEvent{
		Provider: entity.SourceProprio, Approved: true, OrderID: "ord-1",
	})
	require.NoError(t, err)
	assert.True(t, out.LeadFound)
	orders.AssertExpectations(t)
	q.AssertExpectations(t)
}

func TestConfirmSaleWithoutBuyerIsValidationError(t *testing.T) {
	orders := &MockOrderLookup{}
	orders.On("GetOrder", mock.Anything, "ord-1").Return(nil, errors.New("timeout"))

	_, err := newConfirmSale(t, nil, &MockSaleQueue{}, orders).Execute(context.Background(), &SaleEvent{
		Provider: entity.SourceProprio, Approved: true, OrderID: "ord-1",
	})
	assert.True(t, IsDomainError(err))
}

func TestConfirmSaleQueueFailureDoesNotFail(t *testing.T) {
	_, repo := newLeadFixture(leadRow("lead-1", "Ana", "a@x.com", "11999998888", t0.Add(-time.Hour), false, false))
	q := &MockSaleQueue{}
	q.On("PublishSale", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	out, err := newConfirmSale(t, repo, q, nil).Execute(context.Background(), &SaleEvent{
		Provider: entity.SourceHubla, Approved: true, OrderID: "ord-1", Email: "a@x.com",
	})
	require.NoError(t, err)
	assert.True(t, out.LeadFound)
}

func TestConfirmSaleByPhoneMatchesLeadCapturedWithCountryCode(t *testing.T) {
	_, repo := newLeadFixture()
	q := &MockSaleQueue{}
	q.On("PublishSale", mock.Anything, mock.Anything).Return(nil)
	uc := newConfirmSale(t, repo, q, nil)

	_, err := uc.Leads.Capture(context.Background(), CaptureLeadInput{FirstName: "Ana", Phone: "+55 (11) 99999-8888"})
	require.NoError(t, err)

	ev, err := ParseSaleEvent([]byte(`{
		"type": "invoice.payment_succeeded",
		"event": {"invoice": {"id": "inv-9", "payer": {"phone": "+55 11 99999-8888"}}}
	}`), entity.SourceUnset)
	require.NoError(t, err)
	require.Empty(t, ev.Email)

	out, err := uc.Execute(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, out.LeadFound)

	leads, _ := repo.List(context.Background())
	require.Len(t, leads, 1)
	assert.Equal(t, "11999998888", leads[0].Phone)
	assert.True(t, leads[0].Purchased)
}
