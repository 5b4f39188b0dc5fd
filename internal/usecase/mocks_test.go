package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/database"
	"github.com/xavierca1/quiz-funnel/internal/infra/integration/cakto"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
)

const leadSheet = "Automacao"

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, lead entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockSaleQueue
type MockSaleQueue struct {
	mock.Mock
}

func (m *MockSaleQueue) PublishSale(ctx context.Context, p queue.SalePayload) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockOrderLookup
type MockOrderLookup struct {
	mock.Mock
}

func (m *MockOrderLookup) GetOrder(ctx context.Context, id string) (*cakto.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cakto.Order), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPurchaseConfirmation(to, name, product string) error {
	args := m.Called(to, name, product)
	return args.Error(0)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// leadRow monta uma linha da aba de automação no layout da planilha.
func leadRow(id, name, email, phone string, created time.Time, purchased, zaia bool) []string {
	return database.LeadToRow(&entity.Lead{
		ID:        id,
		FirstName: name,
		Email:     email,
		Phone:     phone,
		CreatedAt: created,
		Purchased: purchased,
		ZaiaSent:  zaia,
	})
}

func newLeadFixture(rows ...[]string) (*database.MemoryStore, *database.LeadRepository) {
	store := database.NewMemoryStore()
	store.Seed(leadSheet, rows...)
	return store, database.NewLeadRepository(store, leadSheet)
}
