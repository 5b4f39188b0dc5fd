package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/database"
)

func TestDashboardAggregates(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	day5 := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)

	store := database.NewMemoryStore()
	leadRepo := database.NewLeadRepository(store, "Automacao")
	quizRepo := database.NewQuizRepository(store, "Respostas")
	saleRepo := database.NewSaleRepository(store, "Vendas")

	for _, l := range []entity.Lead{
		{ID: "1", Email: "a@x.com", CreatedAt: day1, Purchased: true, CheckoutSource: entity.SourceHubla, ZaiaSent: true},
		{ID: "2", Email: "b@x.com", CreatedAt: day2, Purchased: true, CheckoutSource: entity.SourceProprio},
		{ID: "3", Email: "c@x.com", CreatedAt: day2, RecoverySent: true},
		{ID: "4", Email: "d@x.com", CreatedAt: day5},
	} {
		l := l
		require.NoError(t, leadRepo.Append(ctx, &l))
	}
	_, err := quizRepo.Upsert(ctx, &entity.QuizSubmission{LeadID: "1", CreatedAt: day1})
	require.NoError(t, err)
	_, err = saleRepo.AppendIfAbsent(ctx, &entity.Sale{OrderID: "o1", Source: entity.SourceHubla, AmountCents: 4990, PaidAt: day1})
	require.NoError(t, err)
	_, err = saleRepo.AppendIfAbsent(ctx, &entity.Sale{OrderID: "o2", Source: entity.SourceProprio, AmountCents: 9790, PaidAt: day5})
	require.NoError(t, err)

	uc := NewDashboardUseCase(leadRepo, quizRepo, saleRepo)

	t.Run("sem filtro", func(t *testing.T) {
		out, err := uc.Execute(ctx, DashboardInput{})
		require.NoError(t, err)
		assert.Equal(t, 4, out.TotalLeads)
		assert.Equal(t, 2, out.Purchased)
		assert.InDelta(t, 0.5, out.ConversionRate, 0.0001)
		assert.Equal(t, 1, out.ZaiaSent)
		assert.Equal(t, 1, out.RecoverySent)
		assert.Equal(t, 1, out.BySource[entity.SourceHubla])
		assert.Equal(t, 1, out.BySource[entity.SourceProprio])
		assert.Equal(t, 2, out.SalesCount)
		assert.Equal(t, int64(14780), out.RevenueCents)
		assert.Equal(t, 1, out.QuizCompleted)
		assert.Equal(t, []DayCount{{"2026-03-01", 1}, {"2026-03-02", 2}, {"2026-03-05", 1}}, out.LeadsPerDay)
	})

	t.Run("com filtro inclui o dia final inteiro", func(t *testing.T) {
		in, errs := ParseDateFilter("2026-03-01", "2026-03-02")
		require.Empty(t, errs)

		out, err := uc.Execute(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 3, out.TotalLeads)
		assert.Equal(t, 1, out.SalesCount)
		assert.Equal(t, int64(4990), out.RevenueCents)
	})
}

func TestParseDateFilterErrors(t *testing.T) {
	_, errs := ParseDateFilter("01/03/2026", "")
	require.Len(t, errs, 1)
	assert.Equal(t, "from", errs[0].Field)

	_, errs = ParseDateFilter("2026-03-05", "2026-03-01")
	require.Len(t, errs, 1)
	assert.Equal(t, "to", errs[0].Field)
}
