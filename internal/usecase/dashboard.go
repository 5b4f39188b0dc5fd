package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type DashboardUseCase struct {
	Leads entity.LeadRepositoryInterface
	Quiz  entity.QuizRepositoryInterface
	Sales entity.SaleRepositoryInterface
}

func NewDashboardUseCase(leads entity.LeadRepositoryInterface, quiz entity.QuizRepositoryInterface, sales entity.SaleRepositoryInterface) *DashboardUseCase {
	return &DashboardUseCase{Leads: leads, Quiz: quiz, Sales: sales}
}

// inRange considera "to" como o dia inteiro.
func (in DashboardInput) inRange(t time.Time) bool {
	if in.From == nil && in.To == nil {
		return true
	}
	if t.IsZero() {
		return false
	}
	if in.From != nil && t.Before(*in.From) {
		return false
	}
	if in.To != nil && !t.Before(in.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (uc *DashboardUseCase) Execute(ctx context.Context, input DashboardInput) (*DashboardOutput, error) {
	leads, err := uc.Leads.List(ctx)
	if err != nil {
		return nil, storageError("falha ao ler leads", err)
	}
	quiz, err := uc.Quiz.List(ctx)
	if err != nil {
		return nil, storageError("falha ao ler respostas do quiz", err)
	}
	sales, err := uc.Sales.List(ctx)
	if err != nil {
		return nil, storageError("falha ao ler vendas", err)
	}

	out := &DashboardOutput{BySource: map[entity.CheckoutSource]int{}}
	perDay := map[string]int{}

	for _, l := range leads {
		if !input.inRange(l.CreatedAt) {
			continue
		}
		out.TotalLeads++
		if l.Purchased {
			out.Purchased++
			src := l.CheckoutSource
			if src == entity.SourceUnset {
				src = "unknown"
			}
			out.BySource[src]++
		}
		if l.ZaiaSent {
			out.ZaiaSent++
		}
		if l.RecoverySent {
			out.RecoverySent++
		}
		if !l.CreatedAt.IsZero() {
			perDay[l.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}
	if out.TotalLeads > 0 {
		out.ConversionRate = float64(out.Purchased) / float64(out.TotalLeads)
	}

	for _, s := range sales {
		if !input.inRange(s.PaidAt) {
			continue
		}
		out.SalesCount++
		out.RevenueCents += s.AmountCents
	}

	for _, q := range quiz {
		if input.inRange(q.CreatedAt) {
			out.QuizCompleted++
		}
	}

	out.LeadsPerDay = make([]DayCount, 0, len(perDay))
	for d, n := range perDay {
		out.LeadsPerDay = append(out.LeadsPerDay, DayCount{Date: d, Count: n})
	}
	sort.Slice(out.LeadsPerDay, func(i, j int) bool {
		return out.LeadsPerDay[i].Date < out.LeadsPerDay[j].Date
	})

	return out, nil
}
