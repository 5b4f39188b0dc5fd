package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// LeadRepository é o adaptador da aba de automação. Toda leitura percorre a aba inteira;
// não existe índice nem cache local.
type LeadRepository struct {
	Store entity.RowStore
	Sheet string
}

func NewLeadRepository(store entity.RowStore, sheet string) *LeadRepository {
	return &LeadRepository{Store: store, Sheet: sheet}
}

func (r *LeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.Store.ReadRows(ctx, r.Sheet)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler aba %s: %w", r.Sheet, err)
	}

	leads := make([]entity.Lead, len(rows))
	for i, row := range rows {
		leads[i] = LeadFromRow(row)
	}
	return leads, nil
}

func (r *LeadRepository) Find(ctx context.Context, email, phone string) (*entity.Lead, int, error) {
	leads, err := r.List(ctx)
	if err != nil {
		return nil, -1, err
	}

	i := entity.FindLeadIndex(leads, email, phone)
	if i < 0 {
		return nil, -1, entity.ErrLeadNotFound
	}
	return &leads[i], i, nil
}

func (r *LeadRepository) Append(ctx context.Context, lead *entity.Lead) error {
	if err := r.Store.AppendRow(ctx, r.Sheet, LeadToRow(lead)); err != nil {
		return fmt.Errorf("erro ao inserir lead %s: %w", lead.ID, err)
	}
	return nil
}

func (r *LeadRepository) UpdateCells(ctx context.Context, index int, cells map[entity.LeadColumn]string) error {
	if len(cells) == 0 {
		return nil
	}
	raw := make(map[int]string, len(cells))
	for col, v := range cells {
		raw[int(col)] = v
	}
	if err := r.Store.UpdateCells(ctx, r.Sheet, index, raw); err != nil {
		return fmt.Errorf("erro ao atualizar linha %d de %s: %w", index, r.Sheet, err)
	}
	return nil
}

func LeadFromRow(row []string) entity.Lead {
	l := entity.Lead{
		ID:             entity.Cell(row, int(entity.ColLeadID)),
		FirstName:      entity.Cell(row, int(entity.ColFirstName)),
		Email:          entity.Cell(row, int(entity.ColEmail)),
		Phone:          entity.Cell(row, int(entity.ColPhone)),
		Purchased:      entity.ParseBool(entity.Cell(row, int(entity.ColPurchased))),
		ZaiaSent:       entity.ParseBool(entity.Cell(row, int(entity.ColZaiaSent))),
		CheckoutSource: entity.ParseCheckoutSource(entity.Cell(row, int(entity.ColCheckoutSource))),
		RecoverySent:   entity.ParseBool(entity.Cell(row, int(entity.ColRecoverySent))),
	}
	if t, ok := entity.ParseTime(entity.Cell(row, int(entity.ColCreatedAt))); ok {
		l.CreatedAt = t
	}
	if t, ok := entity.ParseTime(entity.Cell(row, int(entity.ColPurchaseAt))); ok {
		l.PurchaseAt = &t
	}
	return l
}

func LeadToRow(l *entity.Lead) []string {
	row := make([]string, entity.LeadColumnCount)
	row[entity.ColLeadID] = l.ID
	row[entity.ColFirstName] = l.FirstName
	row[entity.ColEmail] = l.Email
	row[entity.ColPhone] = l.Phone
	row[entity.ColCreatedAt] = entity.FormatTime(l.CreatedAt)
	row[entity.ColPurchased] = entity.FormatBool(l.Purchased)
	row[entity.ColZaiaSent] = entity.FormatBool(l.ZaiaSent)
	row[entity.ColCheckoutSource] = string(l.CheckoutSource)
	if l.PurchaseAt != nil {
		row[entity.ColPurchaseAt] = entity.FormatTime(*l.PurchaseAt)
	}
	row[entity.ColRecoverySent] = entity.FormatBool(l.RecoverySent)
	return row
}
