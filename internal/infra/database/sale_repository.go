package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type SaleRepository struct {
	Store entity.RowStore
	Sheet string
}

func NewSaleRepository(store entity.RowStore, sheet string) *SaleRepository {
	return &SaleRepository{Store: store, Sheet: sheet}
}

func (r *SaleRepository) List(ctx context.Context) ([]entity.Sale, error) {
	rows, err := r.Store.ReadRows(ctx, r.Sheet)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler aba %s: %w", r.Sheet, err)
	}

	sales := make([]entity.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, saleFromRow(row))
	}
	return sales, nil
}

func (r *SaleRepository) AppendIfAbsent(ctx context.Context, sale *entity.Sale) (bool, error) {
	if sale.OrderID != "" {
		sales, err := r.List(ctx)
		if err != nil {
			return false, err
		}
		for _, s := range sales {
			if s.OrderID == sale.OrderID && s.Source == sale.Source {
				return false, nil
			}
		}
	}

	if err := r.Store.AppendRow(ctx, r.Sheet, saleToRow(sale)); err != nil {
		return false, fmt.Errorf("erro ao registrar venda %s: %w", sale.OrderID, err)
	}
	return true, nil
}

func saleFromRow(row []string) entity.Sale {
	s := entity.Sale{
		OrderID: entity.Cell(row, 0),
		Source:  entity.ParseCheckoutSource(entity.Cell(row, 1)),
		Event:   entity.Cell(row, 2),
		Email:   entity.Cell(row, 3),
		Phone:   entity.Cell(row, 4),
		Name:    entity.Cell(row, 5),
		Product: entity.Cell(row, 6),
		Status:  entity.Cell(row, 8),
	}
	s.AmountCents, _ = strconv.ParseInt(entity.Cell(row, 7), 10, 64)
	s.PaidAt, _ = entity.ParseTime(entity.Cell(row, 9))
	s.RecordedAt, _ = entity.ParseTime(entity.Cell(row, 10))
	return s
}

func saleToRow(s *entity.Sale) []string {
	return []string{
		s.OrderID,
		string(s.Source),
		s.Event,
		s.Email,
		s.Phone,
		s.Name,
		s.Product,
		strconv.FormatInt(s.AmountCents, 10),
		s.Status,
		entity.FormatTime(s.PaidAt),
		entity.FormatTime(s.RecordedAt),
	}
}
