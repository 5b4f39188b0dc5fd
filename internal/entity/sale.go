package entity

import (
	"context"
	"time"
)

// Sale é uma linha da planilha de vendas (ledger).
type Sale struct {
	OrderID     string         `json:"order_id"`
	Source      CheckoutSource `json:"source"`
	Event       string         `json:"event"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Name        string         `json:"name"`
	Product     string         `json:"product"`
	AmountCents int64          `json:"amount_cents"`
	Status      string         `json:"status"`
	PaidAt      time.Time      `json:"paid_at"`
	RecordedAt  time.Time      `json:"recorded_at"`
}

var SaleHeader = []string{
	"order_id", "source", "event", "email", "phone", "name",
	"product", "amount_cents", "status", "paid_at", "recorded_at",
}

type SaleRepositoryInterface interface {
	List(ctx context.Context) ([]Sale, error)
	// AppendIfAbsent devolve false quando (source, order_id) já estava no ledger.
	AppendIfAbsent(ctx context.Context, sale *Sale) (bool, error)
}
