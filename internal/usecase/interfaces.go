package usecase

import (
	"context"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/integration/cakto"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
)

// Notifier entrega a mensagem de abandono de um canal (Zaia, WhatsApp).
type Notifier interface {
	Notify(ctx context.Context, lead entity.Lead) error
}

type SaleQueue interface {
	PublishSale(ctx context.Context, payload queue.SalePayload) error
}

type OrderLookup interface {
	GetOrder(ctx context.Context, id string) (*cakto.Order, error)
}

type EmailService interface {
	SendPurchaseConfirmation(to, name, product string) error
}
