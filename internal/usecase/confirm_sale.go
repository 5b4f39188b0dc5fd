package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/logger"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
)

type ConfirmSaleOutput struct {
	Ignored          bool   `json:"ignored,omitempty"`
	LeadFound        bool   `json:"lead_found"`
	AlreadyPurchased bool   `json:"already_purchased,omitempty"`
	LeadID           string `json:"lead_id,omitempty"`
}

// ConfirmSaleUseCase marca a compra na planilha de automação e publica a venda
// para o ledger.
type ConfirmSaleUseCase struct {
	Leads  *LeadLifecycle
	Queue  SaleQueue
	Orders OrderLookup
	tracer trace.Tracer
	log    *zap.Logger
	now    func() time.Time
}

func NewConfirmSaleUseCase(leads *LeadLifecycle, q SaleQueue, orders OrderLookup, log *zap.Logger) *ConfirmSaleUseCase {
	return &ConfirmSaleUseCase{
		Leads:  leads,
		Queue:  q,
		Orders: orders,
		tracer: otel.Tracer("quiz-funnel/usecase"),
		log:    log,
		now:    time.Now,
	}
}

func (uc *ConfirmSaleUseCase) Execute(ctx context.Context, ev *SaleEvent) (*ConfirmSaleOutput, error) {
	ctx, span := uc.tracer.Start(ctx, "confirm_sale", trace.WithAttributes(
		attribute.String("funnel.provider", string(ev.Provider)),
		attribute.String("funnel.event", ev.Event),
	))
	defer span.End()

	if !ev.Approved {
		uc.log.Info("⏭️ Evento de venda ignorado",
			zap.String("provider", string(ev.Provider)),
			zap.String("event", ev.Event))
		return &ConfirmSaleOutput{Ignored: true}, nil
	}

	if ev.Email == "" && ev.Phone == "" {
		uc.enrichFromOrder(ctx, ev)
	}
	if ev.Email == "" && ev.Phone == "" {
		return nil, NewValidationError([]ValidationError{{"email", "email or phone is required"}})
	}

	out := &ConfirmSaleOutput{}
	lead, changed, err := uc.Leads.MarkPurchased(ctx, ev.Email, ev.Phone, ev.Provider)
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		uc.log.Warn("🔍 Venda sem lead na planilha",
			zap.String("provider", string(ev.Provider)),
			zap.String("order_id", ev.OrderID),
			zap.String("email", logger.MaskEmail(ev.Email)))
	case err != nil:
		span.RecordError(err)
		return nil, err
	default:
		out.LeadFound = true
		out.LeadID = lead.ID
		out.AlreadyPurchased = !changed
		if ev.Name == "" {
			ev.Name = lead.FirstName
		}
	}
	span.SetAttributes(attribute.Bool("funnel.lead_found", out.LeadFound))

	payload := queue.SalePayload{
		OrderID:     ev.OrderID,
		Source:      string(ev.Provider),
		Event:       ev.Event,
		Email:       ev.Email,
		Phone:       ev.Phone,
		Name:        ev.Name,
		Product:     ev.Product,
		AmountCents: ev.AmountCents,
		Status:      ev.Status,
		PaidAt:      uc.now().UTC(),
		LeadFound:   out.LeadFound,
	}
	if err := uc.Queue.PublishSale(ctx, payload); err != nil {
		// compra já está na planilha; o ledger fica para reprocessamento manual
		uc.log.Error("⚠️ CRITICAL: compra marcada, mas falha ao publicar venda",
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
		span.RecordError(err)
	}

	return out, nil
}

func (uc *ConfirmSaleUseCase) enrichFromOrder(ctx context.Context, ev *SaleEvent) {
	if uc.Orders == nil || ev.OrderID == "" || ev.Provider != entity.SourceProprio {
		return
	}

	order, err := uc.Orders.GetOrder(ctx, ev.OrderID)
	if err != nil {
		uc.log.Warn("⚠️ Não foi possível consultar o pedido na Cakto",
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
		return
	}

	ev.Email = entity.NormalizeEmail(order.Customer.Email)
	ev.Phone = entity.LocalPhone(order.Customer.Phone)
	if ev.Name == "" {
		ev.Name = order.Customer.Name
	}
	if ev.Product == "" {
		ev.Product = order.Product.Name
	}
	if ev.AmountCents == 0 && order.Amount > 0 {
		ev.AmountCents = int64(math.Round(order.Amount * 100))
	}
}
