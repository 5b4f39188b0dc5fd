package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
)

// RecordSaleUseCase é o consumidor da fila: grava o ledger de vendas e manda o
// e-mail de confirmação.
type RecordSaleUseCase struct {
	Sales        entity.SaleRepositoryInterface
	EmailService EmailService
	log          *zap.Logger
	now          func() time.Time
}

func NewRecordSaleUseCase(sales entity.SaleRepositoryInterface, email EmailService, log *zap.Logger) *RecordSaleUseCase {
	return &RecordSaleUseCase{
		Sales:        sales,
		EmailService: email,
		log:          log,
		now:          time.Now,
	}
}

func (uc *RecordSaleUseCase) Execute(ctx context.Context, p queue.SalePayload) error {
	sale := &entity.Sale{
		OrderID:     p.OrderID,
		Source:      entity.ParseCheckoutSource(p.Source),
		Event:       p.Event,
		Email:       p.Email,
		Phone:       p.Phone,
		Name:        p.Name,
		Product:     p.Product,
		AmountCents: p.AmountCents,
		Status:      p.Status,
		PaidAt:      p.PaidAt,
		RecordedAt:  uc.now().UTC(),
	}

	added, err := uc.Sales.AppendIfAbsent(ctx, sale)
	if err != nil {
		return storageError("falha ao gravar venda no ledger", err)
	}
	if !added {
		uc.log.Info("🔁 Venda já registrada no ledger",
			zap.String("order_id", p.OrderID),
			zap.String("source", p.Source))
		return nil
	}

	if uc.EmailService == nil || p.Email == "" {
		return nil
	}
	// falha de e-mail não devolve a mensagem para a fila, senão o ledger duplicaria
	if err := uc.EmailService.SendPurchaseConfirmation(p.Email, p.Name, p.Product); err != nil {
		uc.log.Warn("⚠️ Falha ao enviar e-mail de confirmação",
			zap.String("order_id", p.OrderID),
			zap.Error(err))
	}
	return nil
}
