package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SalePayload é a venda confirmada que vai para o ledger e para o e-mail de confirmação.
type SalePayload struct {
	OrderID     string    `json:"order_id"`
	Source      string    `json:"source"` // hubla | proprio
	Event       string    `json:"event"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Name        string    `json:"name"`
	Product     string    `json:"product"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	PaidAt      time.Time `json:"paid_at"`
	LeadFound   bool      `json:"lead_found"`
}

// SaleHandler processa uma venda tirada da fila (ou recebida direto do InlineProducer).
type SaleHandler interface {
	Execute(ctx context.Context, payload SalePayload) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishSale(ctx context.Context, payload SalePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.Source + ":" + payload.OrderID,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

// InlineProducer roda o consumidor na hora, sem fila. Usado quando não há RABBITMQ_URL.
type InlineProducer struct {
	Handler SaleHandler
}

func NewInlineProducer(h SaleHandler) *InlineProducer {
	return &InlineProducer{Handler: h}
}

func (p *InlineProducer) PublishSale(ctx context.Context, payload SalePayload) error {
	return p.Handler.Execute(ctx, payload)
}
