package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Worker struct {
	Channel *amqp.Channel
	Handler SaleHandler
	log     *zap.Logger
}

func NewWorker(ch *amqp.Channel, handler SaleHandler, log *zap.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
		log:     log,
	}
}

// Start registra o consumidor e processa até o ctx acabar ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.log.Info("👂 Worker aguardando vendas", zap.String("queue", queueName))
	w.Run(ctx, msgs)
	return nil
}

func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("⚠️ Worker de vendas encerrado")
			return
		case d, ok := <-msgs:
			if !ok {
				w.log.Warn("⚠️ Canal de entregas fechado")
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload SalePayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.log.Error("❌ [WORKER] JSON inválido", zap.Error(err))
		// mensagem malformada vai para a DLQ, sem requeue
		d.Nack(false, false)
		return
	}

	if err := w.Handler.Execute(ctx, payload); err != nil {
		w.log.Error("❌ [WORKER] Falha ao registrar venda",
			zap.String("order_id", payload.OrderID),
			zap.String("source", payload.Source),
			zap.Error(err))
		d.Nack(false, false)
		return
	}

	w.log.Info("✅ [WORKER] Venda registrada",
		zap.String("order_id", payload.OrderID),
		zap.String("source", payload.Source))
	d.Ack(false)
}
