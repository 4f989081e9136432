package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/haim/bookstore-api/internal/model"
	"github.com/haim/bookstore-api/internal/repository"
)

const (
	orderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

// ReceiptWorker consumes order-created events and writes a receipt row for
// each order exactly once. Redis is a fast-path dedupe; the unique constraint
// on receipts.order_id is the authority.
type ReceiptWorker struct {
	channel     *amqp.Channel
	receipts    repository.ReceiptRepository
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewReceiptWorker(ch *amqp.Channel, receipts repository.ReceiptRepository, redisClient *redis.Client, log *slog.Logger) *ReceiptWorker {
	return &ReceiptWorker{
		channel:     ch,
		receipts:    receipts,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *ReceiptWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("receipt worker started")
	return nil
}

func (w *ReceiptWorker) Stop() { close(w.done) }

func (w *ReceiptWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var orderMsg model.OrderMessage
	if err := json.Unmarshal(msg.Body, &orderMsg); err != nil {
		w.log.Error("unmarshal order message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", orderMsg.OrderID, "user_id", orderMsg.UserID)

	idempotencyKey := "receipt_recorded:" + orderMsg.OrderID.String()
	if w.redisClient != nil {
		exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
		if err != nil {
			log.Error("check idempotency key", "error", err)
			_ = msg.Nack(false, true)
			return
		}
		if exists > 0 {
			log.Info("receipt already recorded, skipping")
			_ = msg.Ack(false)
			return
		}
	}

	receipt := &model.Receipt{OrderID: orderMsg.OrderID, UserID: orderMsg.UserID}
	err := w.receipts.Create(ctx, receipt)
	switch {
	case errors.Is(err, repository.ErrDuplicateReceipt):
		log.Info("receipt already recorded, skipping")
	case err != nil:
		log.Error("create receipt", "error", err)
		_ = msg.Nack(false, true)
		return
	default:
		log.Info("order receipt recorded", "receipt_id", receipt.ID)
	}

	if w.redisClient != nil {
		if err := w.redisClient.Set(ctx, idempotencyKey, 1, idempotencyTTL).Err(); err != nil {
			log.Error("set idempotency key", "error", err)
		}
	}
	_ = msg.Ack(false)
}
