package queue

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrDrop tells the consumer to reject a delivery without requeueing it.
var ErrDrop = errors.New("drop message")

// HandlerFunc processes one message body. Returning nil acks the delivery,
// ErrDrop (possibly wrapped) rejects it, any other error requeues it once.
type HandlerFunc func(ctx context.Context, body []byte) error

type Consumer struct {
	conn     *amqp.Connection
	queue    string
	prefetch int
	log      *zap.Logger
}

func NewConsumer(conn *amqp.Connection, queue string, prefetch int, log *zap.Logger) *Consumer {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Consumer{conn: conn, queue: queue, prefetch: prefetch, log: log}
}

// Run consumes until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err := DeclareQueue(ch, c.queue); err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	c.log.Sugar().Infow("consumer started", "queue", c.queue, "prefetch", c.prefetch)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.dispatch(ctx, d, handle)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery, handle HandlerFunc) {
	err := handle(ctx, d.Body)
	switch {
	case err == nil:
		if aerr := d.Ack(false); aerr != nil {
			c.log.Sugar().Warnw("ack failed", "message_id", d.MessageId, "err", aerr)
		}
	case errors.Is(err, ErrDrop) || d.Redelivered:
		c.log.Sugar().Errorw("message dropped", "queue", c.queue, "message_id", d.MessageId, "err", err)
		_ = d.Reject(false)
	default:
		c.log.Sugar().Warnw("message requeued", "queue", c.queue, "message_id", d.MessageId, "err", err)
		_ = d.Nack(false, true)
	}
}
