package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	dlxExchange = "clearance.dlx"
	// deliveryLimit bounds redeliveries before the broker moves the message
	// to the dead-letter queue. The worker never counts attempts itself.
	deliveryLimit = 5
)

// SetupTopology declares the consume queue, its dead-letter exchange and the
// dead-letter queue. The queue is a quorum queue so the broker tracks the
// delivery count and enforces the delivery limit.
func SetupTopology(ch *amqp.Channel, queue string) error {
	if err := ch.ExchangeDeclare(dlxExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(queue+".dlq", true, false, false, false, nil); err != nil {
		return err
	}

	if err := ch.QueueBind(queue+".dlq", "#", dlxExchange, false, nil); err != nil {
		return err
	}

	_, err := ch.QueueDeclare(queue, true, false, false, false, amqp.Table{
		"x-queue-type":           "quorum",
		"x-dead-letter-exchange": dlxExchange,
		"x-delivery-limit":       int32(deliveryLimit),
	})

	return err
}

// ProcessFunc handles one message and reports the per-attempt outcome.
type ProcessFunc func(ctx context.Context, msg Message) Outcome

// Consumer receives deliveries from one queue and processes each message as an
// independent unit of work, up to the configured concurrency bound.
type Consumer struct {
	ch          *amqp.Channel
	queue       string
	concurrency int
	logger      zerolog.Logger
	metrics     *Metrics
	process     ProcessFunc
}

// New returns a Consumer draining the given queue.
func New(ch *amqp.Channel, queue string, concurrency int, logger zerolog.Logger, metrics *Metrics, process ProcessFunc) *Consumer {
	return &Consumer{
		ch:          ch,
		queue:       queue,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
		process:     process,
	}
}

// Run consumes until the context is cancelled or the channel closes.
//
// Prefetch equals the concurrency bound so the broker never hands the worker
// more in-flight messages than it can process.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.concurrency, 0, false); err != nil {
		return err
	}

	deliveries, err := c.ch.Consume(c.queue, "clearanced", false, false, false, false, nil)
	if err != nil {
		return err
	}

	sem := make(chan struct{}, c.concurrency)

	var wg sync.WaitGroup

	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}

			sem <- struct{}{}

			wg.Add(1)

			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()

				c.handle(ctx, d)
			}(d)
		}
	}
}

// handle processes a single delivery and emits exactly one outcome for it.
func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	msg := Message{
		Body:         string(d.Body),
		ReceiveCount: receiveCount(d),
	}

	logger := c.logger.With().
		Str("message_id", uuid.NewString()).
		Str("outbox_id", msg.Body).
		Int64("receive_count", msg.ReceiveCount).
		Logger()

	ctx = logger.WithContext(ctx)

	start := time.Now()
	outcome := c.safeProcess(ctx, msg)
	elapsed := time.Since(start)

	c.metrics.Observe(outcome, elapsed)

	switch outcome {
	case Ack:
		if err := d.Ack(false); err != nil {
			logger.Error().Err(err).Msg("cannot ack message")
			return
		}

		logger.Info().Str("latency", elapsed.String()).Msg("message acknowledged")

	default:
		if err := d.Nack(false, true); err != nil {
			logger.Error().Err(err).Msg("cannot nack message")
			return
		}

		logger.Warn().Str("latency", elapsed.String()).Msg("message requeued")
	}
}

func (c *Consumer) safeProcess(ctx context.Context, msg Message) (outcome Outcome) {
	defer func() {
		if panicVal := recover(); panicVal != nil {
			zerolog.Ctx(ctx).Error().Msgf("panic message: %v", panicVal)
			outcome = Requeue
		}
	}()

	return c.process(ctx, msg)
}

// receiveCount extracts the broker-maintained delivery count. Quorum queues
// stamp x-delivery-count starting from the first redelivery.
func receiveCount(d amqp.Delivery) int64 {
	if v, ok := d.Headers["x-delivery-count"]; ok {
		switch n := v.(type) {
		case int32:
			return int64(n) + 1
		case int64:
			return n + 1
		}
	}

	return 1
}
