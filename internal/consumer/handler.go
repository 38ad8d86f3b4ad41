// Package consumer drives the clearance pipeline for inbound queue messages.
package consumer

import (
	"context"
	"errors"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/internal/idemgate"
	"github.com/rs/zerolog"
)

// Message is one inbound delivery notification. The body carries the transfer
// identifier; the receive count is supplied by the queue infrastructure.
type Message struct {
	Body         string
	ReceiveCount int64
}

// Outcome is the per-attempt signal sent back to the queue.
type Outcome int

const (
	// Ack removes the message from the queue.
	Ack Outcome = iota
	// Requeue leaves the message unacknowledged so the queue redelivers it
	// until the broker's delivery limit diverts it to the dead-letter queue.
	Requeue
)

// Gate provides at-most-once admission per logical transfer.
//
//go:generate mockgen -source handler.go -destination handler_mock.go -package consumer
type Gate interface {
	Admit(ctx context.Context, key string) (idemgate.Outcome, error)
	Commit(ctx context.Context, key string, settlement domain.Settlement) error
	Release(ctx context.Context, key string) error
}

// Clearer settles one transfer atomically.
type Clearer interface {
	Clear(ctx context.Context, outboxID string) (domain.Settlement, error)
}

// Notifier sends the best-effort settlement confirmation.
type Notifier interface {
	Notify(ctx context.Context, settlement domain.Settlement) error
}

// Handler runs the idempotency gate, the clearing engine and the notification
// dispatcher for one message.
type Handler struct {
	gate     Gate
	clearer  Clearer
	notifier Notifier
}

// NewHandler returns a Handler driving the given pipeline stages.
func NewHandler(gate Gate, clearer Clearer, notifier Notifier) *Handler {
	return &Handler{
		gate:     gate,
		clearer:  clearer,
		notifier: notifier,
	}
}

// Process handles one message and decides acknowledge versus redeliver.
//
// Redelivery of an already settled transfer skips re-clearing through the
// gate's cached result but still attempts the notification, so a transient
// notification failure is retried by queue redelivery.
func (h *Handler) Process(ctx context.Context, msg Message) Outcome {
	l := zerolog.Ctx(ctx)

	outboxID := msg.Body
	if outboxID == "" {
		l.Error().Msg("message carries no transfer identifier")
		return Requeue
	}

	key := idemgate.KeyFor(outboxID)

	adm, err := h.gate.Admit(ctx, key)
	if err != nil {
		return Requeue
	}

	var settlement domain.Settlement

	switch adm.Decision {
	case idemgate.AlreadyInProgress:
		l.Info().Msg("concurrent duplicate delivery, deferring")
		return Requeue

	case idemgate.AlreadyComplete:
		settlement = adm.Cached

	default:
		settlement, err = h.clearer.Clear(ctx, outboxID)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyCleared) {
				// The ledger settled this transfer but the gate lost the
				// cached result. Nothing to re-apply; the confirmation for
				// the original attempt is not reconstructable.
				l.Warn().Msg("outbox record already settled")
				h.releaseKey(ctx, key)

				return Ack
			}

			h.releaseKey(ctx, key)

			return Requeue
		}

		if err := h.gate.Commit(ctx, key, settlement); err != nil {
			// The financial transaction committed. Releasing is safe because
			// the clearing engine refuses to settle a COMPLETED record twice.
			h.releaseKey(ctx, key)

			return Requeue
		}
	}

	if err := h.notifier.Notify(ctx, settlement); err != nil {
		return Requeue
	}

	return Ack
}

func (h *Handler) releaseKey(ctx context.Context, key string) {
	if err := h.gate.Release(ctx, key); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("key", key).Msg("cannot release idempotency key")
	}
}
