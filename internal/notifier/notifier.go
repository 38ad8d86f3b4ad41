// Package notifier manages best-effort settlement confirmations.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/pkg/errorspkg"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	confirmationSubject = "Payment Done!"
	routingKey          = "settlement.confirmed"
)

// Payload is the confirmation message sent to the notification transport.
type Payload struct {
	Source  string   `json:"source"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Channel is the amqp capability set needed to publish confirmations.
//
//go:generate mockgen -source notifier.go -destination notifier_mock.go -package notifier
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes settlement confirmations to a notification exchange.
//
// Delivery past the broker is best-effort from the ledger's perspective; a
// publish failure is surfaced to the caller after the financial transaction
// has already committed.
type AMQPNotifier struct {
	ch       Channel
	exchange string
}

// NewAMQPNotifier returns AMQPNotifier publishing to the given exchange.
func NewAMQPNotifier(ch Channel, exchange string) *AMQPNotifier {
	return &AMQPNotifier{
		ch:       ch,
		exchange: exchange,
	}
}

// Notify sends one confirmation to the receiver's contact address.
func (n *AMQPNotifier) Notify(ctx context.Context, s domain.Settlement) error {
	l := zerolog.Ctx(ctx)

	payload := Payload{
		Source:  s.SenderContact,
		To:      []string{s.ReceiverContact},
		Subject: confirmationSubject,
		Body: fmt.Sprintf("Hello, %s\n\nPayment has been successfully completed!\n\nYou have a balance of %s",
			s.SenderName, s.SenderBalance),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        raw,
	}

	if err := n.ch.PublishWithContext(ctx, n.exchange, routingKey, false, false, msg); err != nil {
		l.Error().Err(err).Str("outbox_id", s.OutboxID).Msg("cannot publish confirmation")
		return err
	}

	return nil
}
