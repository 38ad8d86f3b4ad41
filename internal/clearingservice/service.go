// Package clearingservice manages business logic layer of payment clearance.
package clearingservice

import (
	"context"
	"errors"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger provides the data access capability set needed to settle one transfer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package clearingservice
type Ledger interface {
	GetOutbox(ctx context.Context, id string) (domain.OutboxRecord, error)
	GetAccounts(ctx context.Context, numbers []int64) ([]domain.Account, error)
	ApplyTransfer(ctx context.Context, arg domain.ApplyTransferParams) error
	MarkStatus(ctx context.Context, id string, status domain.OutboxStatus) error
}

// Store provides ledger access plus an atomic transaction scope.
//
// Operations invoked on the Ledger passed to the ExecTx closure commit or roll
// back together; operations invoked on the Store itself run outside any
// transaction.
type Store interface {
	Ledger
	ExecTx(ctx context.Context, fn func(Ledger) error) error
}

// Service facilitates clearance service layer logic.
type Service struct {
	store Store
}

// New returns clearing service struct to manage payment clearance logic.
func New(store Store) *Service {
	return &Service{
		store: store,
	}
}

// Clear settles the transfer identified by outboxID exactly once.
//
// The sender debit, the receiver credit and the COMPLETED status write execute
// inside one transaction, in that order. On any failure the transaction is
// rolled back, the outbox record is reverted to PENDING outside the rolled
// back transaction so a later redelivery can retry, and the error is returned
// to the caller.
func (s *Service) Clear(ctx context.Context, outboxID string) (domain.Settlement, error) {
	l := zerolog.Ctx(ctx)

	var settlement domain.Settlement

	err := s.store.ExecTx(ctx, func(ledger Ledger) error {
		rec, err := ledger.GetOutbox(ctx, outboxID)
		if err != nil {
			return err
		}

		if rec.Status != domain.StatusPending {
			return domain.ErrAlreadyCleared
		}

		amount, err := decimal.NewFromString(rec.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			l.Error().Err(err).Str("amount", rec.Amount).Send()
			return domain.ErrInvalidAmount
		}

		if rec.SenderAccount == rec.ReceiverAccount {
			return domain.ErrSameAccount
		}

		accounts, err := ledger.GetAccounts(ctx, []int64{rec.SenderAccount, rec.ReceiverAccount})
		if err != nil {
			return err
		}

		sender, receiver := accounts[0], accounts[1]

		senderBalance, err := decimal.NewFromString(sender.Balance)
		if err != nil {
			return err
		}

		senderReserved, err := decimal.NewFromString(sender.ReservedAmount)
		if err != nil {
			return err
		}

		receiverBalance, err := decimal.NewFromString(receiver.Balance)
		if err != nil {
			return err
		}

		newSenderBalance := senderBalance.Sub(amount)

		arg := domain.ApplyTransferParams{
			SenderAccount:   sender.AccountNumber,
			SenderBalance:   newSenderBalance.String(),
			SenderReserved:  senderReserved.Sub(amount).String(),
			ReceiverAccount: receiver.AccountNumber,
			ReceiverBalance: receiverBalance.Add(amount).String(),
		}

		if err := ledger.ApplyTransfer(ctx, arg); err != nil {
			return err
		}

		// The status write happens last so partial writes are never
		// observable in a committed state.
		if err := ledger.MarkStatus(ctx, outboxID, domain.StatusCompleted); err != nil {
			return err
		}

		settlement = domain.Settlement{
			OutboxID:        rec.ID,
			ReceiverContact: receiver.ContactAddress,
			SenderContact:   sender.ContactAddress,
			SenderName:      sender.DisplayName,
			SenderBalance:   newSenderBalance.String(),
		}

		return nil
	})

	if err != nil {
		// An already cleared record must never be flipped back to PENDING,
		// even when the error surfaces wrapped by the transaction scope.
		if !errors.Is(err, domain.ErrAlreadyCleared) {
			if revertErr := s.store.MarkStatus(ctx, outboxID, domain.StatusPending); revertErr != nil {
				l.Error().Err(revertErr).Str("outbox_id", outboxID).Msg("cannot revert outbox status")
			}
		}

		return domain.Settlement{}, err
	}

	return settlement, nil
}
