// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/pkg/dbpkg"
	"github.com/clearops/clearanced/pkg/randompkg"
)

const seedAccountQuery = `
INSERT INTO
    accounts (account_number, balance, reserved_amount, display_name, contact_address, account_kind)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING created_at
`

// SeedAccount creates an account with the given balances inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, balance, reserved string) domain.Account {
	t.Helper()

	a := domain.Account{
		AccountNumber:  randompkg.AccountNumber(),
		Balance:        balance,
		ReservedAmount: reserved,
		DisplayName:    randompkg.Name(),
		ContactAddress: randompkg.Email(),
		AccountKind:    "CHECKING",
	}

	row := tx.QueryRowContext(context.Background(), seedAccountQuery,
		a.AccountNumber, a.Balance, a.ReservedAmount, a.DisplayName, a.ContactAddress, a.AccountKind)

	if err := row.Scan(&a.CreatedAt); err != nil {
		t.Fatalf("seeding account %+v returned error: %v", a, err)
	}

	return a
}

const seedOutboxQuery = `
INSERT INTO
    outbox (id, amount, sender_account, receiver_account, status)
VALUES
    ($1, $2, $3, $4, $5)
RETURNING created_at
`

// SeedOutbox creates a PENDING outbox record inside a test transaction.
func SeedOutbox(t *testing.T, tx dbpkg.SQLInterface, amount string, sender, receiver int64) domain.OutboxRecord {
	t.Helper()

	o := domain.OutboxRecord{
		ID:              randompkg.TransferID(),
		Amount:          amount,
		SenderAccount:   sender,
		ReceiverAccount: receiver,
		Status:          domain.StatusPending,
	}

	row := tx.QueryRowContext(context.Background(), seedOutboxQuery,
		o.ID, o.Amount, o.SenderAccount, o.ReceiverAccount, o.Status)

	if err := row.Scan(&o.CreatedAt); err != nil {
		t.Fatalf("seeding outbox %+v returned error: %v", o, err)
	}

	return o
}
