// Package ledgerrepo manages repository layer of the clearance ledger.
package ledgerrepo

import (
	"context"
	"database/sql"

	"github.com/clearops/clearanced/internal/domain"
	"github.com/clearops/clearanced/pkg/dbpkg"
	"github.com/clearops/clearanced/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates ledger repository layer logic.
//
// It holds no transaction state between calls; all mutation operations run
// against whatever SQLInterface they are bound to, which is a *sql.Tx inside
// the clearing transaction.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns ledger RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const getOutboxQuery = `
SELECT
	id, amount, sender_account, receiver_account, status, created_at
FROM outbox
WHERE id = $1
`

// GetOutbox returns the outbox record with the given id.
func (r *RepoPGS) GetOutbox(ctx context.Context, id string) (domain.OutboxRecord, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getOutboxQuery, id)

	var o domain.OutboxRecord

	err := row.Scan(
		&o.ID,
		&o.Amount,
		&o.SenderAccount,
		&o.ReceiverAccount,
		&o.Status,
		&o.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return o, domain.ErrOutboxNotFound
		}

		return o, errorspkg.ErrInternal
	}

	return o, nil
}

const getAccountsQuery = `
SELECT
	account_number, balance, reserved_amount, display_name, contact_address, account_kind, created_at
FROM accounts
WHERE account_number = ANY($1)
ORDER BY account_number
FOR UPDATE
`

// GetAccounts returns the accounts with the given numbers in request order.
//
// All accounts are fetched in a single round trip. Rows are locked in sorted
// account number order so concurrent transfers touching the same accounts
// cannot deadlock; the whole call fails if any account is missing.
func (r *RepoPGS) GetAccounts(ctx context.Context, numbers []int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, getAccountsQuery, pq.Array(numbers))
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	found := make(map[int64]domain.Account, len(numbers))

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.AccountNumber,
			&a.Balance,
			&a.ReservedAmount,
			&a.DisplayName,
			&a.ContactAddress,
			&a.AccountKind,
			&a.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		found[a.AccountNumber] = a
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	items := make([]domain.Account, 0, len(numbers))

	for _, n := range numbers {
		a, ok := found[n]
		if !ok {
			l.Error().Int64("account_number", n).Msg("account not found")
			return nil, domain.ErrAccountNotFound
		}

		items = append(items, a)
	}

	return items, nil
}

const debitAccountQuery = `
UPDATE accounts
SET balance = $1, reserved_amount = $2
WHERE account_number = $3
`

const creditAccountQuery = `
UPDATE accounts
SET balance = $1
WHERE account_number = $2
`

// ApplyTransfer writes the sender debit and then the receiver credit.
//
// The debit always executes before the credit; both statements must run inside
// the same caller-scoped transaction to commit together.
func (r *RepoPGS) ApplyTransfer(ctx context.Context, arg domain.ApplyTransferParams) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, debitAccountQuery, arg.SenderBalance, arg.SenderReserved, arg.SenderAccount)
	if err != nil {
		l.Error().Err(err).Msgf("ApplyTransfer(ctx, %+v) debit", arg)
		return errorspkg.ErrInternal
	}

	if err := requireOneRow(res, domain.ErrAccountNotFound); err != nil {
		l.Error().Err(err).Int64("account_number", arg.SenderAccount).Send()
		return err
	}

	res, err = r.db.ExecContext(ctx, creditAccountQuery, arg.ReceiverBalance, arg.ReceiverAccount)
	if err != nil {
		l.Error().Err(err).Msgf("ApplyTransfer(ctx, %+v) credit", arg)
		return errorspkg.ErrInternal
	}

	if err := requireOneRow(res, domain.ErrAccountNotFound); err != nil {
		l.Error().Err(err).Int64("account_number", arg.ReceiverAccount).Send()
		return err
	}

	return nil
}

const markStatusQuery = `
UPDATE outbox
SET status = $1
WHERE id = $2
`

// MarkStatus sets the status of the outbox record with the given id.
func (r *RepoPGS) MarkStatus(ctx context.Context, id string, status domain.OutboxStatus) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, markStatusQuery, status, id)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err := requireOneRow(res, domain.ErrOutboxNotFound); err != nil {
		l.Error().Err(err).Str("outbox_id", id).Send()
		return err
	}

	return nil
}

func requireOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return missing
	}

	return nil
}
