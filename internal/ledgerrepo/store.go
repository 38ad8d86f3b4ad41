package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clearops/clearanced/internal/clearingservice"
)

// StorePGS provides ledger queries plus transaction scope over a shared
// connection pool. It implements clearingservice.Store.
type StorePGS struct {
	*RepoPGS
	conn *sql.DB
}

// NewStorePGS returns a ledger store bound to the given pool.
func NewStorePGS(db *sql.DB) *StorePGS {
	return &StorePGS{
		RepoPGS: NewRepoPGS(db),
		conn:    db,
	}
}

// ExecTx executes fn within a database transaction.
//
// The Ledger passed to fn is bound to the transaction; all writes issued
// through it commit together or none do.
func (s *StorePGS) ExecTx(ctx context.Context, fn func(clearingservice.Ledger) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(NewRepoPGS(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			// Keep the fn error unwrappable so callers can still match
			// domain sentinels when the rollback itself fails.
			return fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
		}

		return err
	}

	return tx.Commit()
}
