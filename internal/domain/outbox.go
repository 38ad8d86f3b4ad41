package domain

import (
	"errors"
	"time"
)

var (
	// ErrOutboxNotFound indicates that the outbox record is not found.
	ErrOutboxNotFound = errors.New("outbox record not found")
	// ErrAlreadyCleared indicates that the outbox record has already been settled.
	ErrAlreadyCleared = errors.New("outbox record already cleared")
	// ErrInvalidAmount indicates a non-positive transfer amount.
	ErrInvalidAmount = errors.New("invalid transfer amount")
	// ErrSameAccount indicates that sender and receiver are the same account.
	ErrSameAccount = errors.New("sender and receiver accounts are identical")
)

// OutboxStatus is the settlement state of an outbox record.
type OutboxStatus string

const (
	// StatusPending marks a transfer awaiting clearance.
	StatusPending OutboxStatus = "PENDING"
	// StatusCompleted marks a transfer settled exactly once.
	StatusCompleted OutboxStatus = "COMPLETED"
)

// OutboxRecord holds one pending or settled transfer.
type OutboxRecord struct {
	ID              string       `json:"id"`
	Amount          string       `json:"amount"` // must be positive
	SenderAccount   int64        `json:"sender_account"`
	ReceiverAccount int64        `json:"receiver_account"`
	Status          OutboxStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
}
