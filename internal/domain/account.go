// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that a referenced account is not found.
	ErrAccountNotFound = errors.New("account not found")
)

// Account holds one ledger participant.
type Account struct {
	AccountNumber  int64     `json:"account_number"`
	Balance        string    `json:"balance"`
	ReservedAmount string    `json:"reserved_amount"` // funds earmarked against pending transfers
	DisplayName    string    `json:"display_name"`
	ContactAddress string    `json:"contact_address"`
	AccountKind    string    `json:"account_kind"`
	CreatedAt      time.Time `json:"created_at"`
}
