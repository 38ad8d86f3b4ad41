package domain

// ApplyTransferParams carries the precomputed balances for one transfer.
//
// The sender debit updates both balance and reserved amount; the receiver
// credit updates balance only.
type ApplyTransferParams struct {
	SenderAccount   int64  `json:"sender_account"`
	SenderBalance   string `json:"sender_balance"`
	SenderReserved  string `json:"sender_reserved"`
	ReceiverAccount int64  `json:"receiver_account"`
	ReceiverBalance string `json:"receiver_balance"`
}

// Settlement is the outcome of a successful clearance needed for notification.
type Settlement struct {
	OutboxID        string `json:"outbox_id"`
	ReceiverContact string `json:"receiver_contact"`
	SenderContact   string `json:"sender_contact"`
	SenderName      string `json:"sender_name"`
	SenderBalance   string `json:"sender_balance"`
}
