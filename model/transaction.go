package model

import "time"

// Transaction is one executed inbound message as seen in a campaign's history
type Transaction struct {
	Hash       string  `json:"hash"`
	Lt         uint64  `json:"lt"`
	CampaignID uint64  `json:"campaign_id"`
	Sender     Address `json:"sender"`
	Operation  string  `json:"operation"`
	Value      Amount  `json:"value"`

	Success  bool   `json:"success"`
	ExitCode uint32 `json:"exit_code"`

	OutMessages []OutMessage `json:"out_messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// OutMessage is a payout emitted by a transaction
type OutMessage struct {
	To     Address       `json:"to"`
	Amount Amount        `json:"amount"`
	Method PaymentMethod `json:"method"`
}
