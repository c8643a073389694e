package model

import (
	"encoding/binary"
	"time"
)

// Notification is one raw record of the ledger notification stream
type Notification struct {
	Seq        uint64  `db:"seq" json:"seq"`
	Account    Address `db:"account" json:"account"`
	CampaignID uint64  `db:"campaign_id" json:"campaign_id"`
	TxHash     string  `db:"tx_hash" json:"tx_hash"`
	Data       []byte  `db:"data" json:"data"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Discriminator returns the leading 32-bit schema tag, zero when truncated
func (n Notification) Discriminator() uint32 {
	if len(n.Data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(n.Data)
}

// EventRecord is a decoded notification persisted by the event log
type EventRecord struct {
	Seq           uint64  `db:"seq"`
	Account       Address `db:"account"`
	CampaignID    uint64  `db:"campaign_id"`
	Kind          string  `db:"kind"`
	Discriminator uint32  `db:"discriminator"`
	TxHash        string  `db:"tx_hash"`
	Data          []byte  `db:"data"`

	EmittedAt time.Time `db:"emitted_at"`
	CreatedAt time.Time `db:"created_at"`
}

// FailedNotification is a record that could not be decoded
type FailedNotification struct {
	Seq           uint64                   `db:"seq"`
	Discriminator uint32                   `db:"discriminator"`
	Data          []byte                   `db:"data"`
	Reason        string                   `db:"reason"`
	Status        FailedNotificationStatus `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FailedNotificationStatus ...
type FailedNotificationStatus int

const (
	// FailedNotificationStatusPending waiting for an operator
	FailedNotificationStatusPending FailedNotificationStatus = 1

	// FailedNotificationStatusSkipped operator allowed the pipeline to move past it
	FailedNotificationStatusSkipped FailedNotificationStatus = 2
)
