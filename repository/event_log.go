package repository

import (
	"context"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
)

// EventLog is the ordered log of decoded notifications
type EventLog interface {
	// InsertEvents ignores records already stored, returns the number of new rows
	InsertEvents(ctx context.Context, events []model.EventRecord) (int64, error)

	// GetEventsByCampaign returns events of a campaign with seq > since, oldest first
	GetEventsByCampaign(ctx context.Context, campaignID uint64, since uint64, limit int) ([]model.EventRecord, error)
}

type eventLogRepo struct {
}

// NewEventLog ...
func NewEventLog() EventLog {
	return &eventLogRepo{}
}

// InsertEvents ...
func (r *eventLogRepo) InsertEvents(ctx context.Context, events []model.EventRecord) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	query := `
INSERT IGNORE INTO event_log (
	seq, account, campaign_id, kind, discriminator, tx_hash, data, emitted_at
) VALUES (
	:seq, :account, :campaign_id, :kind, :discriminator, :tx_hash, :data, :emitted_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, events)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetEventsByCampaign ...
func (r *eventLogRepo) GetEventsByCampaign(
	ctx context.Context, campaignID uint64, since uint64, limit int,
) ([]model.EventRecord, error) {
	query := `
SELECT seq, account, campaign_id, kind, discriminator, tx_hash, data, emitted_at, created_at
FROM event_log
WHERE campaign_id = ? AND seq > ?
ORDER BY seq
LIMIT ?
`
	var result []model.EventRecord
	err := GetReadonly(ctx).SelectContext(ctx, &result, query, campaignID, since, limit)
	return result, err
}
