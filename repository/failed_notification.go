package repository

import (
	"context"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
)

// FailedNotification keeps the records the pipeline could not decode
type FailedNotification interface {
	// GetFailedNotification returns sql.ErrNoRows when seq never failed
	GetFailedNotification(ctx context.Context, seq uint64) (model.FailedNotification, error)

	// InsertFailedNotification does nothing if seq is already stored
	InsertFailedNotification(ctx context.Context, n model.FailedNotification) error

	// MarkSkipped moves a pending record to skipped, returns false if there was none
	MarkSkipped(ctx context.Context, seq uint64) (bool, error)

	ListFailedNotifications(ctx context.Context, status model.FailedNotificationStatus) ([]model.FailedNotification, error)
}

type failedNotificationRepo struct {
}

// NewFailedNotification ...
func NewFailedNotification() FailedNotification {
	return &failedNotificationRepo{}
}

// GetFailedNotification ...
func (r *failedNotificationRepo) GetFailedNotification(
	ctx context.Context, seq uint64,
) (model.FailedNotification, error) {
	query := `
SELECT seq, discriminator, data, reason, status, created_at, updated_at
FROM failed_notification
WHERE seq = ?
`
	var result model.FailedNotification
	err := GetReadonly(ctx).GetContext(ctx, &result, query, seq)
	return result, err
}

// InsertFailedNotification ...
func (r *failedNotificationRepo) InsertFailedNotification(ctx context.Context, n model.FailedNotification) error {
	query := `
INSERT IGNORE INTO failed_notification (seq, discriminator, data, reason, status)
VALUES (:seq, :discriminator, :data, :reason, :status)
`
	_, err := GetTx(ctx).NamedExecContext(ctx, query, n)
	return err
}

// MarkSkipped ...
func (r *failedNotificationRepo) MarkSkipped(ctx context.Context, seq uint64) (bool, error) {
	query := `UPDATE failed_notification SET status = ? WHERE seq = ? AND status = ?`
	result, err := GetTx(ctx).ExecContext(ctx, query,
		model.FailedNotificationStatusSkipped, seq, model.FailedNotificationStatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListFailedNotifications ...
func (r *failedNotificationRepo) ListFailedNotifications(
	ctx context.Context, status model.FailedNotificationStatus,
) ([]model.FailedNotification, error) {
	query := `
SELECT seq, discriminator, data, reason, status, created_at, updated_at
FROM failed_notification
WHERE status = ?
ORDER BY seq
`
	var result []model.FailedNotification
	err := GetReadonly(ctx).SelectContext(ctx, &result, query, status)
	return result, err
}
