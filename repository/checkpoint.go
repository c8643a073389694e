package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Checkpoint stores the last processed notification sequence per pipeline name
type Checkpoint interface {
	// GetCheckpoint returns zero when nothing has been processed yet
	GetCheckpoint(ctx context.Context, name string) (uint64, error)

	// SaveCheckpoint never moves the stored sequence backward
	SaveCheckpoint(ctx context.Context, name string, seq uint64) error
}

type checkpointRepo struct {
}

// NewCheckpoint ...
func NewCheckpoint() Checkpoint {
	return &checkpointRepo{}
}

// GetCheckpoint ...
func (r *checkpointRepo) GetCheckpoint(ctx context.Context, name string) (uint64, error) {
	query := `SELECT seq FROM ingest_checkpoint WHERE name = ?`
	var seq uint64
	err := GetReadonly(ctx).GetContext(ctx, &seq, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return seq, err
}

// SaveCheckpoint ...
func (r *checkpointRepo) SaveCheckpoint(ctx context.Context, name string, seq uint64) error {
	query := `
INSERT INTO ingest_checkpoint (name, seq)
VALUES (?, ?) AS NEW
ON DUPLICATE KEY UPDATE
	seq = GREATEST(ingest_checkpoint.seq, NEW.seq)
`
	_, err := GetTx(ctx).ExecContext(ctx, query, name, seq)
	return err
}
