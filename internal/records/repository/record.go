package repository

import (
	"context"

	"roomly/pkg/model"
)

// RecordRepository is append-only. Append is idempotent on the record id so
// a retried record is never stored twice.
type RecordRepository interface {
	Append(ctx context.Context, rec model.CancelRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.CancelRecord, error)
}
