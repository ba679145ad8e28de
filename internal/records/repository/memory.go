package repository

import (
	"context"
	"sort"

	"roomly/pkg/db/memory"
	"roomly/pkg/model"
)

type memoryRecordRepository struct {
	db *memory.DB
}

func NewMemoryRecordRepository(db *memory.DB) RecordRepository {
	return &memoryRecordRepository{db: db}
}

func (r *memoryRecordRepository) Append(_ context.Context, rec model.CancelRecord) error {
	return r.db.Update(func(d *memory.Data) error {
		for _, existing := range d.CancelRecords {
			if existing.ID == rec.ID {
				return nil
			}
		}
		d.CancelRecords = append(d.CancelRecords, rec)
		return nil
	})
}

func (r *memoryRecordRepository) ListRecent(_ context.Context, limit int) ([]model.CancelRecord, error) {
	var out []model.CancelRecord
	_ = r.db.View(func(d *memory.Data) error {
		out = append(out, d.CancelRecords...)
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CanceledAt.After(out[j].CanceledAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
