package repository

import (
	"context"
	"errors"
	"fmt"

	"roomly/pkg/config"
	fsdb "roomly/pkg/db/firestore"
	"roomly/pkg/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreRecordRepository struct {
	cfg    *config.Config
	client *firestore.Client
}

func NewFirestoreRecordRepository(cfg *config.Config) RecordRepository {
	return &firestoreRecordRepository{cfg: cfg, client: cfg.Client.Firestore}
}

func (r *firestoreRecordRepository) Append(ctx context.Context, rec model.CancelRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.client.Collection(fsdb.CollectionCancelRecords).Doc(rec.ID).Create(ctx, rec)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to append cancel record: %w", fsdb.Classify(err))
	}
	return nil
}

func (r *firestoreRecordRepository) ListRecent(ctx context.Context, limit int) ([]model.CancelRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	iter := r.client.Collection(fsdb.CollectionCancelRecords).
		OrderBy("canceledAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	records := []model.CancelRecord{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list cancel records: %w", fsdb.Classify(err))
		}
		var rec model.CancelRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode cancel record: %w", err)
		}
		rec.ID = snap.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}
