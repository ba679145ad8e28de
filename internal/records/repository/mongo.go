package repository

import (
	"context"
	"fmt"

	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecordRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRecordRepository(cfg *config.Config) RecordRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRecordRepository{
		cfg:        cfg,
		collection: db.Collection(mongotx.CollectionCancelRecords),
	}
}

func (r *mongoRecordRepository) Append(ctx context.Context, rec model.CancelRecord) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to append cancel record: %w", mongotx.Classify(err))
	}
	return nil
}

func (r *mongoRecordRepository) ListRecent(ctx context.Context, limit int) ([]model.CancelRecord, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "canceled_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancel records: %w", mongotx.Classify(err))
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := []model.CancelRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode cancel records: %w", mongotx.Classify(err))
	}
	return records, nil
}
