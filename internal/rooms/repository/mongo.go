package repository

import (
	"context"
	"errors"
	"fmt"

	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOpenSettingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoOpenSettingRepository(cfg *config.Config) OpenSettingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOpenSettingRepository{
		cfg:        cfg,
		collection: db.Collection(mongotx.CollectionOpenSettings),
	}
}

func (r *mongoOpenSettingRepository) Get(ctx context.Context, roomID, date string) (*model.OpenSetting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var setting model.OpenSetting
	err := r.collection.FindOne(ctx, bson.M{"_id": mongotx.DocID(roomID, date)}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open setting: %w", mongotx.Classify(err))
	}
	return &setting, nil
}

func (r *mongoOpenSettingRepository) Put(ctx context.Context, setting model.OpenSetting) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": mongotx.DocID(setting.RoomID, setting.Date)},
		setting,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to store open setting: %w", mongotx.Classify(err))
	}
	return nil
}
