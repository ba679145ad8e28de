package mongo

import (
	"context"
	"fmt"

	"roomly/internal/migrations/mongo/validators"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	RoomDaysIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	UserLedgersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "month", Value: -1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	OpenSettingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	CancelRecordsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "canceled_at", Value: -1}}},
		{Keys: bson.D{{Key: "target_user_id", Value: 1}, {Key: "canceled_at", Value: -1}}},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		mongotx.CollectionRoomDays:      {Indexes: RoomDaysIndexes, Validator: validators.RoomDayValidator},
		mongotx.CollectionUserLedgers:   {Indexes: UserLedgersIndexes, Validator: validators.UserLedgerValidator},
		mongotx.CollectionUsers:         {Indexes: UsersIndexes, Validator: validators.UserValidator},
		mongotx.CollectionOpenSettings:  {Indexes: OpenSettingsIndexes, Validator: validators.OpenSettingValidator},
		mongotx.CollectionCancelRecords: {Indexes: CancelRecordsIndexes, Validator: validators.CancelRecordValidator},
	}
}

// RunMigration creates the collections with their $jsonSchema validators and
// indexes. It is safe to run repeatedly.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully", "collections", len(Collections()))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
