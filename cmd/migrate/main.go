package main

import (
	"context"
	"time"

	mongoMigration "roomly/internal/migrations/mongo"
	"roomly/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if cfg.StoreDriver != config.StoreMongo {
		cfg.Log.Info("Nothing to migrate for store driver", "store_driver", cfg.StoreDriver)
		return
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown(ctx)

	cfg.Log.Info("Starting Mongo migration job")
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
