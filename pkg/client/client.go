package client

import (
	"context"
	"time"

	"roomly/pkg/logger"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/api/option"
)

const redisPingTimeout = 2 * time.Second

// Client holds the infrastructure connections shared by a service process.
// Fields stay nil for backends the process is not configured to use.
type Client struct {
	Mongo     *mongo.Client
	Firestore *firestore.Client
	Auth      *auth.Client
	Redis     *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

// SetFirebase initialises the Firebase app and both the Firestore and Auth
// clients. Without a credentials file the default application credentials
// are used.
func (c *Client) SetFirebase(ctx context.Context, log *logger.Logger, projectID, credentialsFile string) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		log.Fatal("Failed to initialize Firebase app", "error", err, "project_id", projectID)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		log.Fatal("Failed to create Firestore client", "error", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatal("Failed to create Firebase Auth client", "error", err)
	}

	log.Info("Successfully initialized Firebase", "project_id", projectID)
	c.Firestore = fs
	c.Auth = authClient
}

func (c *Client) SetRedis(log *logger.Logger, addr, password string, db int) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", "error", err, "addr", addr)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = rdb
}

func (c *Client) GracefulShutdown(ctx context.Context, log *logger.Logger) {
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			log.Error("Failed to close Firestore client", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}
}
