package common

import (
	"context"
	"os"
	"testing"
	"time"

	"roomly/pkg/client"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/identity"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultServerURL    = "http://localhost:8080"
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "roomly"
	HealthCheckTimeout  = 30 * time.Second
	tokenTTL            = time.Hour
)

// IntegrationTestSuite talks to a running bookings service backed by Mongo
// and issues JWTs with the same secret the service verifies.
type IntegrationTestSuite struct {
	ServerURL string
	issuer    *identity.JWTVerifier
	mongo     *mongo.Client
	db        *mongo.Database
}

func NewIntegrationTestSuite(t *testing.T) *IntegrationTestSuite {
	t.Helper()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		t.Skip("JWT_SECRET not set, skipping integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(getEnv("TEST_MONGO_URI", DefaultMongoURI)))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	s := &IntegrationTestSuite{
		ServerURL: getEnv("TEST_SERVER_URL", DefaultServerURL),
		issuer:    identity.NewJWTVerifier(secret, getEnv("JWT_ISSUER", "roomly")),
		mongo:     mc,
		db:        mc.Database(getEnv("TEST_DB_NAME", DefaultDatabaseName)),
	}

	if err := client.NewHttpClient(s.ServerURL, "").WaitForHealthy(HealthCheckTimeout); err != nil {
		t.Fatalf("service not reachable: %v", err)
	}
	s.Clean(t)
	return s
}

// ClientFor returns an API client authenticated as email. The user id the
// service derives from the token is returned alongside.
func (s *IntegrationTestSuite) ClientFor(t *testing.T, email, name string) (*client.BookingClient, string) {
	t.Helper()
	token, err := s.issuer.Issue(email, name, tokenTTL)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return client.NewBookingClient(s.ServerURL, token), identity.UserIDFromEmail(email)
}

// MakeAdmin promotes an existing profile. Roles are only ever granted in the
// store, never through the API.
func (s *IntegrationTestSuite) MakeAdmin(t *testing.T, userID string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := s.db.Collection(mongotx.CollectionUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"role": model.RoleAdmin}},
	)
	if err != nil {
		t.Fatalf("failed to promote %s: %v", userID, err)
	}
	if res.MatchedCount != 1 {
		t.Fatalf("user %s does not exist", userID)
	}
}

func (s *IntegrationTestSuite) Clean(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range []string{
		mongotx.CollectionRoomDays,
		mongotx.CollectionUserLedgers,
		mongotx.CollectionUsers,
		mongotx.CollectionOpenSettings,
		mongotx.CollectionCancelRecords,
	} {
		if _, err := s.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean %s: %v", name, err)
		}
	}
}

func (s *IntegrationTestSuite) Teardown(t *testing.T) {
	t.Helper()
	s.Clean(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mongo.Disconnect(ctx); err != nil {
		t.Logf("failed to disconnect from MongoDB: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
