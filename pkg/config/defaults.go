package config

import "time"

const (
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

const (
	DefaultStoreDriver = StoreMongo

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultAuthProvider = AuthFirebase
	DefaultJWTIssuer    = "roomly"

	DefaultRedisDB = 0

	DefaultNotificationsTopic = "booking-notifications"
	DefaultAuditRetryTopic    = "cancel-record-retry"
	DefaultAuditRetryDLQTopic = "cancel-record-retry-dlq"
	DefaultAuditRetryGroup    = "roomly-audit-retry"

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTimezone           = "Asia/Taipei"
	DefaultUserBalance        = 100
	DefaultMaxSlotsPerBooking = 24
	DefaultCancelRecordsLimit = 12
	MaxCancelRecordsLimit     = 100
)

var DefaultCORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
