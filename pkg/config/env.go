package config

const (
	EnvStoreDriver = "STORE_DRIVER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvFirebaseProjectID       = "FIREBASE_PROJECT_ID"
	EnvFirebaseCredentialsFile = "FIREBASE_CREDENTIALS_FILE"

	EnvAuthProvider = "AUTH_PROVIDER"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTIssuer    = "JWT_ISSUER"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvNotificationsTopic = "NOTIFICATIONS_TOPIC"
	EnvAuditRetryTopic    = "AUDIT_RETRY_TOPIC"
	EnvAuditRetryDLQTopic = "AUDIT_RETRY_DLQ_TOPIC"
	EnvAuditRetryGroup    = "AUDIT_RETRY_GROUP"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRoomsFile              = "ROOMS_FILE"
	EnvHolidays               = "HOLIDAYS"
	EnvTimezone               = "TIMEZONE"
	EnvDefaultUserBalance     = "DEFAULT_USER_BALANCE"
	EnvMaxSlotsPerBooking     = "MAX_SLOTS_PER_BOOKING"
	EnvCancelRecordsLimit     = "CANCEL_RECORDS_LIMIT"
	EnvRevenueExcludedBookers = "REVENUE_EXCLUDED_BOOKERS"
)
