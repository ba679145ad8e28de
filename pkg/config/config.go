package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roomly/pkg/client"
	"roomly/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreDriver string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	FirebaseProjectID       string
	FirebaseCredentialsFile string

	AuthProvider string
	JWTSecret    string
	JWTIssuer    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaEnabled       bool
	NotificationsTopic string
	AuditRetryTopic    string
	AuditRetryDLQTopic string
	AuditRetryGroup    string

	Port      string
	LogLevel  string
	LogFormat string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	CORSAllowedOrigins []string

	RoomsFile              string
	Holidays               []string
	Timezone               string
	Location               *time.Location
	DefaultUserBalance     int64
	MaxSlotsPerBooking     int
	CancelRecordsLimit     int
	RevenueExcludedBookers []string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads .env (when present) and the process environment, validates the
// result and exits on invalid configuration.
func Load(serviceName string) *Config {
	envErr := godotenv.Load()

	cfg := fromEnv(serviceName)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		cfg.Log.Warn("failed to read .env file", "error", envErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func fromEnv(serviceName string) *Config {
	cfg := &Config{
		StoreDriver: strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		FirebaseProjectID:       getEnvStr(EnvFirebaseProjectID, ""),
		FirebaseCredentialsFile: getEnvStr(EnvFirebaseCredentialsFile, ""),

		AuthProvider: strings.ToLower(getEnvStr(EnvAuthProvider, DefaultAuthProvider)),
		JWTSecret:    getEnvStr(EnvJWTSecret, ""),
		JWTIssuer:    getEnvStr(EnvJWTIssuer, DefaultJWTIssuer),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		KafkaEnabled:       getEnvBool(EnvKafkaEnabled, false),
		NotificationsTopic: getEnvStr(EnvNotificationsTopic, DefaultNotificationsTopic),
		AuditRetryTopic:    getEnvStr(EnvAuditRetryTopic, DefaultAuditRetryTopic),
		AuditRetryDLQTopic: getEnvStr(EnvAuditRetryDLQTopic, DefaultAuditRetryDLQTopic),
		AuditRetryGroup:    getEnvStr(EnvAuditRetryGroup, DefaultAuditRetryGroup),

		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		RoomsFile:              getEnvStr(EnvRoomsFile, ""),
		Holidays:               getEnvList(EnvHolidays, nil),
		Timezone:               getEnvStr(EnvTimezone, DefaultTimezone),
		DefaultUserBalance:     int64(getEnvNum(EnvDefaultUserBalance, DefaultUserBalance)),
		MaxSlotsPerBooking:     getEnvNum(EnvMaxSlotsPerBooking, DefaultMaxSlotsPerBooking),
		CancelRecordsLimit:     getEnvNum(EnvCancelRecordsLimit, DefaultCancelRecordsLimit),
		RevenueExcludedBookers: getEnvList(EnvRevenueExcludedBookers, nil),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		cfg.Location = loc
	}
	return cfg
}

// Connect opens the backing clients required by the configured drivers.
func (cfg *Config) Connect(ctx context.Context) {
	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.SetMongo()
	case StoreFirestore:
		cfg.SetFirebase(ctx)
	}
	if cfg.AuthProvider == AuthFirebase && cfg.Client.Auth == nil {
		cfg.SetFirebase(ctx)
	}
	if cfg.RedisAddr != "" {
		cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetFirebase(ctx context.Context) {
	cfg.Client.SetFirebase(ctx, cfg.Log, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StoreFirestore:
		if cfg.FirebaseProjectID == "" {
			errors = append(errors, "FirebaseProjectID is required when StoreDriver is firestore")
		}
	case StoreMemory:
	default:
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of mongo, firestore, memory, got: %s", cfg.StoreDriver))
	}

	switch cfg.AuthProvider {
	case AuthFirebase:
		if cfg.FirebaseProjectID == "" {
			errors = append(errors, "FirebaseProjectID is required when AuthProvider is firebase")
		}
	case AuthJWT:
		if len(cfg.JWTSecret) < 16 {
			errors = append(errors, "JWTSecret must be at least 16 characters when AuthProvider is jwt")
		}
	default:
		errors = append(errors, fmt.Sprintf("AuthProvider must be one of firebase, jwt, got: %s", cfg.AuthProvider))
	}

	if cfg.KafkaEnabled {
		if cfg.NotificationsTopic == "" {
			errors = append(errors, "NotificationsTopic cannot be empty when Kafka is enabled")
		}
		if cfg.AuditRetryTopic == "" {
			errors = append(errors, "AuditRetryTopic cannot be empty when Kafka is enabled")
		}
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("Timezone must be a valid IANA zone, got: %s", cfg.Timezone))
	}
	for _, day := range cfg.Holidays {
		if _, err := time.Parse(time.DateOnly, day); err != nil {
			errors = append(errors, fmt.Sprintf("Holidays must be YYYY-MM-DD dates, got: %s", day))
		}
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.DefaultUserBalance < 0 {
		errors = append(errors, fmt.Sprintf("DefaultUserBalance cannot be negative, got: %d", cfg.DefaultUserBalance))
	}
	if cfg.MaxSlotsPerBooking <= 0 {
		errors = append(errors, fmt.Sprintf("MaxSlotsPerBooking must be positive, got: %d", cfg.MaxSlotsPerBooking))
	}
	if cfg.CancelRecordsLimit <= 0 || cfg.CancelRecordsLimit > MaxCancelRecordsLimit {
		errors = append(errors, fmt.Sprintf("CancelRecordsLimit must be between 1 and %d, got: %d", MaxCancelRecordsLimit, cfg.CancelRecordsLimit))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"firebase_project_id", cfg.FirebaseProjectID,
		"firebase_credentials_set", cfg.FirebaseCredentialsFile != "",
		"auth_provider", cfg.AuthProvider,
		"jwt_secret_set", cfg.JWTSecret != "",
		"redis_addr", cfg.RedisAddr,
		"kafka_enabled", cfg.KafkaEnabled,
		"notifications_topic", cfg.NotificationsTopic,
		"audit_retry_topic", cfg.AuditRetryTopic,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"rooms_file", cfg.RoomsFile,
		"holidays", len(cfg.Holidays),
		"timezone", cfg.Timezone,
		"default_user_balance", cfg.DefaultUserBalance,
		"max_slots_per_booking", cfg.MaxSlotsPerBooking,
		"cancel_records_limit", cfg.CancelRecordsLimit,
		"revenue_excluded_bookers", len(cfg.RevenueExcludedBookers),
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown(ctx context.Context) {
	cfg.Client.GracefulShutdown(ctx, cfg.Log)
}

// NormalizeLimit clamps a caller supplied list size into [1, max], using
// fallback for non-positive values.
func NormalizeLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

// Now returns the current time in the configured timezone.
func (cfg *Config) Now() time.Time {
	if cfg.Location == nil {
		return time.Now()
	}
	return time.Now().In(cfg.Location)
}
