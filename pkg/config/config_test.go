package config

import (
	"strings"
	"testing"
	"time"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvStoreDriver, "memory")
	t.Setenv(EnvAuthProvider, "jwt")
	t.Setenv(EnvJWTSecret, "0123456789abcdef0123")
	t.Setenv(EnvTimezone, "UTC")
}

func TestFromEnv_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg := fromEnv("test")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Port != DefaultPort || cfg.CancelRecordsLimit != DefaultCancelRecordsLimit || cfg.DefaultUserBalance != DefaultUserBalance {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
	if len(cfg.CORSAllowedOrigins) != len(DefaultCORSAllowedOrigins) {
		t.Errorf("CORS origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv(EnvHolidays, "2025-01-01, 2025-04-04,")
	t.Setenv(EnvRevenueExcludedBookers, "Owner,Staff")
	t.Setenv(EnvRateLimitWindow, "30s")
	t.Setenv(EnvKafkaEnabled, "true")
	t.Setenv(EnvMaxSlotsPerBooking, "not-a-number")

	cfg := fromEnv("test")
	if len(cfg.Holidays) != 2 || cfg.Holidays[1] != "2025-04-04" {
		t.Errorf("Holidays = %v", cfg.Holidays)
	}
	if len(cfg.RevenueExcludedBookers) != 2 {
		t.Errorf("RevenueExcludedBookers = %v", cfg.RevenueExcludedBookers)
	}
	if cfg.RateLimitWindow != 30*time.Second || !cfg.KafkaEnabled {
		t.Errorf("window = %s, kafka = %v", cfg.RateLimitWindow, cfg.KafkaEnabled)
	}
	if cfg.MaxSlotsPerBooking != DefaultMaxSlotsPerBooking {
		t.Errorf("unparsable number should fall back, got %d", cfg.MaxSlotsPerBooking)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{"bad port", map[string]string{EnvPort: "99999"}, "Port must be between"},
		{"unknown driver", map[string]string{EnvStoreDriver: "sqlite"}, "StoreDriver must be one of"},
		{"bad mongo uri", map[string]string{EnvStoreDriver: "mongo", EnvMongoURI: "postgres://x"}, "MongoURI must start with"},
		{"firestore without project", map[string]string{EnvStoreDriver: "firestore"}, "FirebaseProjectID is required"},
		{"short jwt secret", map[string]string{EnvJWTSecret: "short"}, "JWTSecret must be at least 16"},
		{"unknown auth", map[string]string{EnvAuthProvider: "basic"}, "AuthProvider must be one of"},
		{"bad timezone", map[string]string{EnvTimezone: "Mars/Olympus"}, "Timezone must be a valid IANA zone"},
		{"bad holiday", map[string]string{EnvHolidays: "2025-13-01"}, "Holidays must be YYYY-MM-DD"},
		{"records limit too high", map[string]string{EnvCancelRecordsLimit: "500"}, "CancelRecordsLimit must be between"},
		{"negative balance", map[string]string{EnvDefaultUserBalance: "-1"}, "DefaultUserBalance cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := fromEnv("test").Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		limit, want int
	}{
		{0, 12},
		{-3, 12},
		{5, 5},
		{500, 100},
	}
	for _, tt := range tests {
		if got := NormalizeLimit(tt.limit, 12, 100); got != tt.want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}
