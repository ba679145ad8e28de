package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roomly/pkg/client"
	"roomly/pkg/config"
	"roomly/pkg/identity"
	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

type staticVerifier struct{}

func (staticVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if token != "good" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Identity{UserID: "alice"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "8080",
		Log:                logger.Discard(),
		Client:             client.NewClient(),
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
		RequestTimeout:     time.Second,
		IdempotencyTTL:     time.Minute,
		MaxRequestSize:     1024,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
}

func TestApplication_Routing(t *testing.T) {
	health := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})
	var seen string
	api := routes(func(r *httprouter.Router) {
		r.GET("/api/v1/me", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			id, _ := identity.FromContext(r.Context())
			seen = id.UserID
			w.WriteHeader(http.StatusOK)
		})
	})

	a := NewApplication(testConfig())
	a.SetApp(staticVerifier{}, health, api)
	defer a.idempotencyStore.Stop()
	defer a.rateLimiter.Stop()
	h := a.Handler()

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"health needs no token", "/health", "", http.StatusOK},
		{"api rejects anonymous", "/api/v1/me", "", http.StatusUnauthorized},
		{"api accepts valid token", "/api/v1/me", "good", http.StatusOK},
		{"unknown route", "/api/v1/nope", "good", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
	if seen != "alice" {
		t.Errorf("identity not propagated, got %q", seen)
	}
}

func TestApplication_CORSPreflight(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(staticVerifier{}, routes(func(*httprouter.Router) {}))
	defer a.idempotencyStore.Stop()
	defer a.rateLimiter.Stop()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
