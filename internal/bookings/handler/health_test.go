package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		wantStatus int
		wantBody   string
	}{
		{"store reachable", nil, http.StatusOK, `"status":"ready"`},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable, `"database":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(pingFunc(func(context.Context) error { return tt.ping }), "memory", logger.Discard()).RegisterRoutes(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) || !strings.Contains(w.Body.String(), `"driver":"memory"`) {
				t.Errorf("unexpected body %s", w.Body.String())
			}
		})
	}
}

func TestHealth_DoesNotTouchStore(t *testing.T) {
	called := false
	router := httprouter.New()
	NewHealthHandler(pingFunc(func(context.Context) error { called = true; return nil }), "mongo", logger.Discard()).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || called {
		t.Errorf("status = %d, store pinged = %v", w.Code, called)
	}
}
