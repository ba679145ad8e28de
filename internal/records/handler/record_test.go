package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockRecordService struct {
	gotLimit int
}

func (m *mockRecordService) Record(context.Context, model.CancelRecord) {}

func (m *mockRecordService) Append(context.Context, model.CancelRecord) error { return nil }

func (m *mockRecordService) ListRecent(_ context.Context, caller *identity.Identity, limit int) ([]model.CancelRecord, error) {
	m.gotLimit = limit
	if caller.UserID != "admin" {
		return nil, apperrors.Forbidden("admin role required")
	}
	return []model.CancelRecord{{ID: "r1"}}, nil
}

func TestListRecent(t *testing.T) {
	tests := []struct {
		name       string
		user       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"default limit", "admin", "", http.StatusOK, 0},
		{"explicit limit", "admin", "?limit=5", http.StatusOK, 5},
		{"clamped", "admin", "?limit=5000", http.StatusOK, 100},
		{"bad limit", "admin", "?limit=ten", http.StatusBadRequest, -1},
		{"not admin", "alice", "", http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRecordService{gotLimit: -1}
			router := httprouter.New()
			NewRecordHandler(svc, logger.Discard()).RegisterRoutes(router)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cancel-records"+tt.query, nil)
			req = req.WithContext(identity.WithIdentity(req.Context(), &identity.Identity{UserID: tt.user}))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if svc.gotLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", svc.gotLimit, tt.wantLimit)
			}
			if tt.wantStatus == http.StatusOK && !strings.Contains(w.Body.String(), `"count":1`) {
				t.Errorf("unexpected body %s", w.Body.String())
			}
		})
	}
}
