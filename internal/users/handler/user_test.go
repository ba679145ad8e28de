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

type mockUserService struct {
	ensureFunc  func(ctx context.Context, caller *identity.Identity) (*model.User, error)
	getFunc     func(ctx context.Context, caller *identity.Identity, userID string) (*model.User, error)
	listFunc    func(ctx context.Context, caller *identity.Identity) ([]*model.User, error)
	renameFunc  func(ctx context.Context, caller *identity.Identity, userID string, update *model.UserUpdate) (*model.User, error)
	depositFunc func(ctx context.Context, caller *identity.Identity, userID string, req *model.DepositRequest) (*model.BalanceResult, error)
}

func (m *mockUserService) EnsureProfile(ctx context.Context, caller *identity.Identity) (*model.User, error) {
	if m.ensureFunc != nil {
		return m.ensureFunc(ctx, caller)
	}
	return &model.User{ID: caller.UserID}, nil
}

func (m *mockUserService) Get(ctx context.Context, caller *identity.Identity, userID string) (*model.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, caller, userID)
	}
	return &model.User{ID: userID}, nil
}

func (m *mockUserService) List(ctx context.Context, caller *identity.Identity) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, caller)
	}
	return []*model.User{}, nil
}

func (m *mockUserService) Rename(ctx context.Context, caller *identity.Identity, userID string, update *model.UserUpdate) (*model.User, error) {
	if m.renameFunc != nil {
		return m.renameFunc(ctx, caller, userID, update)
	}
	return &model.User{ID: userID, DisplayName: update.DisplayName}, nil
}

func (m *mockUserService) Deposit(ctx context.Context, caller *identity.Identity, userID string, req *model.DepositRequest) (*model.BalanceResult, error) {
	if m.depositFunc != nil {
		return m.depositFunc(ctx, caller, userID, req)
	}
	return &model.BalanceResult{UserID: userID, Balance: req.Amount}, nil
}

func (m *mockUserService) RequireAdmin(context.Context, *identity.Identity) error { return nil }

func (m *mockUserService) RequireSelfOrAdmin(context.Context, *identity.Identity, string) error {
	return nil
}

func do(svc *mockUserService, method, target, body string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewUserHandler(svc, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(identity.WithIdentity(req.Context(), &identity.Identity{UserID: "alice", Email: "alice@example.com"}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserRoutes(t *testing.T) {
	var seenCaller, seenTarget string
	svc := &mockUserService{
		ensureFunc: func(_ context.Context, caller *identity.Identity) (*model.User, error) {
			seenCaller = caller.UserID
			return &model.User{ID: caller.UserID, Balance: 500}, nil
		},
		getFunc: func(_ context.Context, _ *identity.Identity, userID string) (*model.User, error) {
			seenTarget = userID
			if userID == "ghost" {
				return nil, apperrors.NotFoundWithID("User", userID)
			}
			return &model.User{ID: userID}, nil
		},
		listFunc: func(context.Context, *identity.Identity) ([]*model.User, error) {
			return []*model.User{{ID: "alice"}, {ID: "bob"}}, nil
		},
		depositFunc: func(_ context.Context, _ *identity.Identity, userID string, req *model.DepositRequest) (*model.BalanceResult, error) {
			seenTarget = userID
			return &model.BalanceResult{UserID: userID, Balance: 100 + req.Amount}, nil
		},
	}

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
		wantTarget string
	}{
		{"me", http.MethodGet, "/api/v1/me", "", http.StatusOK, `"balance":500`, ""},
		{"list", http.MethodGet, "/api/v1/users", "", http.StatusOK, `"count":2`, ""},
		{"get", http.MethodGet, "/api/v1/users/bob", "", http.StatusOK, `"id":"bob"`, "bob"},
		{"get missing", http.MethodGet, "/api/v1/users/ghost", "", http.StatusNotFound, apperrors.CodeNotFound, "ghost"},
		{"rename", http.MethodPatch, "/api/v1/users/alice", `{"display_name":"Al"}`, http.StatusOK, `"display_name":"Al"`, ""},
		{"rename bad body", http.MethodPatch, "/api/v1/users/alice", `{`, http.StatusBadRequest, apperrors.CodeBadRequest, ""},
		{"deposit", http.MethodPost, "/api/v1/users/bob/deposit", `{"amount":50}`, http.StatusOK, `"balance":150`, "bob"},
		{"deposit bad body", http.MethodPost, "/api/v1/users/bob/deposit", `amount=50`, http.StatusBadRequest, apperrors.CodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenTarget = ""
			w := do(svc, tt.method, tt.target, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", w.Body.String(), tt.wantBody)
			}
			if seenTarget != tt.wantTarget {
				t.Errorf("path user id = %q, want %q", seenTarget, tt.wantTarget)
			}
		})
	}
	if seenCaller != "alice" {
		t.Errorf("caller identity not forwarded, got %q", seenCaller)
	}
}
