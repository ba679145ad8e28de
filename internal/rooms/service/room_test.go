package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"roomly/internal/rooms/catalog"
	"roomly/internal/rooms/repository"
	"roomly/pkg/config"
	"roomly/pkg/db/memory"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockAuthorizer struct {
	admins map[string]bool
}

func (m *mockAuthorizer) RequireAdmin(_ context.Context, caller *identity.Identity) error {
	if caller == nil {
		return apperrors.Unauthorized("authentication required")
	}
	if !m.admins[caller.UserID] {
		return apperrors.Forbidden("admin role required")
	}
	return nil
}

func newTestService(t *testing.T) RoomService {
	t.Helper()
	rooms, err := catalog.New(catalog.DefaultRooms(), []string{"2025-04-04", "2025-01-01"})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	cfg := &config.Config{Log: logger.Discard(), Location: time.UTC}
	return NewRoomService(
		repository.NewMemoryOpenSettingRepository(memory.New()),
		rooms,
		&mockAuthorizer{admins: map[string]bool{"admin": true}},
		cfg,
	)
}

func ptr(b bool) *bool { return &b }

func TestCatalog(t *testing.T) {
	view := newTestService(t).Catalog(context.Background())

	if len(view.Rooms) != 2 || len(view.Categories) != 3 {
		t.Errorf("unexpected catalog %+v", view)
	}
	if len(view.Slots) != 24 || view.Slots[0] != "09:00" || view.Slots[23] != "20:30" {
		t.Errorf("slots = %v", view.Slots)
	}
	if len(view.Holidays) != 2 || view.Holidays[0] != "2025-01-01" {
		t.Errorf("holidays = %v, want sorted", view.Holidays)
	}
}

func TestOpenSetting_DefaultsAndUpdate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admin := &identity.Identity{UserID: "admin"}

	def, err := svc.GetOpenSetting(ctx, "general-piano-room", "2025-03-14")
	if err != nil {
		t.Fatalf("GetOpenSetting() error = %v", err)
	}
	if !def.Morning || !def.Afternoon || !def.Evening {
		t.Errorf("missing setting should be fully open, got %+v", def)
	}
	if stored, _ := svc.Get(ctx, "general-piano-room", "2025-03-14"); stored != nil {
		t.Errorf("Get() = %+v, want nil before any update", stored)
	}

	updated, err := svc.UpdateOpenSetting(ctx, admin, "general-piano-room", "2025-03-14", &model.OpenSettingUpdate{
		Morning: ptr(true), Afternoon: ptr(false), Evening: ptr(false),
	})
	if err != nil {
		t.Fatalf("UpdateOpenSetting() error = %v", err)
	}
	if updated.UpdatedBy != "admin" || updated.UpdatedAt.IsZero() {
		t.Errorf("audit fields missing: %+v", updated)
	}

	got, err := svc.GetOpenSetting(ctx, "general-piano-room", "2025-03-14")
	if err != nil {
		t.Fatalf("GetOpenSetting() error = %v", err)
	}
	if !got.Morning || got.Afternoon || got.Evening {
		t.Errorf("stored setting = %+v", got)
	}
	if other, _ := svc.GetOpenSetting(ctx, "standard-recording-studio", "2025-03-14"); !other.Evening {
		t.Errorf("settings must be scoped per room, got %+v", other)
	}
}

func TestUpdateOpenSetting_Rejections(t *testing.T) {
	full := &model.OpenSettingUpdate{Morning: ptr(true), Afternoon: ptr(true), Evening: ptr(true)}

	tests := []struct {
		name       string
		caller     *identity.Identity
		roomID     string
		date       string
		update     *model.OpenSettingUpdate
		wantStatus int
	}{
		{"not admin", &identity.Identity{UserID: "alice"}, "general-piano-room", "2025-03-14", full, http.StatusForbidden},
		{"unauthenticated", nil, "general-piano-room", "2025-03-14", full, http.StatusUnauthorized},
		{"unknown room", &identity.Identity{UserID: "admin"}, "drum-room", "2025-03-14", full, http.StatusNotFound},
		{"bad date", &identity.Identity{UserID: "admin"}, "general-piano-room", "2025/03/14", full, http.StatusBadRequest},
		{"missing flag", &identity.Identity{UserID: "admin"}, "general-piano-room", "2025-03-14",
			&model.OpenSettingUpdate{Morning: ptr(true), Afternoon: ptr(true)}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(t).UpdateOpenSetting(context.Background(), tt.caller, tt.roomID, tt.date, tt.update)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.AsAppError(err).StatusCode(); got != tt.wantStatus {
				t.Errorf("status = %d, want %d (%v)", got, tt.wantStatus, err)
			}
		})
	}
}
