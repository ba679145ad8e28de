package service

import (
	"context"
	"time"

	"roomly/internal/rooms/catalog"
	"roomly/internal/rooms/repository"
	"roomly/pkg/config"
	"roomly/pkg/db"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/model"
	"roomly/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// CatalogView is the static room listing returned to clients.
type CatalogView struct {
	Rooms      []model.Room           `json:"rooms"`
	Slots      []string               `json:"slots"`
	Categories []catalog.TimeCategory `json:"categories"`
	Holidays   []string               `json:"holidays,omitempty"`
}

type RoomService interface {
	Catalog(ctx context.Context) *CatalogView
	Get(ctx context.Context, roomID, date string) (*model.OpenSetting, error)
	GetOpenSetting(ctx context.Context, roomID, date string) (*model.OpenSetting, error)
	UpdateOpenSetting(ctx context.Context, caller *identity.Identity, roomID, date string, update *model.OpenSettingUpdate) (*model.OpenSetting, error)
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, caller *identity.Identity) error
}

type roomService struct {
	repo     repository.OpenSettingRepository
	rooms    *catalog.Catalog
	access   Authorizer
	validate *validator.Validate
	cfg      *config.Config
	now      func() time.Time
}

func NewRoomService(repo repository.OpenSettingRepository, rooms *catalog.Catalog, access Authorizer, cfg *config.Config) RoomService {
	return &roomService{
		repo:     repo,
		rooms:    rooms,
		access:   access,
		validate: validation.New(),
		cfg:      cfg,
		now:      cfg.Now,
	}
}

func (s *roomService) Catalog(_ context.Context) *CatalogView {
	return &CatalogView{
		Rooms:      s.rooms.Rooms(),
		Slots:      s.rooms.Slots.All(),
		Categories: catalog.Categories,
		Holidays:   s.rooms.Holidays(),
	}
}

// Get returns the stored setting, or nil when none exists.
func (s *roomService) Get(ctx context.Context, roomID, date string) (*model.OpenSetting, error) {
	setting, err := s.repo.Get(ctx, roomID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to read open setting", "room_id", roomID, "date", date, "error", err)
		return nil, db.Translate(err, "Failed to retrieve open setting")
	}
	return setting, nil
}

// GetOpenSetting always returns a setting, defaulting to fully open.
func (s *roomService) GetOpenSetting(ctx context.Context, roomID, date string) (*model.OpenSetting, error) {
	if err := s.checkRoomDate(roomID, date); err != nil {
		return nil, err
	}
	setting, err := s.Get(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		def := model.DefaultOpenSetting(roomID, date)
		return &def, nil
	}
	return setting, nil
}

func (s *roomService) UpdateOpenSetting(ctx context.Context, caller *identity.Identity, roomID, date string, update *model.OpenSettingUpdate) (*model.OpenSetting, error) {
	if err := s.access.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if err := s.checkRoomDate(roomID, date); err != nil {
		return nil, err
	}
	if err := validation.Struct(s.validate, update); err != nil {
		return nil, validation.ToAppError("Invalid open setting", err)
	}

	setting := model.OpenSetting{
		RoomID:    roomID,
		Date:      date,
		Morning:   *update.Morning,
		Afternoon: *update.Afternoon,
		Evening:   *update.Evening,
		UpdatedBy: caller.UserID,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Put(ctx, setting); err != nil {
		s.cfg.Log.Error("Failed to store open setting", "room_id", roomID, "date", date, "error", err)
		return nil, db.Translate(err, "Failed to update open setting")
	}

	s.cfg.Log.Info("Open setting updated",
		"room_id", roomID,
		"date", date,
		"morning", setting.Morning,
		"afternoon", setting.Afternoon,
		"evening", setting.Evening,
		"operator_id", caller.UserID,
	)
	return &setting, nil
}

func (s *roomService) checkRoomDate(roomID, date string) error {
	if _, err := s.rooms.Room(roomID); err != nil {
		return apperrors.NotFoundWithID("Room", roomID)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return apperrors.InvalidInput("invalid date, expected YYYY-MM-DD: " + date)
	}
	return nil
}
