package service

import (
	"context"
	"sort"

	"roomly/internal/rooms/catalog"
	"roomly/pkg/config"
	"roomly/pkg/db"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/model"
)

const AllRooms = "all"

type RevenueService interface {
	Estimate(ctx context.Context, caller *identity.Identity, params EstimateParams) (*Estimate, error)
	Report(ctx context.Context, caller *identity.Identity, month, roomID string) (*Report, error)
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, caller *identity.Identity) error
}

// DayReader is the read side of the slot availability store.
type DayReader interface {
	GetDays(ctx context.Context, roomID string, dates []string) (map[string]model.DaySlots, error)
}

type revenueService struct {
	days    DayReader
	catalog *catalog.Catalog
	access  Authorizer
	cfg     *config.Config
}

func NewRevenueService(days DayReader, rooms *catalog.Catalog, access Authorizer, cfg *config.Config) RevenueService {
	return &revenueService{days: days, catalog: rooms, access: access, cfg: cfg}
}

func (s *revenueService) Estimate(ctx context.Context, caller *identity.Identity, params EstimateParams) (*Estimate, error) {
	if err := s.access.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	est, err := EstimateRevenue(s.catalog.Rooms(), params)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	return est, nil
}

func (s *revenueService) Report(ctx context.Context, caller *identity.Identity, month, roomID string) (*Report, error) {
	if err := s.access.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	dates, err := catalog.DatesOfMonth(month)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	rooms := s.catalog.Rooms()
	if roomID == "" {
		roomID = AllRooms
	}
	if roomID != AllRooms {
		room, err := s.catalog.Room(roomID)
		if err != nil {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		rooms = []model.Room{room}
	}

	var bookings []model.BookingRecord
	for _, room := range rooms {
		days, err := s.days.GetDays(ctx, room.ID, dates)
		if err != nil {
			s.cfg.Log.Error("Failed to read bookings for revenue", "room_id", room.ID, "month", month, "error", err)
			return nil, db.Translate(err, "Failed to build revenue report")
		}
		for _, day := range days {
			for _, rec := range day {
				if rec.RoomID == "" {
					rec.RoomID = room.ID
				}
				if rec.RoomName == "" {
					rec.RoomName = room.Name
				}
				bookings = append(bookings, rec)
			}
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		if bookings[i].StartTime != bookings[j].StartTime {
			return bookings[i].StartTime < bookings[j].StartTime
		}
		return bookings[i].RoomID < bookings[j].RoomID
	})

	report := BuildReport(month, roomID, rooms, bookings, s.cfg.RevenueExcludedBookers)
	s.cfg.Log.Info("Revenue report built",
		"month", month,
		"room_id", roomID,
		"bookings", report.Count,
		"total_cost", report.TotalCost,
	)
	return report, nil
}
