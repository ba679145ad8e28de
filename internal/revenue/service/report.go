package service

import (
	"slices"
	"sort"

	"roomly/pkg/model"
)

const UnknownBooker = "unknown"

type BookerRevenue struct {
	Booker    string                `json:"booker"`
	TotalCost int64                 `json:"total_cost"`
	Count     int                   `json:"count"`
	Bookings  []model.BookingRecord `json:"bookings"`
}

type RoomRevenue struct {
	RoomID    string `json:"room_id"`
	RoomName  string `json:"room_name"`
	TotalCost int64  `json:"total_cost"`
	Count     int    `json:"count"`
}

type Report struct {
	Month     string          `json:"month"`
	RoomID    string          `json:"room_id"`
	Bookers   []BookerRevenue `json:"bookers"`
	Rooms     []RoomRevenue   `json:"rooms"`
	TotalCost int64           `json:"total_cost"`
	Count     int             `json:"count"`
}

// BuildReport groups bookings by booker, skipping the excluded bookers.
// Bookers are ordered by total descending, ties by name.
func BuildReport(month, roomID string, rooms []model.Room, bookings []model.BookingRecord, excluded []string) *Report {
	report := &Report{Month: month, RoomID: roomID, Bookers: []BookerRevenue{}, Rooms: []RoomRevenue{}}

	perRoom := make(map[string]*RoomRevenue, len(rooms))
	for _, room := range rooms {
		report.Rooms = append(report.Rooms, RoomRevenue{RoomID: room.ID, RoomName: room.Name})
	}
	for i := range report.Rooms {
		perRoom[report.Rooms[i].RoomID] = &report.Rooms[i]
	}

	byBooker := map[string]*BookerRevenue{}
	for _, rec := range bookings {
		if slices.Contains(excluded, rec.Booker) {
			continue
		}
		name := rec.Booker
		if name == "" {
			name = UnknownBooker
		}
		group, ok := byBooker[name]
		if !ok {
			group = &BookerRevenue{Booker: name}
			byBooker[name] = group
		}
		group.Bookings = append(group.Bookings, rec)
		group.TotalCost += rec.Cost
		group.Count++

		if rr, ok := perRoom[rec.RoomID]; ok {
			rr.TotalCost += rec.Cost
			rr.Count++
		}
		report.TotalCost += rec.Cost
		report.Count++
	}

	for _, group := range byBooker {
		report.Bookers = append(report.Bookers, *group)
	}
	sort.Slice(report.Bookers, func(i, j int) bool {
		if report.Bookers[i].TotalCost != report.Bookers[j].TotalCost {
			return report.Bookers[i].TotalCost > report.Bookers[j].TotalCost
		}
		return report.Bookers[i].Booker < report.Bookers[j].Booker
	})
	return report
}
