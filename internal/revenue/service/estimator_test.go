package service

import (
	"math"
	"testing"

	"roomly/internal/rooms/catalog"
)

func TestDailySlots(t *testing.T) {
	tests := []struct {
		start, end float64
		want       int
	}{
		{9, 21, 24},
		{9.5, 21, 22},
		{9, 21.5, 24},
		{9.5, 21.5, 22},
		{10, 10, 0},
	}
	for _, tt := range tests {
		if got := DailySlots(tt.start, tt.end); got != tt.want {
			t.Errorf("DailySlots(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestEstimateRevenue_Defaults(t *testing.T) {
	est, err := EstimateRevenue(catalog.DefaultRooms(), EstimateParams{})
	if err != nil {
		t.Fatalf("EstimateRevenue() error = %v", err)
	}
	if est.Days != 30 || est.OccupancyRate != 0.2 || est.CleaningFeeRate != 0.05 {
		t.Errorf("defaults not applied: %+v", est)
	}

	want := map[string]struct {
		occupied int
		base     float64
		monthly  float64
	}{
		"general-piano-room":        {4, 200, 5700},
		"standard-recording-studio": {4, 700, 19950},
	}
	for _, room := range est.Rooms {
		w := want[room.RoomID]
		if room.DailyAvailable != 24 || room.DailyOccupied != w.occupied {
			t.Errorf("%s: slots %d/%d, want 24/%d", room.RoomID, room.DailyOccupied, room.DailyAvailable, w.occupied)
		}
		if room.DailyBaseRevenue != w.base {
			t.Errorf("%s: base = %v, want %v", room.RoomID, room.DailyBaseRevenue, w.base)
		}
		if math.Abs(room.MonthlyNetRevenue-w.monthly) > 1e-9 {
			t.Errorf("%s: monthly = %v, want %v", room.RoomID, room.MonthlyNetRevenue, w.monthly)
		}
	}
	if math.Abs(est.TotalMonthlyNet-25650) > 1e-9 {
		t.Errorf("total = %v, want 25650", est.TotalMonthlyNet)
	}
}

func TestEstimateRevenue_ZeroRatesAreKept(t *testing.T) {
	zero := 0.0
	est, err := EstimateRevenue(catalog.DefaultRooms(), EstimateParams{OccupancyRate: &zero, CleaningFeeRate: &zero})
	if err != nil {
		t.Fatalf("EstimateRevenue() error = %v", err)
	}
	if est.TotalMonthlyNet != 0 || est.Rooms[0].DailyOccupied != 0 {
		t.Errorf("explicit zero occupancy should yield no revenue, got %+v", est)
	}
}

func TestEstimateRevenue_Invalid(t *testing.T) {
	over := 1.5
	tests := []struct {
		name   string
		params EstimateParams
	}{
		{"end before start", EstimateParams{StartHour: 20, EndHour: 10}},
		{"past midnight", EstimateParams{StartHour: 9, EndHour: 25}},
		{"occupancy over one", EstimateParams{OccupancyRate: &over}},
		{"too many days", EstimateParams{Days: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EstimateRevenue(catalog.DefaultRooms(), tt.params); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
