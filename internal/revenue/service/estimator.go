package service

import (
	"fmt"
	"math"

	"roomly/pkg/model"
)

const (
	DefaultStartHour       = 9
	DefaultEndHour         = 21
	DefaultOccupancyRate   = 0.2
	DefaultCleaningFeeRate = 0.05
	DefaultDays            = 30
)

// EstimateParams are the operator's assumptions. Zero values take the
// defaults; hours may be fractional (9.5 is 09:30).
type EstimateParams struct {
	StartHour       float64  `json:"start_hour"`
	EndHour         float64  `json:"end_hour"`
	OccupancyRate   *float64 `json:"occupancy_rate"`
	CleaningFeeRate *float64 `json:"cleaning_fee_rate"`
	Days            int      `json:"days"`
}

type RoomEstimate struct {
	RoomID            string  `json:"room_id"`
	RoomName          string  `json:"room_name"`
	Price             int64   `json:"price"`
	DailyAvailable    int     `json:"daily_available_slots"`
	DailyOccupied     int     `json:"daily_occupied_slots"`
	DailyBaseRevenue  float64 `json:"daily_base_revenue"`
	DailyCleaningFee  float64 `json:"daily_cleaning_fee"`
	DailyNetRevenue   float64 `json:"daily_net_revenue"`
	MonthlyNetRevenue float64 `json:"monthly_net_revenue"`
}

type Estimate struct {
	StartHour       float64        `json:"start_hour"`
	EndHour         float64        `json:"end_hour"`
	OccupancyRate   float64        `json:"occupancy_rate"`
	CleaningFeeRate float64        `json:"cleaning_fee_rate"`
	Days            int            `json:"days"`
	Rooms           []RoomEstimate `json:"rooms"`
	TotalMonthlyNet float64        `json:"total_monthly_net_revenue"`
}

func (p EstimateParams) withDefaults() EstimateParams {
	if p.StartHour == 0 && p.EndHour == 0 {
		p.StartHour, p.EndHour = DefaultStartHour, DefaultEndHour
	}
	if p.OccupancyRate == nil {
		v := DefaultOccupancyRate
		p.OccupancyRate = &v
	}
	if p.CleaningFeeRate == nil {
		v := DefaultCleaningFeeRate
		p.CleaningFeeRate = &v
	}
	if p.Days == 0 {
		p.Days = DefaultDays
	}
	return p
}

func (p EstimateParams) validate() error {
	switch {
	case p.StartHour < 0 || p.EndHour > 24 || p.StartHour >= p.EndHour:
		return fmt.Errorf("hours must satisfy 0 <= start_hour < end_hour <= 24, got %v-%v", p.StartHour, p.EndHour)
	case *p.OccupancyRate < 0 || *p.OccupancyRate > 1:
		return fmt.Errorf("occupancy_rate must be within [0, 1], got %v", *p.OccupancyRate)
	case *p.CleaningFeeRate < 0 || *p.CleaningFeeRate > 1:
		return fmt.Errorf("cleaning_fee_rate must be within [0, 1], got %v", *p.CleaningFeeRate)
	case p.Days < 1 || p.Days > 31:
		return fmt.Errorf("days must be within [1, 31], got %d", p.Days)
	}
	return nil
}

// DailySlots counts the half-hour slots between start and end. A boundary
// that is not on the hour loses its partial slot.
func DailySlots(startHour, endHour float64) int {
	slots := int(math.Round((endHour - startHour) * 2))
	if math.Mod(startHour, 1) != 0 {
		slots--
	}
	if math.Mod(endHour, 1) != 0 {
		slots--
	}
	return max(slots, 0)
}

// EstimateRevenue projects a month of net revenue per room. Room prices are
// per hour, so each occupied slot earns half the price.
func EstimateRevenue(rooms []model.Room, params EstimateParams) (*Estimate, error) {
	p := params.withDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}

	daily := DailySlots(p.StartHour, p.EndHour)
	occupied := int(math.Floor(float64(daily) * *p.OccupancyRate))

	est := &Estimate{
		StartHour:       p.StartHour,
		EndHour:         p.EndHour,
		OccupancyRate:   *p.OccupancyRate,
		CleaningFeeRate: *p.CleaningFeeRate,
		Days:            p.Days,
		Rooms:           make([]RoomEstimate, 0, len(rooms)),
	}
	for _, room := range rooms {
		base := float64(occupied) * float64(room.Price) / 2
		cleaning := base * *p.CleaningFeeRate
		net := base - cleaning
		re := RoomEstimate{
			RoomID:            room.ID,
			RoomName:          room.Name,
			Price:             room.Price,
			DailyAvailable:    daily,
			DailyOccupied:     occupied,
			DailyBaseRevenue:  base,
			DailyCleaningFee:  cleaning,
			DailyNetRevenue:   net,
			MonthlyNetRevenue: net * float64(p.Days),
		}
		est.Rooms = append(est.Rooms, re)
		est.TotalMonthlyNet += re.MonthlyNetRevenue
	}
	return est, nil
}
