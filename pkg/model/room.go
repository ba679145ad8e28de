package model

import "time"

const (
	CategoryMorning   = "morning"
	CategoryAfternoon = "afternoon"
	CategoryEvening   = "evening"
)

type Room struct {
	ID           string `json:"id" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=100"`
	Capacity     int    `json:"capacity" validate:"min=1"`
	Price        int64  `json:"price" validate:"min=0"`
	HolidayPrice *int64 `json:"holiday_price,omitempty" validate:"omitempty,min=0"`
	Description  string `json:"description,omitempty" validate:"max=500"`
	Color        string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// OpenSetting records which time categories of a room/date accept bookings.
// A room/date without a stored setting is fully open.
type OpenSetting struct {
	RoomID    string    `json:"room_id" bson:"room_id" firestore:"-"`
	Date      string    `json:"date" bson:"date" firestore:"-"`
	Morning   bool      `json:"morning" bson:"morning" firestore:"morning"`
	Afternoon bool      `json:"afternoon" bson:"afternoon" firestore:"afternoon"`
	Evening   bool      `json:"evening" bson:"evening" firestore:"evening"`
	UpdatedBy string    `json:"updated_by,omitempty" bson:"updated_by,omitempty" firestore:"updatedBy,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

func DefaultOpenSetting(roomID, date string) OpenSetting {
	return OpenSetting{RoomID: roomID, Date: date, Morning: true, Afternoon: true, Evening: true}
}

func (s OpenSetting) IsOpen(category string) bool {
	switch category {
	case CategoryMorning:
		return s.Morning
	case CategoryAfternoon:
		return s.Afternoon
	case CategoryEvening:
		return s.Evening
	}
	return false
}

type OpenSettingUpdate struct {
	Morning   *bool `json:"morning" validate:"required"`
	Afternoon *bool `json:"afternoon" validate:"required"`
	Evening   *bool `json:"evening" validate:"required"`
}
