package model

import (
	"time"
)

// BookingRecord is one booked half-hour slot. The same record is stored in
// the room's day slot map and in the payer's month ledger.
type BookingRecord struct {
	ID          string    `json:"id" bson:"id" firestore:"id"`
	RoomID      string    `json:"room_id" bson:"room_id" firestore:"roomId"`
	RoomName    string    `json:"room_name" bson:"room_name" firestore:"roomName"`
	Date        string    `json:"date" bson:"date" firestore:"date"`
	StartTime   string    `json:"start_time" bson:"start_time" firestore:"startTime"`
	EndTime     string    `json:"end_time" bson:"end_time" firestore:"endTime"`
	Duration    float64   `json:"duration" bson:"duration" firestore:"duration"`
	Cost        int64     `json:"cost" bson:"cost" firestore:"cost"`
	RoomPrice   int64     `json:"room_price" bson:"room_price" firestore:"roomPrice"`
	Description string    `json:"description" bson:"description" firestore:"description"`
	Booker      string    `json:"booker" bson:"booker" firestore:"booker"`
	BookerID    string    `json:"booker_id" bson:"booker_id" firestore:"bookerId"`
	BookedAt    time.Time `json:"booked_at" bson:"booked_at" firestore:"bookedAt"`
	BookingTime int64     `json:"booking_time" bson:"booking_time" firestore:"bookingTime"`
}

// Month returns the YYYY-MM ledger bucket the record belongs to.
func (r BookingRecord) Month() string {
	if len(r.Date) < 7 {
		return ""
	}
	return r.Date[:7]
}

// DaySlots maps a slot start time (HH:MM) to the record occupying it.
type DaySlots map[string]BookingRecord

// LedgerBucket holds one user's bookings for one month, grouped by room.
type LedgerBucket struct {
	UserID string                     `json:"user_id" bson:"user_id" firestore:"-"`
	Month  string                     `json:"month" bson:"month" firestore:"-"`
	Rooms  map[string][]BookingRecord `json:"rooms" bson:"rooms" firestore:"rooms"`
}

// Find returns the index of the entry for date/startTime in a room array.
func (b *LedgerBucket) Find(roomID, date, startTime string) int {
	if b == nil {
		return -1
	}
	for i, rec := range b.Rooms[roomID] {
		if rec.Date == date && rec.StartTime == startTime {
			return i
		}
	}
	return -1
}

type BookingRequest struct {
	RoomID      string   `json:"room_id" validate:"required,max=64"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Slots       []string `json:"slots" validate:"required,min=1,unique,dive,required,slot_time"`
	Booker      string   `json:"booker" validate:"omitempty,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
}

type BookingResult struct {
	BookingIDs []string        `json:"booking_ids"`
	TotalCost  int64           `json:"total_cost"`
	Bookings   []BookingRecord `json:"bookings"`
	Balance    int64           `json:"balance"`
}

// CancelRequest identifies the slot to release. UserID is the payer whose
// ledger holds the booking and defaults to the caller.
type CancelRequest struct {
	UserID    string `json:"user_id" validate:"omitempty,max=128"`
	RoomID    string `json:"room_id" validate:"required,max=64"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,slot_time"`
}

type CancelResult struct {
	Booking  BookingRecord `json:"booking"`
	Refunded int64         `json:"refunded"`
}

// DayAvailability is the room/date view served to booking clients.
type DayAvailability struct {
	RoomID      string          `json:"room_id"`
	Date        string          `json:"date"`
	OpenSetting OpenSetting     `json:"open_setting"`
	Bookings    []BookingRecord `json:"bookings"`
	Available   []string        `json:"available"`
}
