package model

import "time"

// CancelRecord is an immutable audit entry written after a cancellation.
type CancelRecord struct {
	ID                  string        `json:"id" bson:"_id" firestore:"-"`
	OperatorID          string        `json:"operator_id" bson:"operator_id" firestore:"operatorId"`
	OperatorEmail       string        `json:"operator_email" bson:"operator_email" firestore:"operatorEmail"`
	OperatorDisplayName string        `json:"operator_display_name" bson:"operator_display_name" firestore:"operatorDisplayName"`
	TargetUserID        string        `json:"target_user_id" bson:"target_user_id" firestore:"targetUserId"`
	CanceledAt          time.Time     `json:"canceled_at" bson:"canceled_at" firestore:"canceledAt"`
	BookingDetail       BookingDetail `json:"booking_detail" bson:"booking_detail" firestore:"bookingDetail"`
}

type BookingDetail struct {
	ID          string `json:"id" bson:"id" firestore:"id"`
	RoomID      string `json:"room_id" bson:"room_id" firestore:"roomId"`
	RoomName    string `json:"room_name" bson:"room_name" firestore:"roomName"`
	Booker      string `json:"booker" bson:"booker" firestore:"booker"`
	Date        string `json:"date" bson:"date" firestore:"date"`
	StartTime   string `json:"start_time" bson:"start_time" firestore:"startTime"`
	EndTime     string `json:"end_time" bson:"end_time" firestore:"endTime"`
	Cost        int64  `json:"cost" bson:"cost" firestore:"cost"`
	Description string `json:"description" bson:"description" firestore:"description"`
	BookingTime int64  `json:"booking_time" bson:"booking_time" firestore:"bookingTime"`
}

func DetailOf(r BookingRecord) BookingDetail {
	return BookingDetail{
		ID:          r.ID,
		RoomID:      r.RoomID,
		RoomName:    r.RoomName,
		Booker:      r.Booker,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Cost:        r.Cost,
		Description: r.Description,
		BookingTime: r.BookingTime,
	}
}
