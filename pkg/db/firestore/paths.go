package firestore

import "cloud.google.com/go/firestore"

// Document layout:
//
//	rooms/{roomId}/{date}/timeSlot      fields keyed by slot start
//	rooms/{roomId}/{date}/openSetting
//	users/{userId}
//	users/{userId}/bookings/{YYYY-MM}   fields keyed by room id
//	cancelBookingRecords/{autoId}
const (
	CollectionRooms         = "rooms"
	CollectionUsers         = "users"
	CollectionBookings      = "bookings"
	CollectionCancelRecords = "cancelBookingRecords"

	DocTimeSlot    = "timeSlot"
	DocOpenSetting = "openSetting"
)

func DayDoc(c *firestore.Client, roomID, date string) *firestore.DocumentRef {
	return c.Collection(CollectionRooms).Doc(roomID).Collection(date).Doc(DocTimeSlot)
}

func OpenSettingDoc(c *firestore.Client, roomID, date string) *firestore.DocumentRef {
	return c.Collection(CollectionRooms).Doc(roomID).Collection(date).Doc(DocOpenSetting)
}

func UserDoc(c *firestore.Client, userID string) *firestore.DocumentRef {
	return c.Collection(CollectionUsers).Doc(userID)
}

func LedgerDoc(c *firestore.Client, userID, month string) *firestore.DocumentRef {
	return UserDoc(c, userID).Collection(CollectionBookings).Doc(month)
}
