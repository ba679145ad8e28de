package validators

import "go.mongodb.org/mongo-driver/bson"

var bookingRecord = bson.M{
	"bsonType": "object",
	"required": []string{"id", "room_id", "date", "start_time", "end_time", "cost", "booker_id"},
	"properties": bson.M{
		"id":         bson.M{"bsonType": "string", "minLength": 1},
		"room_id":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
		"date":       bson.M{"bsonType": "string", "pattern": datePattern},
		"start_time": bson.M{"bsonType": "string", "pattern": slotPattern},
		"end_time":   bson.M{"bsonType": "string", "pattern": slotPattern},
		"cost":       bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
		"booker_id":  bson.M{"bsonType": "string", "minLength": 1},
		"booked_at":  bson.M{"bsonType": "date"},
	},
}

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	monthPattern = `^\d{4}-\d{2}$`
	slotPattern  = `^\d{2}:\d{2}$`
)

// RoomDayValidator checks Room_days documents: one per room and date with a
// slots map keyed by start time.
var RoomDayValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "room_id", "date", "slots"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "string"},
			"room_id": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"date":    bson.M{"bsonType": "string", "pattern": datePattern},
			"slots": bson.M{
				"bsonType":             "object",
				"additionalProperties": bookingRecord,
			},
		},
	},
}
