package validators

import "go.mongodb.org/mongo-driver/bson"

var OpenSettingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "room_id", "date", "morning", "afternoon", "evening"},
		"additionalProperties": true,
		"properties": bson.M{
			"room_id":   bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64},
			"date":      bson.M{"bsonType": "string", "pattern": datePattern},
			"morning":   bson.M{"bsonType": "bool"},
			"afternoon": bson.M{"bsonType": "bool"},
			"evening":   bson.M{"bsonType": "bool"},
		},
	},
}

var CancelRecordValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "operator_id", "target_user_id", "canceled_at", "booking_detail"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "string", "minLength": 1},
			"operator_id":    bson.M{"bsonType": "string", "minLength": 1},
			"target_user_id": bson.M{"bsonType": "string", "minLength": 1},
			"canceled_at":    bson.M{"bsonType": "date"},
			"booking_detail": bson.M{
				"bsonType": "object",
				"required": []string{"room_id", "date", "start_time"},
			},
		},
	},
}
