package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "role", "balance", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":          bson.M{"bsonType": "string", "minLength": 1, "maxLength": 128},
			"email":        bson.M{"bsonType": "string"},
			"display_name": bson.M{"bsonType": "string", "maxLength": 50},
			"role":         bson.M{"bsonType": "string", "enum": []string{"user", "admin"}},
			"balance":      bson.M{"bsonType": []string{"int", "long"}},
			"total_bookings": bson.M{
				"bsonType":             "object",
				"additionalProperties": bson.M{"bsonType": []string{"int", "long"}},
			},
			"last_login_at": bson.M{"bsonType": "date"},
			"created_at":    bson.M{"bsonType": "date"},
			"updated_at":    bson.M{"bsonType": "date"},
		},
	},
}

// UserLedgerValidator checks per user month buckets of booking records
// grouped by room.
var UserLedgerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "user_id", "month"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     bson.M{"bsonType": "string"},
			"user_id": bson.M{"bsonType": "string", "minLength": 1},
			"month":   bson.M{"bsonType": "string", "pattern": monthPattern},
			"rooms": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "array",
					"items":    bookingRecord,
				},
			},
		},
	},
}
