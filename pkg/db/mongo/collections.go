package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionRoomDays      = "Room_days"
	CollectionUserLedgers   = "User_ledgers"
	CollectionUsers         = "Users"
	CollectionOpenSettings  = "Room_open_settings"
	CollectionCancelRecords = "Cancel_records"
)

// DocID builds composite _id values such as "room_id|date".
func DocID(parts ...string) string {
	return strings.Join(parts, "|")
}

// FieldPath joins dotted update paths. Map keys used here (room ids, slot
// times) never contain '.' or '$'.
func FieldPath(parts ...string) string {
	return strings.Join(parts, ".")
}

// WithTimeout bounds ctx by timeout unless it is a transaction session, which
// cannot be wrapped without losing the session.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
