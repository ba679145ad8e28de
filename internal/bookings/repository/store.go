package repository

import (
	"context"

	"roomly/pkg/model"
)

// Store is the slot availability store and user ledger. All three drivers
// (mongo, firestore, memory) satisfy the same contract.
type Store interface {
	// GetDay returns the occupied slots of a room/date. A date with no
	// container yields an empty map.
	GetDay(ctx context.Context, roomID, date string) (model.DaySlots, error)
	GetDays(ctx context.Context, roomID string, dates []string) (map[string]model.DaySlots, error)
	// GetLedger returns an empty bucket when the month has no bookings.
	GetLedger(ctx context.Context, userID, month string) (*model.LedgerBucket, error)
	ListLedgers(ctx context.Context, userID string) ([]*model.LedgerBucket, error)
	RunInTransaction(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
}

type TxFunc func(ctx context.Context, tx Tx) error

// Tx is the view of the store inside one transaction. Every read must be
// issued before the first write.
type Tx interface {
	// GetUser fails with bookingserrors.ErrUserNotFound for unknown ids.
	GetUser(userID string) (*model.User, error)
	GetDay(roomID, date string) (model.DaySlots, error)
	// GetOpenSetting returns nil when no setting is stored.
	GetOpenSetting(roomID, date string) (*model.OpenSetting, error)
	GetLedger(userID, month string) (*model.LedgerBucket, error)

	PutSlots(roomID, date string, records []model.BookingRecord) error
	// DeleteSlot removes one slot. dropContainer deletes the whole date
	// container and must be set when the slot was the last one.
	DeleteSlot(roomID, date, startTime string, dropContainer bool) error
	AppendLedger(userID, month, roomID string, records []model.BookingRecord) error
	ReplaceLedgerRoom(userID, month, roomID string, records []model.BookingRecord) error
	IncrementTotalBookings(userID, roomID string, delta int64) error
	IncrementBalance(userID string, delta int64) error
}

func emptyLedger(userID, month string) *model.LedgerBucket {
	return &model.LedgerBucket{UserID: userID, Month: month, Rooms: map[string][]model.BookingRecord{}}
}
