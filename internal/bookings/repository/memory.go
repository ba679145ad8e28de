package repository

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/pkg/db/memory"
	"roomly/pkg/model"
)

type memoryStore struct {
	db *memory.DB
}

func NewMemoryStore(db *memory.DB) Store {
	return &memoryStore{db: db}
}

func (s *memoryStore) GetDay(_ context.Context, roomID, date string) (model.DaySlots, error) {
	var out model.DaySlots
	err := s.db.View(func(d *memory.Data) error {
		out = maps.Clone(d.Days[memory.Key(roomID, date)])
		return nil
	})
	if out == nil {
		out = model.DaySlots{}
	}
	return out, err
}

func (s *memoryStore) GetDays(_ context.Context, roomID string, dates []string) (map[string]model.DaySlots, error) {
	out := make(map[string]model.DaySlots, len(dates))
	err := s.db.View(func(d *memory.Data) error {
		for _, date := range dates {
			if slots, ok := d.Days[memory.Key(roomID, date)]; ok {
				out[date] = maps.Clone(slots)
			}
		}
		return nil
	})
	return out, err
}

func (s *memoryStore) GetLedger(_ context.Context, userID, month string) (*model.LedgerBucket, error) {
	var out *model.LedgerBucket
	err := s.db.View(func(d *memory.Data) error {
		out = memory.CloneLedger(d.Ledgers[memory.Key(userID, month)])
		return nil
	})
	if out == nil {
		out = emptyLedger(userID, month)
	}
	return out, err
}

func (s *memoryStore) ListLedgers(_ context.Context, userID string) ([]*model.LedgerBucket, error) {
	var out []*model.LedgerBucket
	prefix := memory.Key(userID, "")
	err := s.db.View(func(d *memory.Data) error {
		for key, bucket := range d.Ledgers {
			if strings.HasPrefix(key, prefix) {
				out = append(out, memory.CloneLedger(bucket))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, err
}

func (s *memoryStore) RunInTransaction(ctx context.Context, fn TxFunc) error {
	return s.db.Update(func(d *memory.Data) error {
		return fn(ctx, &memoryTx{d: d})
	})
}

func (s *memoryStore) Ping(context.Context) error { return nil }

type memoryTx struct {
	d *memory.Data
}

func (t *memoryTx) GetUser(userID string) (*model.User, error) {
	u, ok := t.d.Users[userID]
	if !ok {
		return nil, bookingserrors.ErrUserNotFound
	}
	return memory.CloneUser(u), nil
}

func (t *memoryTx) GetDay(roomID, date string) (model.DaySlots, error) {
	out := maps.Clone(t.d.Days[memory.Key(roomID, date)])
	if out == nil {
		out = model.DaySlots{}
	}
	return out, nil
}

func (t *memoryTx) GetOpenSetting(roomID, date string) (*model.OpenSetting, error) {
	setting, ok := t.d.OpenSettings[memory.Key(roomID, date)]
	if !ok {
		return nil, nil
	}
	return &setting, nil
}

func (t *memoryTx) GetLedger(userID, month string) (*model.LedgerBucket, error) {
	if b := t.d.Ledgers[memory.Key(userID, month)]; b != nil {
		return memory.CloneLedger(b), nil
	}
	return emptyLedger(userID, month), nil
}

func (t *memoryTx) PutSlots(roomID, date string, records []model.BookingRecord) error {
	key := memory.Key(roomID, date)
	day := t.d.Days[key]
	if day == nil {
		day = model.DaySlots{}
		t.d.Days[key] = day
	}
	for _, rec := range records {
		day[rec.StartTime] = rec
	}
	return nil
}

func (t *memoryTx) DeleteSlot(roomID, date, startTime string, dropContainer bool) error {
	key := memory.Key(roomID, date)
	if dropContainer {
		delete(t.d.Days, key)
		return nil
	}
	if day := t.d.Days[key]; day != nil {
		delete(day, startTime)
	}
	return nil
}

func (t *memoryTx) bucket(userID, month string) *model.LedgerBucket {
	key := memory.Key(userID, month)
	b := t.d.Ledgers[key]
	if b == nil {
		b = emptyLedger(userID, month)
		t.d.Ledgers[key] = b
	}
	return b
}

func (t *memoryTx) AppendLedger(userID, month, roomID string, records []model.BookingRecord) error {
	b := t.bucket(userID, month)
	b.Rooms[roomID] = append(b.Rooms[roomID], records...)
	return nil
}

func (t *memoryTx) ReplaceLedgerRoom(userID, month, roomID string, records []model.BookingRecord) error {
	b := t.bucket(userID, month)
	b.Rooms[roomID] = slices.Clone(records)
	return nil
}

func (t *memoryTx) IncrementTotalBookings(userID, roomID string, delta int64) error {
	u, ok := t.d.Users[userID]
	if !ok {
		return bookingserrors.ErrUserNotFound
	}
	if u.TotalBookings == nil {
		u.TotalBookings = map[string]int64{}
	}
	u.TotalBookings[roomID] += delta
	return nil
}

func (t *memoryTx) IncrementBalance(userID string, delta int64) error {
	u, ok := t.d.Users[userID]
	if !ok {
		return bookingserrors.ErrUserNotFound
	}
	u.Balance += delta
	return nil
}
