// Package memory is a single-process document store used when
// STORE_DRIVER=memory and by service tests. Update runs the callback against
// a private copy and publishes it only when the callback succeeds, which
// gives every write path the all-or-nothing behaviour of a real transaction.
package memory

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"roomly/pkg/model"
)

type Data struct {
	Days          map[string]model.DaySlots
	Ledgers       map[string]*model.LedgerBucket
	Users         map[string]*model.User
	OpenSettings  map[string]model.OpenSetting
	CancelRecords []model.CancelRecord
}

type DB struct {
	mu   sync.RWMutex
	data *Data
}

func New() *DB {
	return &DB{data: &Data{
		Days:         make(map[string]model.DaySlots),
		Ledgers:      make(map[string]*model.LedgerBucket),
		Users:        make(map[string]*model.User),
		OpenSettings: make(map[string]model.OpenSetting),
	}}
}

// Key joins document key parts the same way the Mongo driver builds _id.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// View runs fn under a read lock. fn must not retain or mutate d.
func (db *DB) View(fn func(d *Data) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.data)
}

// Update serialises writers and commits the copy fn modified only when fn
// returns nil.
func (db *DB) Update(fn func(d *Data) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	next := db.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	db.data = next
	return nil
}

func (d *Data) clone() *Data {
	out := &Data{
		Days:          make(map[string]model.DaySlots, len(d.Days)),
		Ledgers:       make(map[string]*model.LedgerBucket, len(d.Ledgers)),
		Users:         make(map[string]*model.User, len(d.Users)),
		OpenSettings:  maps.Clone(d.OpenSettings),
		CancelRecords: slices.Clone(d.CancelRecords),
	}
	for k, v := range d.Days {
		out.Days[k] = maps.Clone(v)
	}
	for k, v := range d.Ledgers {
		out.Ledgers[k] = CloneLedger(v)
	}
	for k, v := range d.Users {
		out.Users[k] = CloneUser(v)
	}
	return out
}

func CloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	c.TotalBookings = maps.Clone(u.TotalBookings)
	return &c
}

func CloneLedger(b *model.LedgerBucket) *model.LedgerBucket {
	if b == nil {
		return nil
	}
	c := &model.LedgerBucket{UserID: b.UserID, Month: b.Month, Rooms: make(map[string][]model.BookingRecord, len(b.Rooms))}
	for room, recs := range b.Rooms {
		c.Rooms[room] = slices.Clone(recs)
	}
	return c
}
