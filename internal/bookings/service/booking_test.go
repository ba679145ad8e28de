package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"roomly/internal/bookings/repository"
	"roomly/internal/bookings/validator"
	"roomly/internal/notifications"
	"roomly/internal/rooms/catalog"
	roomrepo "roomly/internal/rooms/repository"
	userrepo "roomly/internal/users/repository"
	userservice "roomly/internal/users/service"
	"roomly/pkg/config"
	"roomly/pkg/db/memory"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

const (
	piano    = "general-piano-room"
	studio   = "standard-recording-studio"
	bookDate = "2025-03-14"
)

var taipei = time.FixedZone("CST", 8*60*60)

type mockNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (m *mockNotifier) Notify(_ context.Context, ev notifications.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

type mockAudit struct {
	mu      sync.Mutex
	records []model.CancelRecord
}

func (m *mockAudit) Record(_ context.Context, rec model.CancelRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

type fixture struct {
	db       *memory.DB
	svc      BookingService
	notifier *mockNotifier
	audit    *mockAudit
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, catalog.DefaultRooms(), nil)
}

func newFixtureWith(t *testing.T, roomList []model.Room, holidays []string) *fixture {
	t.Helper()

	rooms, err := catalog.New(roomList, holidays)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	cfg := &config.Config{
		Log:                logger.Discard(),
		Location:           taipei,
		MaxSlotsPerBooking: 24,
		DefaultUserBalance: 500,
	}

	f := &fixture{
		db:       memory.New(),
		notifier: &mockNotifier{},
		audit:    &mockAudit{},
		now:      time.Date(2025, 3, 10, 8, 0, 0, 0, taipei),
	}
	f.seedUser(t, &model.User{ID: "alice", DisplayName: "Alice", Role: model.RoleUser, Balance: 500})
	f.seedUser(t, &model.User{ID: "bob", DisplayName: "Bob", Role: model.RoleUser, Balance: 50})
	f.seedUser(t, &model.User{ID: "admin", DisplayName: "Admin", Role: model.RoleAdmin})

	access := userservice.NewUserService(userrepo.NewMemoryUserRepository(f.db), rooms.RoomIDs(), cfg)
	f.svc = NewBookingService(
		repository.NewMemoryStore(f.db),
		rooms,
		roomrepo.NewMemoryOpenSettingRepository(f.db),
		access,
		f.audit,
		f.notifier,
		validator.NewBookingValidator(rooms.Slots, cfg.MaxSlotsPerBooking, cfg.Log),
		cfg,
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) seedUser(t *testing.T, u *model.User) {
	t.Helper()
	err := f.db.Update(func(d *memory.Data) error {
		d.Users[u.ID] = u
		return nil
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func (f *fixture) closeEvening(t *testing.T, roomID, date string) {
	t.Helper()
	setting := model.DefaultOpenSetting(roomID, date)
	setting.Evening = false
	err := f.db.Update(func(d *memory.Data) error {
		d.OpenSettings[memory.Key(roomID, date)] = setting
		return nil
	})
	if err != nil {
		t.Fatalf("seed open setting: %v", err)
	}
}

func (f *fixture) user(t *testing.T, id string) *model.User {
	t.Helper()
	var out *model.User
	_ = f.db.View(func(d *memory.Data) error {
		out = memory.CloneUser(d.Users[id])
		return nil
	})
	if out == nil {
		t.Fatalf("user %q missing", id)
	}
	return out
}

func (f *fixture) slots(roomID, date string) model.DaySlots {
	var out model.DaySlots
	_ = f.db.View(func(d *memory.Data) error {
		out = d.Days[memory.Key(roomID, date)]
		return nil
	})
	return out
}

func (f *fixture) ledger(userID, month, roomID string) []model.BookingRecord {
	var out []model.BookingRecord
	_ = f.db.View(func(d *memory.Data) error {
		if b := d.Ledgers[memory.Key(userID, month)]; b != nil {
			out = b.Rooms[roomID]
		}
		return nil
	})
	return out
}

func (f *fixture) book(t *testing.T, userID, roomID string, slots ...string) *model.BookingResult {
	t.Helper()
	res, err := f.svc.SubmitBooking(context.Background(), caller(userID), &model.BookingRequest{
		RoomID: roomID,
		Date:   bookDate,
		Slots:  slots,
	})
	if err != nil {
		t.Fatalf("SubmitBooking(%s, %v) error = %v", userID, slots, err)
	}
	return res
}

func caller(id string) *identity.Identity {
	return &identity.Identity{UserID: id, Email: id + "@example.com"}
}

func assertAppError(t *testing.T, err error, wantStatus int, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", wantStatus)
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.StatusCode() != wantStatus {
		t.Errorf("status = %d, want %d (%v)", appErr.StatusCode(), wantStatus, err)
	}
	if wantCode != "" && appErr.Code != wantCode {
		t.Errorf("code = %s, want %s", appErr.Code, wantCode)
	}
}

func TestSubmitBooking_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.SubmitBooking(context.Background(), caller("alice"), &model.BookingRequest{
		RoomID:      piano,
		Date:        bookDate,
		Slots:       []string{"10:30", "10:00"},
		Description: "  scales  ",
	})
	if err != nil {
		t.Fatalf("SubmitBooking() error = %v", err)
	}

	if res.TotalCost != 200 || res.Balance != 300 || len(res.BookingIDs) != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	// records follow slot order, not request order
	if b := res.Bookings[0]; b.Booker != "Alice" || b.StartTime != "10:00" || b.EndTime != "10:30" {
		t.Errorf("unexpected first record %+v", b)
	}
	if b := res.Bookings[1]; b.StartTime != "10:30" || b.EndTime != "11:00" || b.Description != "scales" {
		t.Errorf("unexpected second record %+v", b)
	}

	u := f.user(t, "alice")
	if u.Balance != 300 || u.TotalBookings[piano] != 2 {
		t.Errorf("user after booking = balance %d, bookings %v", u.Balance, u.TotalBookings)
	}
	if got := f.slots(piano, bookDate); len(got) != 2 {
		t.Errorf("day slots = %d, want 2", len(got))
	}
	if got := f.ledger("alice", "2025-03", piano); len(got) != 2 {
		t.Errorf("ledger entries = %d, want 2", len(got))
	}

	if len(f.notifier.events) != 1 || f.notifier.events[0].Type != notifications.EventBookingCreated {
		t.Fatalf("notifier events = %+v", f.notifier.events)
	}
	if ev := f.notifier.events[0]; ev.Cost != 200 || ev.UserID != "alice" || ev.RoomID != piano {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestSubmitBooking_AdminNotDebited(t *testing.T) {
	f := newFixture(t)

	res := f.book(t, "admin", studio, "14:00", "14:30")
	if res.TotalCost != 700 || res.Balance != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if u := f.user(t, "admin"); u.Balance != 0 || u.TotalBookings[studio] != 2 {
		t.Errorf("admin after booking = balance %d, bookings %v", u.Balance, u.TotalBookings)
	}
}

func TestSubmitBooking_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, f *fixture)
		caller     *identity.Identity
		req        model.BookingRequest
		wantStatus int
		wantCode   string
	}{
		{
			name:       "insufficient balance",
			caller:     caller("bob"),
			req:        model.BookingRequest{RoomID: studio, Date: bookDate, Slots: []string{"10:00"}},
			wantStatus: http.StatusPaymentRequired,
			wantCode:   apperrors.CodeInsufficientBalance,
		},
		{
			name:       "slot closed",
			setup:      func(t *testing.T, f *fixture) { f.closeEvening(t, piano, bookDate) },
			caller:     caller("alice"),
			req:        model.BookingRequest{RoomID: piano, Date: bookDate, Slots: []string{"17:30", "18:00"}},
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.CodeSlotClosed,
		},
		{
			name:       "conflict",
			setup:      func(t *testing.T, f *fixture) { f.book(t, "admin", piano, "10:00") },
			caller:     caller("alice"),
			req:        model.BookingRequest{RoomID: piano, Date: bookDate, Slots: []string{"09:30", "10:00"}},
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.CodeSlotConflict,
		},
		{
			name:       "slot in the past",
			caller:     caller("alice"),
			req:        model.BookingRequest{RoomID: piano, Date: "2025-03-09", Slots: []string{"10:00"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "repeated slot",
			caller:     caller("alice"),
			req:        model.BookingRequest{RoomID: piano, Date: bookDate, Slots: []string{"12:00", " 12:00"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.CodeValidation,
		},
		{
			name:       "misaligned slot",
			caller:     caller("alice"),
			req:        model.BookingRequest{RoomID: piano, Date: bookDate, Slots: []string{"10:15"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown room",
			caller:     caller("alice"),
			req:        model.BookingRequest{RoomID: "drum-room", Date: bookDate, Slots: []string{"10:00"}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing profile",
			caller:     caller("ghost"),
			req:        model.BookingRequest{RoomID: piano, Date: bookDate, Slots: []string{"10:00"}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unauthenticated",
			req:        model.BookingRequest{RoomID: piano, Date: bookDate, Slots: []string{"10:00"}},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			before := len(f.slots(tt.req.RoomID, tt.req.Date))
			notified := len(f.notifier.events)

			req := tt.req
			_, err := f.svc.SubmitBooking(context.Background(), tt.caller, &req)
			assertAppError(t, err, tt.wantStatus, tt.wantCode)

			if after := len(f.slots(tt.req.RoomID, tt.req.Date)); after != before {
				t.Errorf("rejected booking changed the day: %d slots, want %d", after, before)
			}
			if len(f.notifier.events) != notified {
				t.Errorf("rejected booking must not notify")
			}
			if u := f.user(t, "alice"); u.Balance != 500 {
				t.Errorf("alice balance = %d, want 500", u.Balance)
			}
		})
	}
}

func TestSubmitBooking_HolidayPrice(t *testing.T) {
	holidayPrice := int64(150)
	roomList := catalog.DefaultRooms()
	roomList[0].HolidayPrice = &holidayPrice
	f := newFixtureWith(t, roomList, []string{bookDate})

	res := f.book(t, "alice", piano, "10:00", "10:30")
	if res.TotalCost != 300 || res.Balance != 200 {
		t.Fatalf("holiday booking = %+v, want cost 300 balance 200", res)
	}
	for _, b := range res.Bookings {
		if b.Cost != holidayPrice {
			t.Errorf("record %s cost = %d, want %d", b.StartTime, b.Cost, holidayPrice)
		}
	}

	// a regular day keeps the normal price
	weekday, err := f.svc.SubmitBooking(context.Background(), caller("alice"), &model.BookingRequest{
		RoomID: piano, Date: "2025-03-17", Slots: []string{"10:00"},
	})
	if err != nil {
		t.Fatalf("SubmitBooking() error = %v", err)
	}
	if weekday.TotalCost != 100 {
		t.Errorf("regular day cost = %d, want 100", weekday.TotalCost)
	}

	cancel, err := f.svc.CancelBooking(context.Background(), caller("alice"), &model.CancelRequest{
		RoomID: piano, Date: bookDate, StartTime: "10:30",
	})
	if err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if cancel.Refunded != holidayPrice {
		t.Errorf("refunded = %d, want %d", cancel.Refunded, holidayPrice)
	}
	if u := f.user(t, "alice"); u.Balance != 500-300-100+150 {
		t.Errorf("alice balance = %d, want %d", u.Balance, 500-300-100+150)
	}
}

func TestSubmitBooking_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	const racers = 20
	for i := 0; i < racers; i++ {
		f.seedUser(t, &model.User{ID: fmt.Sprintf("racer-%d", i), Role: model.RoleUser, Balance: 500})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      []string
		conflicts int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.SubmitBooking(context.Background(), caller(id), &model.BookingRequest{
				RoomID: piano,
				Date:   bookDate,
				Slots:  []string{"10:00"},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins = append(wins, id)
				return
			}
			if appErr := apperrors.AsAppError(err); appErr != nil && appErr.Code == apperrors.CodeSlotConflict {
				conflicts++
			}
		}(fmt.Sprintf("racer-%d", i))
	}
	wg.Wait()

	if len(wins) != 1 || conflicts != racers-1 {
		t.Fatalf("wins = %v, conflicts = %d; want exactly one winner", wins, conflicts)
	}
	slot := f.slots(piano, bookDate)["10:00"]
	if slot.BookerID != wins[0] {
		t.Errorf("slot owner = %q, want %q", slot.BookerID, wins[0])
	}
	for i := 0; i < racers; i++ {
		id := fmt.Sprintf("racer-%d", i)
		want := int64(500)
		if id == wins[0] {
			want = 400
		}
		if u := f.user(t, id); u.Balance != want {
			t.Errorf("%s balance = %d, want %d", id, u.Balance, want)
		}
	}
}

func TestCancelBooking_OwnerRefunded(t *testing.T) {
	f := newFixture(t)
	f.book(t, "alice", piano, "10:00", "10:30")

	res, err := f.svc.CancelBooking(context.Background(), caller("alice"), &model.CancelRequest{
		RoomID:    piano,
		Date:      bookDate,
		StartTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if res.Refunded != 100 || res.Booking.StartTime != "10:00" {
		t.Errorf("unexpected result %+v", res)
	}

	u := f.user(t, "alice")
	if u.Balance != 400 || u.TotalBookings[piano] != 1 {
		t.Errorf("user after cancel = balance %d, bookings %v", u.Balance, u.TotalBookings)
	}
	slots := f.slots(piano, bookDate)
	if _, ok := slots["10:00"]; ok || len(slots) != 1 {
		t.Errorf("day after cancel = %v", slots)
	}
	if got := f.ledger("alice", "2025-03", piano); len(got) != 1 || got[0].StartTime != "10:30" {
		t.Errorf("ledger after cancel = %+v", got)
	}

	if len(f.audit.records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(f.audit.records))
	}
	rec := f.audit.records[0]
	if rec.OperatorID != "alice" || rec.TargetUserID != "alice" || rec.OperatorDisplayName != "Alice" || rec.ID == "" {
		t.Errorf("unexpected audit record %+v", rec)
	}
	if last := f.notifier.events[len(f.notifier.events)-1]; last.Type != notifications.EventBookingCancelled || last.Cost != 100 {
		t.Errorf("unexpected cancel event %+v", last)
	}
}

func TestCancelBooking_LastSlotDropsDay(t *testing.T) {
	f := newFixture(t)
	f.book(t, "alice", piano, "10:00")

	if _, err := f.svc.CancelBooking(context.Background(), caller("alice"), &model.CancelRequest{
		RoomID: piano, Date: bookDate, StartTime: "10:00",
	}); err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	_ = f.db.View(func(d *memory.Data) error {
		if _, ok := d.Days[memory.Key(piano, bookDate)]; ok {
			t.Errorf("empty day container should be removed")
		}
		return nil
	})
}

func TestCancelBooking_AdminOnBehalf(t *testing.T) {
	f := newFixture(t)
	f.book(t, "alice", studio, "15:00")

	res, err := f.svc.CancelBooking(context.Background(), caller("admin"), &model.CancelRequest{
		UserID: "alice", RoomID: studio, Date: bookDate, StartTime: "15:00",
	})
	if err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if res.Refunded != 350 {
		t.Errorf("refunded = %d, want 350", res.Refunded)
	}
	if u := f.user(t, "alice"); u.Balance != 500 {
		t.Errorf("alice balance = %d, want 500", u.Balance)
	}
	if rec := f.audit.records[0]; rec.OperatorID != "admin" || rec.TargetUserID != "alice" {
		t.Errorf("unexpected audit record %+v", rec)
	}
}

func TestCancelBooking_AdminTargetNotRefunded(t *testing.T) {
	f := newFixture(t)
	f.book(t, "admin", studio, "15:00")

	res, err := f.svc.CancelBooking(context.Background(), caller("admin"), &model.CancelRequest{
		RoomID: studio, Date: bookDate, StartTime: "15:00",
	})
	if err != nil {
		t.Fatalf("CancelBooking() error = %v", err)
	}
	if res.Refunded != 0 || f.user(t, "admin").Balance != 0 {
		t.Errorf("admin bookings must not be refunded, got %+v", res)
	}
}

func TestCancelBooking_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		caller     string
		req        model.CancelRequest
		at         time.Time
		wantStatus int
	}{
		{
			name:       "someone else's booking",
			caller:     "bob",
			req:        model.CancelRequest{UserID: "alice", RoomID: piano, Date: bookDate, StartTime: "10:00"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "slot already started",
			caller:     "alice",
			req:        model.CancelRequest{RoomID: piano, Date: bookDate, StartTime: "10:00"},
			at:         time.Date(2025, 3, 14, 10, 0, 0, 0, taipei),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin also bound by the window",
			caller:     "admin",
			req:        model.CancelRequest{UserID: "alice", RoomID: piano, Date: bookDate, StartTime: "10:00"},
			at:         time.Date(2025, 3, 14, 11, 0, 0, 0, taipei),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no such booking",
			caller:     "alice",
			req:        model.CancelRequest{RoomID: piano, Date: bookDate, StartTime: "11:00"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid start time",
			caller:     "alice",
			req:        model.CancelRequest{RoomID: piano, Date: bookDate, StartTime: "25:00"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.book(t, "alice", piano, "10:00")
			if !tt.at.IsZero() {
				f.now = tt.at
			}

			req := tt.req
			_, err := f.svc.CancelBooking(context.Background(), caller(tt.caller), &req)
			assertAppError(t, err, tt.wantStatus, "")

			if _, ok := f.slots(piano, bookDate)["10:00"]; !ok {
				t.Errorf("rejected cancel removed the slot")
			}
			if f.user(t, "alice").Balance != 400 {
				t.Errorf("rejected cancel changed the balance")
			}
			if len(f.audit.records) != 0 {
				t.Errorf("rejected cancel must not be audited")
			}
		})
	}
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	f.closeEvening(t, piano, bookDate)
	f.book(t, "alice", piano, "10:00")
	f.now = time.Date(2025, 3, 14, 9, 45, 0, 0, taipei)

	av, err := f.svc.GetAvailability(context.Background(), piano, bookDate)
	if err != nil {
		t.Fatalf("GetAvailability() error = %v", err)
	}
	if av.OpenSetting.Evening || !av.OpenSetting.Morning {
		t.Errorf("unexpected open setting %+v", av.OpenSetting)
	}
	if len(av.Bookings) != 1 || av.Bookings[0].StartTime != "10:00" {
		t.Errorf("bookings = %+v", av.Bookings)
	}
	if len(av.Available) != 15 || av.Available[0] != "10:30" || av.Available[14] != "17:30" {
		t.Errorf("available = %v", av.Available)
	}

	if _, err := f.svc.GetAvailability(context.Background(), piano, "14-03-2025"); err == nil {
		t.Errorf("malformed date should be rejected")
	}
}

func TestGetMonthBookings(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, &model.User{ID: "alice", DisplayName: "Alice", Role: model.RoleUser, Balance: 1000})
	f.book(t, "alice", studio, "10:00")
	f.book(t, "alice", piano, "10:00", "09:00")
	ctx := context.Background()

	got, err := f.svc.GetMonthBookings(ctx, caller("admin"), AllRooms, "2025-03")
	if err != nil {
		t.Fatalf("GetMonthBookings() error = %v", err)
	}
	want := []struct{ start, room string }{
		{"09:00", piano},
		{"10:00", piano},
		{"10:00", studio},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d bookings, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].StartTime != w.start || got[i].RoomID != w.room {
			t.Errorf("booking %d = %s %s, want %s %s", i, got[i].StartTime, got[i].RoomID, w.start, w.room)
		}
	}

	one, err := f.svc.GetMonthBookings(ctx, caller("admin"), studio, "2025-03")
	if err != nil || len(one) != 1 {
		t.Errorf("single room = %d bookings, err %v", len(one), err)
	}

	_, err = f.svc.GetMonthBookings(ctx, caller("alice"), AllRooms, "2025-03")
	assertAppError(t, err, http.StatusForbidden, "")
	_, err = f.svc.GetMonthBookings(ctx, caller("admin"), AllRooms, "2025-13")
	assertAppError(t, err, http.StatusBadRequest, "")
	_, err = f.svc.GetMonthBookings(ctx, caller("admin"), "drum-room", "2025-03")
	assertAppError(t, err, http.StatusNotFound, "")
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture(t)
	f.book(t, "alice", piano, "11:00", "10:00")
	err := f.db.Update(func(d *memory.Data) error {
		d.Ledgers[memory.Key("alice", "2025-02")] = &model.LedgerBucket{
			UserID: "alice",
			Month:  "2025-02",
			Rooms: map[string][]model.BookingRecord{
				piano: {{Date: "2025-02-20", StartTime: "09:00", BookingTime: 1700000000000}},
			},
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	ctx := context.Background()

	all, err := f.svc.GetUserBookings(ctx, caller("alice"), "alice", AllRooms)
	if err != nil {
		t.Fatalf("GetUserBookings() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d bookings, want 3", len(all))
	}
	if all[0].StartTime != "10:00" || all[1].StartTime != "11:00" || all[2].Date != "2025-02-20" {
		t.Errorf("unexpected order: %s %s, %s %s, %s", all[0].Date, all[0].StartTime, all[1].Date, all[1].StartTime, all[2].Date)
	}
	if legacy := all[2]; legacy.ID != "2025-02_general-piano-room_1700000000000" || legacy.RoomID != piano {
		t.Errorf("legacy record = %+v", legacy)
	}

	march, err := f.svc.GetUserBookings(ctx, caller("admin"), "alice", "2025-03")
	if err != nil || len(march) != 2 {
		t.Errorf("admin month view = %d bookings, err %v", len(march), err)
	}

	empty, err := f.svc.GetUserBookings(ctx, caller("bob"), "bob", "2025-03")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("empty ledger = %v, err %v; want empty non-nil slice", empty, err)
	}

	_, err = f.svc.GetUserBookings(ctx, caller("bob"), "alice", "2025-03")
	assertAppError(t, err, http.StatusForbidden, "")
	_, err = f.svc.GetUserBookings(ctx, caller("alice"), "alice", "march")
	assertAppError(t, err, http.StatusBadRequest, "")
}
