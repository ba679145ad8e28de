package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/internal/bookings/repository"
	"roomly/internal/bookings/validator"
	"roomly/internal/notifications"
	"roomly/internal/rooms/catalog"
	"roomly/pkg/config"
	"roomly/pkg/db"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
	"roomly/pkg/validation"

	"github.com/google/uuid"
)

const AllRooms = "all"

type BookingService interface {
	SubmitBooking(ctx context.Context, caller *identity.Identity, req *model.BookingRequest) (*model.BookingResult, error)
	CancelBooking(ctx context.Context, caller *identity.Identity, req *model.CancelRequest) (*model.CancelResult, error)
	GetBookingsForDate(ctx context.Context, roomID, date string) ([]model.BookingRecord, error)
	GetAvailability(ctx context.Context, roomID, date string) (*model.DayAvailability, error)
	GetMonthBookings(ctx context.Context, caller *identity.Identity, roomID, month string) ([]model.BookingRecord, error)
	GetUserBookings(ctx context.Context, caller *identity.Identity, userID, month string) ([]model.BookingRecord, error)
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, caller *identity.Identity) error
	RequireSelfOrAdmin(ctx context.Context, caller *identity.Identity, userID string) error
}

// AuditTrail stores cancellation records after the cancel transaction has
// committed. Implementations must not fail the cancellation.
type AuditTrail interface {
	Record(ctx context.Context, rec model.CancelRecord)
}

type OpenSettingReader interface {
	Get(ctx context.Context, roomID, date string) (*model.OpenSetting, error)
}

type bookingService struct {
	store     repository.Store
	catalog   *catalog.Catalog
	settings  OpenSettingReader
	access    Authorizer
	audit     AuditTrail
	notifier  notifications.Notifier
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

type Option func(*bookingService)

// WithClock replaces the wall clock used for validation and cancel windows.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) { s.now = now }
}

func NewBookingService(
	store repository.Store,
	rooms *catalog.Catalog,
	settings OpenSettingReader,
	access Authorizer,
	audit AuditTrail,
	notifier notifications.Notifier,
	validator *validator.BookingValidator,
	cfg *config.Config,
	opts ...Option,
) BookingService {
	s := &bookingService{
		store:     store,
		catalog:   rooms,
		settings:  settings,
		access:    access,
		audit:     audit,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
		now:       cfg.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) location() *time.Location {
	if s.cfg.Location != nil {
		return s.cfg.Location
	}
	return time.UTC
}

func (s *bookingService) SubmitBooking(ctx context.Context, caller *identity.Identity, req *model.BookingRequest) (*model.BookingResult, error) {
	if caller == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	s.sanitizeBooking(req)

	now := s.now().In(s.location())
	if err := s.validator.Validate(req, now); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", caller.UserID, "error", err)
		return nil, validation.ToAppError("Invalid booking request", err)
	}

	room, err := s.catalog.Room(req.RoomID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Room", req.RoomID)
	}
	price := s.catalog.PriceFor(room, req.Date)
	totalCost := price * int64(len(req.Slots))
	month := req.Date[:7]

	var result *model.BookingResult
	err = s.store.RunInTransaction(ctx, func(_ context.Context, tx repository.Tx) error {
		payer, err := tx.GetUser(caller.UserID)
		if err != nil {
			return err
		}

		setting, err := tx.GetOpenSetting(room.ID, req.Date)
		if err != nil {
			return err
		}
		if closed := closedSlots(setting, req.Slots); len(closed) > 0 {
			return &bookingserrors.SlotClosedError{Slots: closed}
		}

		if !payer.IsAdmin() && payer.Balance < totalCost {
			return &bookingserrors.InsufficientBalanceError{Balance: payer.Balance, Required: totalCost}
		}

		day, err := tx.GetDay(room.ID, req.Date)
		if err != nil {
			return err
		}
		if taken := occupiedSlots(day, req.Slots); len(taken) > 0 {
			return &bookingserrors.SlotConflictError{Slots: taken}
		}

		booker := req.Booker
		if booker == "" {
			booker = payer.DisplayName
		}
		records, err := s.buildRecords(room, req, price, booker, caller.UserID, now)
		if err != nil {
			return err
		}

		if err := tx.PutSlots(room.ID, req.Date, records); err != nil {
			return err
		}
		if err := tx.AppendLedger(caller.UserID, month, room.ID, records); err != nil {
			return err
		}
		if err := tx.IncrementTotalBookings(caller.UserID, room.ID, int64(len(records))); err != nil {
			return err
		}

		balance := payer.Balance
		if !payer.IsAdmin() {
			if err := tx.IncrementBalance(caller.UserID, -totalCost); err != nil {
				return err
			}
			balance -= totalCost
		}

		ids := make([]string, len(records))
		for i, rec := range records {
			ids[i] = rec.ID
		}
		result = &model.BookingResult{BookingIDs: ids, TotalCost: totalCost, Bookings: records, Balance: balance}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Booking rejected",
			"user_id", caller.UserID,
			"room_id", room.ID,
			"date", req.Date,
			"slots", req.Slots,
			"error", err,
		)
		return nil, s.mapError(err, "Failed to submit booking")
	}

	s.notifier.Notify(ctx, notifications.Event{
		Type:       notifications.EventBookingCreated,
		UserID:     caller.UserID,
		Booker:     result.Bookings[0].Booker,
		RoomID:     room.ID,
		RoomName:   room.Name,
		Date:       req.Date,
		Slots:      req.Slots,
		Cost:       totalCost,
		OccurredAt: now,
	})

	s.cfg.Log.Info("Booking created successfully",
		"user_id", caller.UserID,
		"room_id", room.ID,
		"date", req.Date,
		"slots", req.Slots,
		"total_cost", totalCost,
	)
	return result, nil
}

func (s *bookingService) buildRecords(room model.Room, req *model.BookingRequest, price int64, booker, userID string, now time.Time) ([]model.BookingRecord, error) {
	records := make([]model.BookingRecord, 0, len(req.Slots))
	for _, start := range req.Slots {
		end, err := s.catalog.Slots.End(start)
		if err != nil {
			return nil, err
		}
		records = append(records, model.BookingRecord{
			ID:          uuid.NewString(),
			RoomID:      room.ID,
			RoomName:    room.Name,
			Date:        req.Date,
			StartTime:   start,
			EndTime:     end,
			Duration:    catalog.SlotHours,
			Cost:        price,
			RoomPrice:   price,
			Description: req.Description,
			Booker:      booker,
			BookerID:    userID,
			BookedAt:    now.UTC().Truncate(time.Millisecond),
			BookingTime: now.UnixMilli(),
		})
	}
	return records, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, caller *identity.Identity, req *model.CancelRequest) (*model.CancelResult, error) {
	if caller == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	req.UserID = sanitizer.SanitizeIdentifier(req.UserID)
	req.RoomID = sanitizer.SanitizeIdentifier(req.RoomID)
	if err := s.validator.ValidateCancel(req); err != nil {
		return nil, validation.ToAppError("Invalid cancel request", err)
	}

	room, err := s.catalog.Room(req.RoomID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("Room", req.RoomID)
	}
	targetID := req.UserID
	if targetID == "" {
		targetID = caller.UserID
	}
	startsAt, err := catalog.StartsAt(req.Date, req.StartTime, s.location())
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	month := req.Date[:7]
	now := s.now()

	var (
		cancelled model.BookingRecord
		refunded  int64
		operator  *model.User
	)
	err = s.store.RunInTransaction(ctx, func(_ context.Context, tx repository.Tx) error {
		op, err := tx.GetUser(caller.UserID)
		if err != nil {
			return err
		}
		if targetID != caller.UserID && !op.IsAdmin() {
			return apperrors.Forbidden("only the booking owner or an admin can cancel this booking")
		}
		if !now.Before(startsAt) {
			return bookingserrors.ErrCancelWindowClosed
		}

		target := op
		if targetID != caller.UserID {
			if target, err = tx.GetUser(targetID); err != nil {
				return err
			}
		}

		ledger, err := tx.GetLedger(targetID, month)
		if err != nil {
			return err
		}
		idx := ledger.Find(room.ID, req.Date, req.StartTime)
		if idx < 0 {
			return bookingserrors.ErrBookingNotFound
		}
		day, err := tx.GetDay(room.ID, req.Date)
		if err != nil {
			return err
		}

		entry := ledger.Rooms[room.ID][idx]
		if slot, ok := day[req.StartTime]; ok && slot.BookerID == targetID {
			if err := tx.DeleteSlot(room.ID, req.Date, req.StartTime, len(day) == 1); err != nil {
				return err
			}
		}
		remaining := slices.Delete(slices.Clone(ledger.Rooms[room.ID]), idx, idx+1)
		if err := tx.ReplaceLedgerRoom(targetID, month, room.ID, remaining); err != nil {
			return err
		}
		if err := tx.IncrementTotalBookings(targetID, room.ID, -1); err != nil {
			return err
		}

		refunded = 0
		if !target.IsAdmin() && entry.Cost > 0 {
			if err := tx.IncrementBalance(targetID, entry.Cost); err != nil {
				return err
			}
			refunded = entry.Cost
		}
		cancelled, operator = withLegacyID(entry, month), op
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Cancellation rejected",
			"operator_id", caller.UserID,
			"user_id", targetID,
			"room_id", room.ID,
			"date", req.Date,
			"start_time", req.StartTime,
			"error", err,
		)
		return nil, s.mapError(err, "Failed to cancel booking")
	}

	operatorName := operator.DisplayName
	if operatorName == "" {
		operatorName = caller.DisplayNameOrDefault()
	}
	s.audit.Record(ctx, model.CancelRecord{
		ID:                  uuid.NewString(),
		OperatorID:          caller.UserID,
		OperatorEmail:       caller.Email,
		OperatorDisplayName: operatorName,
		TargetUserID:        targetID,
		CanceledAt:          now.UTC().Truncate(time.Millisecond),
		BookingDetail:       model.DetailOf(cancelled),
	})

	s.notifier.Notify(ctx, notifications.Event{
		Type:       notifications.EventBookingCancelled,
		UserID:     targetID,
		Booker:     cancelled.Booker,
		OperatorID: caller.UserID,
		RoomID:     room.ID,
		RoomName:   room.Name,
		Date:       req.Date,
		Slots:      []string{req.StartTime},
		Cost:       refunded,
		OccurredAt: now,
	})

	s.cfg.Log.Info("Booking cancelled successfully",
		"operator_id", caller.UserID,
		"user_id", targetID,
		"room_id", room.ID,
		"date", req.Date,
		"start_time", req.StartTime,
		"refunded", refunded,
	)
	return &model.CancelResult{Booking: cancelled, Refunded: refunded}, nil
}

func (s *bookingService) GetBookingsForDate(ctx context.Context, roomID, date string) ([]model.BookingRecord, error) {
	room, err := s.roomAndDate(roomID, date)
	if err != nil {
		return nil, err
	}
	day, err := s.store.GetDay(ctx, room.ID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to read bookings", "room_id", room.ID, "date", date, "error", err)
		return nil, db.Translate(err, "Failed to retrieve bookings")
	}
	return sortedDay(day), nil
}

func (s *bookingService) GetAvailability(ctx context.Context, roomID, date string) (*model.DayAvailability, error) {
	bookings, err := s.GetBookingsForDate(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	setting, err := s.settings.Get(ctx, roomID, date)
	if err != nil {
		return nil, db.Translate(err, "Failed to retrieve open setting")
	}
	if setting == nil {
		def := model.DefaultOpenSetting(roomID, date)
		setting = &def
	}

	taken := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		taken[b.StartTime] = struct{}{}
	}
	now := s.now().In(s.location())
	available := []string{}
	for _, slot := range s.catalog.Slots.All() {
		if _, ok := taken[slot]; ok {
			continue
		}
		if cat, err := catalog.CategoryOf(slot); err != nil || !setting.IsOpen(cat) {
			continue
		}
		if start, err := catalog.StartsAt(date, slot, s.location()); err != nil || !start.After(now) {
			continue
		}
		available = append(available, slot)
	}

	return &model.DayAvailability{
		RoomID:      roomID,
		Date:        date,
		OpenSetting: *setting,
		Bookings:    bookings,
		Available:   available,
	}, nil
}

func (s *bookingService) GetMonthBookings(ctx context.Context, caller *identity.Identity, roomID, month string) ([]model.BookingRecord, error) {
	if err := s.access.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	dates, err := catalog.DatesOfMonth(month)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	rooms := s.catalog.Rooms()
	if roomID != "" && roomID != AllRooms {
		room, err := s.catalog.Room(roomID)
		if err != nil {
			return nil, apperrors.NotFoundWithID("Room", roomID)
		}
		rooms = []model.Room{room}
	}

	var out []model.BookingRecord
	for _, room := range rooms {
		days, err := s.store.GetDays(ctx, room.ID, dates)
		if err != nil {
			s.cfg.Log.Error("Failed to read month bookings", "room_id", room.ID, "month", month, "error", err)
			return nil, db.Translate(err, "Failed to retrieve bookings")
		}
		for _, day := range days {
			for _, rec := range day {
				if rec.RoomName == "" {
					rec.RoomName = room.Name
				}
				out = append(out, withLegacyID(rec, month))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out, nil
}

// GetUserBookings reads one ledger month, or every month when month is "all".
func (s *bookingService) GetUserBookings(ctx context.Context, caller *identity.Identity, userID, month string) ([]model.BookingRecord, error) {
	if err := s.access.RequireSelfOrAdmin(ctx, caller, userID); err != nil {
		return nil, err
	}

	var buckets []*model.LedgerBucket
	if month == AllRooms {
		all, err := s.store.ListLedgers(ctx, userID)
		if err != nil {
			return nil, db.Translate(err, "Failed to retrieve bookings")
		}
		buckets = all
	} else {
		if _, err := catalog.DatesOfMonth(month); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		bucket, err := s.store.GetLedger(ctx, userID, month)
		if err != nil {
			return nil, db.Translate(err, "Failed to retrieve bookings")
		}
		buckets = []*model.LedgerBucket{bucket}
	}

	out := []model.BookingRecord{}
	for _, bucket := range buckets {
		for roomID, recs := range bucket.Rooms {
			for _, rec := range recs {
				if rec.RoomID == "" {
					rec.RoomID = roomID
				}
				out = append(out, withLegacyID(rec, bucket.Month))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *bookingService) roomAndDate(roomID, date string) (model.Room, error) {
	room, err := s.catalog.Room(sanitizer.SanitizeIdentifier(roomID))
	if err != nil {
		return model.Room{}, apperrors.NotFoundWithID("Room", roomID)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return model.Room{}, apperrors.InvalidInput("invalid date, expected YYYY-MM-DD: " + date)
	}
	return room, nil
}

func (s *bookingService) sanitizeBooking(req *model.BookingRequest) {
	req.RoomID = sanitizer.SanitizeIdentifier(req.RoomID)
	req.Date = sanitizer.TrimAndNormalize(req.Date)
	req.Slots = sanitizer.SanitizeSlots(req.Slots)
	req.Booker = sanitizer.SanitizeDisplayName(req.Booker)
	req.Description = sanitizer.SanitizeDescription(req.Description)
}

func (s *bookingService) mapError(err error, message string) error {
	var (
		conflict     *bookingserrors.SlotConflictError
		closed       *bookingserrors.SlotClosedError
		insufficient *bookingserrors.InsufficientBalanceError
	)
	switch {
	case errors.As(err, &conflict):
		return apperrors.SlotConflict(conflict.Slots).WithCause(err)
	case errors.As(err, &closed):
		return apperrors.SlotClosed(closed.Slots).WithCause(err)
	case errors.As(err, &insufficient):
		return apperrors.InsufficientBalance(insufficient.Balance, insufficient.Required).WithCause(err)
	case errors.Is(err, bookingserrors.ErrUserNotFound):
		return apperrors.NotFound("User profile").WithCause(err)
	case errors.Is(err, bookingserrors.ErrBookingNotFound):
		return apperrors.NotFound("Booking").WithCause(err)
	case errors.Is(err, bookingserrors.ErrCancelWindowClosed):
		return apperrors.Forbidden("bookings can only be cancelled before the slot starts").WithCause(err)
	}
	if apperrors.IsAppError(err) {
		return err
	}
	s.cfg.Log.Error(message, "error", err)
	return db.Translate(err, message)
}

// closedSlots returns the requested slots whose time category is closed.
func closedSlots(setting *model.OpenSetting, slots []string) []string {
	if setting == nil {
		return nil
	}
	var closed []string
	for _, slot := range slots {
		cat, err := catalog.CategoryOf(slot)
		if err != nil || !setting.IsOpen(cat) {
			closed = append(closed, slot)
		}
	}
	return closed
}

func occupiedSlots(day model.DaySlots, slots []string) []string {
	var taken []string
	for _, slot := range slots {
		if _, ok := day[slot]; ok {
			taken = append(taken, slot)
		}
	}
	return taken
}

func sortedDay(day model.DaySlots) []model.BookingRecord {
	out := make([]model.BookingRecord, 0, len(day))
	for start, rec := range day {
		if rec.StartTime == "" {
			rec.StartTime = start
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

// withLegacyID fills the id of records written before ids were stored.
func withLegacyID(rec model.BookingRecord, month string) model.BookingRecord {
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s_%s_%d", month, rec.RoomID, rec.BookingTime)
	}
	return rec
}
