package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/pkg/config"
	fsdb "roomly/pkg/db/firestore"
	"roomly/pkg/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type firestoreStore struct {
	cfg       *config.Config
	client    *firestore.Client
	txManager fsdb.TransactionManager
}

func NewFirestoreStore(cfg *config.Config) Store {
	return &firestoreStore{
		cfg:       cfg,
		client:    cfg.Client.Firestore,
		txManager: fsdb.NewTransactionManager(cfg.Client.Firestore),
	}
}

func decodeDay(snap *firestore.DocumentSnapshot) (model.DaySlots, error) {
	slots := model.DaySlots{}
	if snap == nil || !snap.Exists() {
		return slots, nil
	}
	if err := snap.DataTo(&slots); err != nil {
		return nil, fmt.Errorf("failed to decode time slots: %w", err)
	}
	return slots, nil
}

func decodeLedger(snap *firestore.DocumentSnapshot, userID, month string) (*model.LedgerBucket, error) {
	bucket := emptyLedger(userID, month)
	if snap == nil || !snap.Exists() {
		return bucket, nil
	}
	if err := snap.DataTo(&bucket.Rooms); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	return bucket, nil
}

func (r *firestoreStore) GetDay(ctx context.Context, roomID, date string) (model.DaySlots, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	snap, err := fsdb.DayDoc(r.client, roomID, date).Get(ctx)
	if err != nil && !fsdb.IsNotFound(err) {
		return nil, fmt.Errorf("failed to read time slots: %w", fsdb.Classify(err))
	}
	return decodeDay(snap)
}

func (r *firestoreStore) GetDays(ctx context.Context, roomID string, dates []string) (map[string]model.DaySlots, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	refs := make([]*firestore.DocumentRef, len(dates))
	for i, date := range dates {
		refs[i] = fsdb.DayDoc(r.client, roomID, date)
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to read time slots: %w", fsdb.Classify(err))
	}

	out := make(map[string]model.DaySlots, len(snaps))
	for i, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		slots, err := decodeDay(snap)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			out[dates[i]] = slots
		}
	}
	return out, nil
}

func (r *firestoreStore) GetLedger(ctx context.Context, userID, month string) (*model.LedgerBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	snap, err := fsdb.LedgerDoc(r.client, userID, month).Get(ctx)
	if err != nil && !fsdb.IsNotFound(err) {
		return nil, fmt.Errorf("failed to read ledger: %w", fsdb.Classify(err))
	}
	return decodeLedger(snap, userID, month)
}

func (r *firestoreStore) ListLedgers(ctx context.Context, userID string) ([]*model.LedgerBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	iter := fsdb.UserDoc(r.client, userID).Collection(fsdb.CollectionBookings).Documents(ctx)
	defer iter.Stop()

	var out []*model.LedgerBucket
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list ledgers: %w", fsdb.Classify(err))
		}
		bucket, err := decodeLedger(snap, userID, snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (r *firestoreStore) RunInTransaction(ctx context.Context, fn TxFunc) error {
	return r.txManager.ExecuteTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{c: r.client, tx: tx})
	})
}

func (r *firestoreStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	iter := r.client.Collection(fsdb.CollectionUsers).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("failed to ping firestore: %w", fsdb.Classify(err))
	}
	return nil
}

type firestoreTx struct {
	c  *firestore.Client
	tx *firestore.Transaction
}

func (t *firestoreTx) GetUser(userID string) (*model.User, error) {
	snap, err := t.tx.Get(fsdb.UserDoc(t.c, userID))
	if fsdb.IsNotFound(err) {
		return nil, bookingserrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	var u model.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	u.ID = userID
	return &u, nil
}

func (t *firestoreTx) GetDay(roomID, date string) (model.DaySlots, error) {
	snap, err := t.tx.Get(fsdb.DayDoc(t.c, roomID, date))
	if err != nil && !fsdb.IsNotFound(err) {
		return nil, fmt.Errorf("failed to read time slots: %w", err)
	}
	return decodeDay(snap)
}

func (t *firestoreTx) GetOpenSetting(roomID, date string) (*model.OpenSetting, error) {
	snap, err := t.tx.Get(fsdb.OpenSettingDoc(t.c, roomID, date))
	if fsdb.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read open setting: %w", err)
	}
	var setting model.OpenSetting
	if err := snap.DataTo(&setting); err != nil {
		return nil, fmt.Errorf("failed to decode open setting: %w", err)
	}
	setting.RoomID, setting.Date = roomID, date
	return &setting, nil
}

func (t *firestoreTx) GetLedger(userID, month string) (*model.LedgerBucket, error) {
	snap, err := t.tx.Get(fsdb.LedgerDoc(t.c, userID, month))
	if err != nil && !fsdb.IsNotFound(err) {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return decodeLedger(snap, userID, month)
}

func (t *firestoreTx) PutSlots(roomID, date string, records []model.BookingRecord) error {
	data := make(map[string]any, len(records))
	for _, rec := range records {
		data[rec.StartTime] = rec
	}
	return t.tx.Set(fsdb.DayDoc(t.c, roomID, date), data, firestore.MergeAll)
}

func (t *firestoreTx) DeleteSlot(roomID, date, startTime string, dropContainer bool) error {
	ref := fsdb.DayDoc(t.c, roomID, date)
	if dropContainer {
		return t.tx.Delete(ref)
	}
	return t.tx.Update(ref, []firestore.Update{{FieldPath: firestore.FieldPath{startTime}, Value: firestore.Delete}})
}

func (t *firestoreTx) AppendLedger(userID, month, roomID string, records []model.BookingRecord) error {
	elems := make([]any, len(records))
	for i, rec := range records {
		elems[i] = rec
	}
	return t.tx.Set(fsdb.LedgerDoc(t.c, userID, month),
		map[string]any{roomID: firestore.ArrayUnion(elems...)},
		firestore.MergeAll,
	)
}

func (t *firestoreTx) ReplaceLedgerRoom(userID, month, roomID string, records []model.BookingRecord) error {
	if records == nil {
		records = []model.BookingRecord{}
	}
	return t.tx.Set(fsdb.LedgerDoc(t.c, userID, month),
		map[string]any{roomID: records},
		firestore.Merge(firestore.FieldPath{roomID}),
	)
}

func (t *firestoreTx) IncrementTotalBookings(userID, roomID string, delta int64) error {
	return t.tx.Update(fsdb.UserDoc(t.c, userID), []firestore.Update{
		{FieldPath: firestore.FieldPath{"totalBookings", roomID}, Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (t *firestoreTx) IncrementBalance(userID string, delta int64) error {
	return t.tx.Update(fsdb.UserDoc(t.c, userID), []firestore.Update{
		{Path: "balance", Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}
