package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "roomly/internal/bookings/errors"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type dayDocument struct {
	ID     string         `bson:"_id"`
	RoomID string         `bson:"room_id"`
	Date   string         `bson:"date"`
	Slots  model.DaySlots `bson:"slots"`
}

type ledgerDocument struct {
	ID                 string `bson:"_id"`
	model.LedgerBucket `bson:",inline"`
}

type mongoStore struct {
	cfg          *config.Config
	days         *mongo.Collection
	ledgers      *mongo.Collection
	users        *mongo.Collection
	openSettings *mongo.Collection
	txManager    mongotx.TransactionManager
}

func NewMongoStore(cfg *config.Config) Store {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStore{
		cfg:          cfg,
		days:         db.Collection(mongotx.CollectionRoomDays),
		ledgers:      db.Collection(mongotx.CollectionUserLedgers),
		users:        db.Collection(mongotx.CollectionUsers),
		openSettings: db.Collection(mongotx.CollectionOpenSettings),
		txManager:    mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoStore) GetDay(ctx context.Context, roomID, date string) (model.DaySlots, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()
	slots, err := findDay(ctx, r.days, roomID, date)
	return slots, mongotx.Classify(err)
}

func findDay(ctx context.Context, coll *mongo.Collection, roomID, date string) (model.DaySlots, error) {
	var doc dayDocument
	err := coll.FindOne(ctx, bson.M{"_id": mongotx.DocID(roomID, date)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.DaySlots{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find room day: %w", err)
	}
	if doc.Slots == nil {
		doc.Slots = model.DaySlots{}
	}
	return doc.Slots, nil
}

func (r *mongoStore) GetDays(ctx context.Context, roomID string, dates []string) (map[string]model.DaySlots, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	ids := make([]string, len(dates))
	for i, date := range dates {
		ids[i] = mongotx.DocID(roomID, date)
	}
	cursor, err := r.days.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find room days: %w", mongotx.Classify(err))
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []dayDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode room days: %w", mongotx.Classify(err))
	}
	out := make(map[string]model.DaySlots, len(docs))
	for _, doc := range docs {
		if len(doc.Slots) > 0 {
			out[doc.Date] = doc.Slots
		}
	}
	return out, nil
}

func (r *mongoStore) GetLedger(ctx context.Context, userID, month string) (*model.LedgerBucket, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()
	bucket, err := findLedger(ctx, r.ledgers, userID, month)
	return bucket, mongotx.Classify(err)
}

func findLedger(ctx context.Context, coll *mongo.Collection, userID, month string) (*model.LedgerBucket, error) {
	var doc ledgerDocument
	err := coll.FindOne(ctx, bson.M{"_id": mongotx.DocID(userID, month)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return emptyLedger(userID, month), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger: %w", err)
	}
	if doc.Rooms == nil {
		doc.Rooms = map[string][]model.BookingRecord{}
	}
	return &doc.LedgerBucket, nil
}

func (r *mongoStore) ListLedgers(ctx context.Context, userID string) ([]*model.LedgerBucket, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "month", Value: -1}})
	cursor, err := r.ledgers.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", mongotx.Classify(err))
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []ledgerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ledgers: %w", mongotx.Classify(err))
	}
	out := make([]*model.LedgerBucket, 0, len(docs))
	for i := range docs {
		out = append(out, &docs[i].LedgerBucket)
	}
	return out, nil
}

func (r *mongoStore) RunInTransaction(ctx context.Context, fn TxFunc) error {
	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx, &mongoTx{ctx: sessCtx, r: r})
	})
}

func (r *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()
	if err := r.cfg.Client.Mongo.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", mongotx.Classify(err))
	}
	return nil
}

// mongoTx issues every operation on the session context. Errors are wrapped
// but not classified so WithTransaction still sees transient error labels.
type mongoTx struct {
	ctx mongo.SessionContext
	r   *mongoStore
}

func (t *mongoTx) GetUser(userID string) (*model.User, error) {
	var u model.User
	err := t.r.users.FindOne(t.ctx, bson.M{"_id": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, bookingserrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (t *mongoTx) GetDay(roomID, date string) (model.DaySlots, error) {
	return findDay(t.ctx, t.r.days, roomID, date)
}

func (t *mongoTx) GetOpenSetting(roomID, date string) (*model.OpenSetting, error) {
	var setting model.OpenSetting
	err := t.r.openSettings.FindOne(t.ctx, bson.M{"_id": mongotx.DocID(roomID, date)}).Decode(&setting)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open setting: %w", err)
	}
	return &setting, nil
}

func (t *mongoTx) GetLedger(userID, month string) (*model.LedgerBucket, error) {
	return findLedger(t.ctx, t.r.ledgers, userID, month)
}

func (t *mongoTx) PutSlots(roomID, date string, records []model.BookingRecord) error {
	set := bson.M{"room_id": roomID, "date": date}
	for _, rec := range records {
		set[mongotx.FieldPath("slots", rec.StartTime)] = rec
	}
	_, err := t.r.days.UpdateOne(t.ctx,
		bson.M{"_id": mongotx.DocID(roomID, date)},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write slots: %w", err)
	}
	return nil
}

func (t *mongoTx) DeleteSlot(roomID, date, startTime string, dropContainer bool) error {
	filter := bson.M{"_id": mongotx.DocID(roomID, date)}
	var err error
	if dropContainer {
		_, err = t.r.days.DeleteOne(t.ctx, filter)
	} else {
		_, err = t.r.days.UpdateOne(t.ctx, filter, bson.M{"$unset": bson.M{mongotx.FieldPath("slots", startTime): ""}})
	}
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

func (t *mongoTx) AppendLedger(userID, month, roomID string, records []model.BookingRecord) error {
	_, err := t.r.ledgers.UpdateOne(t.ctx,
		bson.M{"_id": mongotx.DocID(userID, month)},
		bson.M{
			"$setOnInsert": bson.M{"user_id": userID, "month": month},
			"$push":        bson.M{mongotx.FieldPath("rooms", roomID): bson.M{"$each": records}},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger: %w", err)
	}
	return nil
}

func (t *mongoTx) ReplaceLedgerRoom(userID, month, roomID string, records []model.BookingRecord) error {
	if records == nil {
		records = []model.BookingRecord{}
	}
	_, err := t.r.ledgers.UpdateOne(t.ctx,
		bson.M{"_id": mongotx.DocID(userID, month)},
		bson.M{"$set": bson.M{mongotx.FieldPath("rooms", roomID): records}},
	)
	if err != nil {
		return fmt.Errorf("failed to rewrite ledger: %w", err)
	}
	return nil
}

func (t *mongoTx) increment(userID string, inc bson.M) error {
	res, err := t.r.users.UpdateOne(t.ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": inc, "$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return bookingserrors.ErrUserNotFound
	}
	return nil
}

func (t *mongoTx) IncrementTotalBookings(userID, roomID string, delta int64) error {
	return t.increment(userID, bson.M{mongotx.FieldPath("total_bookings", roomID): delta})
}

func (t *mongoTx) IncrementBalance(userID string, delta int64) error {
	return t.increment(userID, bson.M{"balance": delta})
}
