package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	userserrors "roomly/internal/users/errors"
	"roomly/pkg/config"
	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(mongotx.CollectionUsers),
	}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", mongotx.Classify(err))
	}
	return &user, nil
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", mongotx.Classify(err))
	}
	defer func() { _ = cursor.Close(ctx) }()

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", mongotx.Classify(err))
	}
	return users, nil
}

func (r *mongoUserRepository) EnsureProfile(ctx context.Context, profile *model.User) (*model.User, bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":          profile.Email,
			"display_name":   profile.DisplayName,
			"photo_url":      profile.PhotoURL,
			"role":           profile.Role,
			"balance":        profile.Balance,
			"total_bookings": profile.TotalBookings,
			"created_at":     now,
		},
		"$set": bson.M{"last_login_at": now, "updated_at": now},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", mongotx.Classify(err))
	}

	user, err := r.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, false, err
	}
	return user, res.UpsertedCount > 0, nil
}

func (r *mongoUserRepository) UpdateDisplayName(ctx context.Context, id, displayName string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"display_name": displayName, "updated_at": time.Now().UTC().Truncate(time.Millisecond)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", mongotx.Classify(err))
	}
	return &user, nil
}

func (r *mongoUserRepository) IncrementBalance(ctx context.Context, id string, delta int64) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"balance": delta},
			"$set": bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{"balance": 1}),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, userserrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to update balance: %w", mongotx.Classify(err))
	}
	return user.Balance, nil
}
