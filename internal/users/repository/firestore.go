package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	userserrors "roomly/internal/users/errors"
	"roomly/pkg/config"
	fsdb "roomly/pkg/db/firestore"
	"roomly/pkg/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type firestoreUserRepository struct {
	cfg       *config.Config
	client    *firestore.Client
	txManager fsdb.TransactionManager
}

func NewFirestoreUserRepository(cfg *config.Config) UserRepository {
	return &firestoreUserRepository{
		cfg:       cfg,
		client:    cfg.Client.Firestore,
		txManager: fsdb.NewTransactionManager(cfg.Client.Firestore),
	}
}

func decodeUser(snap *firestore.DocumentSnapshot) (*model.User, error) {
	var user model.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

func (r *firestoreUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	snap, err := fsdb.UserDoc(r.client, id).Get(ctx)
	if err != nil {
		if fsdb.IsNotFound(err) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", fsdb.Classify(err))
	}
	return decodeUser(snap)
}

func (r *firestoreUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	iter := r.client.Collection(fsdb.CollectionUsers).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", fsdb.Classify(err))
		}
		user, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *firestoreUserRepository) EnsureProfile(ctx context.Context, profile *model.User) (*model.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var (
		out     *model.User
		created bool
	)
	ref := fsdb.UserDoc(r.client, profile.ID)
	err := r.txManager.ExecuteTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC().Truncate(time.Millisecond)
		snap, err := tx.Get(ref)
		if fsdb.IsNotFound(err) {
			u := *profile
			u.CreatedAt, u.UpdatedAt, u.LastLoginAt = now, now, now
			out, created = &u, true
			return tx.Create(ref, &u)
		}
		if err != nil {
			return err
		}
		if out, err = decodeUser(snap); err != nil {
			return err
		}
		out.LastLoginAt, created = now, false
		return tx.Update(ref, []firestore.Update{{Path: "lastLoginAt", Value: now}})
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", err)
	}
	return out, created, nil
}

func (r *firestoreUserRepository) UpdateDisplayName(ctx context.Context, id, displayName string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := fsdb.UserDoc(r.client, id).Update(ctx, []firestore.Update{
		{Path: "displayName", Value: displayName},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if fsdb.IsNotFound(err) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", fsdb.Classify(err))
	}
	return r.FindByID(ctx, id)
}

func (r *firestoreUserRepository) IncrementBalance(ctx context.Context, id string, delta int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	var balance int64
	ref := fsdb.UserDoc(r.client, id)
	err := r.txManager.ExecuteTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if fsdb.IsNotFound(err) {
			return userserrors.ErrNotFound
		}
		if err != nil {
			return err
		}
		user, err := decodeUser(snap)
		if err != nil {
			return err
		}
		balance = user.Balance + delta
		return tx.Update(ref, []firestore.Update{
			{Path: "balance", Value: firestore.Increment(delta)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update balance: %w", err)
	}
	return balance, nil
}
