package repository

import (
	"context"
	"sort"
	"time"

	userserrors "roomly/internal/users/errors"
	"roomly/pkg/db/memory"
	"roomly/pkg/model"
)

type memoryUserRepository struct {
	db *memory.DB
}

func NewMemoryUserRepository(db *memory.DB) UserRepository {
	return &memoryUserRepository{db: db}
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	var out *model.User
	_ = r.db.View(func(d *memory.Data) error {
		out = memory.CloneUser(d.Users[id])
		return nil
	})
	if out == nil {
		return nil, userserrors.ErrNotFound
	}
	return out, nil
}

func (r *memoryUserRepository) FindAll(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	_ = r.db.View(func(d *memory.Data) error {
		for _, u := range d.Users {
			out = append(out, memory.CloneUser(u))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryUserRepository) EnsureProfile(_ context.Context, profile *model.User) (*model.User, bool, error) {
	var (
		out     *model.User
		created bool
	)
	now := time.Now().UTC().Truncate(time.Millisecond)
	err := r.db.Update(func(d *memory.Data) error {
		u, ok := d.Users[profile.ID]
		if !ok {
			u = memory.CloneUser(profile)
			u.CreatedAt, u.UpdatedAt = now, now
			d.Users[u.ID] = u
			created = true
		}
		u.LastLoginAt = now
		out = memory.CloneUser(u)
		return nil
	})
	return out, created, err
}

func (r *memoryUserRepository) UpdateDisplayName(_ context.Context, id, displayName string) (*model.User, error) {
	var out *model.User
	err := r.db.Update(func(d *memory.Data) error {
		u, ok := d.Users[id]
		if !ok {
			return userserrors.ErrNotFound
		}
		u.DisplayName = displayName
		u.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		out = memory.CloneUser(u)
		return nil
	})
	return out, err
}

func (r *memoryUserRepository) IncrementBalance(_ context.Context, id string, delta int64) (int64, error) {
	var balance int64
	err := r.db.Update(func(d *memory.Data) error {
		u, ok := d.Users[id]
		if !ok {
			return userserrors.ErrNotFound
		}
		u.Balance += delta
		u.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		balance = u.Balance
		return nil
	})
	return balance, err
}
