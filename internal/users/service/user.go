package service

import (
	"context"
	"errors"
	"maps"

	userserrors "roomly/internal/users/errors"
	"roomly/internal/users/repository"
	"roomly/pkg/config"
	"roomly/pkg/db"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/identity"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
	"roomly/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type UserService interface {
	EnsureProfile(ctx context.Context, caller *identity.Identity) (*model.User, error)
	Get(ctx context.Context, caller *identity.Identity, userID string) (*model.User, error)
	List(ctx context.Context, caller *identity.Identity) ([]*model.User, error)
	Rename(ctx context.Context, caller *identity.Identity, userID string, update *model.UserUpdate) (*model.User, error)
	Deposit(ctx context.Context, caller *identity.Identity, userID string, req *model.DepositRequest) (*model.BalanceResult, error)

	RequireAdmin(ctx context.Context, caller *identity.Identity) error
	RequireSelfOrAdmin(ctx context.Context, caller *identity.Identity, userID string) error
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
	roomIDs  []string
	cfg      *config.Config
}

func NewUserService(repo repository.UserRepository, roomIDs []string, cfg *config.Config) UserService {
	return &userService{
		repo:     repo,
		validate: validation.New(),
		roomIDs:  roomIDs,
		cfg:      cfg,
	}
}

// EnsureProfile creates the caller's profile on first sight with the default
// balance and a zero counter per room.
func (s *userService) EnsureProfile(ctx context.Context, caller *identity.Identity) (*model.User, error) {
	if caller == nil || caller.UserID == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}

	counters := make(map[string]int64, len(s.roomIDs))
	for _, id := range s.roomIDs {
		counters[id] = 0
	}
	profile := &model.User{
		ID:            caller.UserID,
		Email:         caller.Email,
		DisplayName:   sanitizer.SanitizeDisplayName(caller.DisplayNameOrDefault()),
		PhotoURL:      caller.PhotoURL,
		Role:          model.RoleUser,
		Balance:       s.cfg.DefaultUserBalance,
		TotalBookings: counters,
	}

	user, created, err := s.repo.EnsureProfile(ctx, profile)
	if err != nil {
		s.cfg.Log.Error("Failed to ensure user profile", "user_id", caller.UserID, "error", err)
		return nil, db.Translate(err, "Failed to load user profile")
	}
	if created {
		s.cfg.Log.Info("User profile created", "user_id", user.ID, "balance", user.Balance)
	}
	s.fillCounters(user)
	return user, nil
}

func (s *userService) Get(ctx context.Context, caller *identity.Identity, userID string) (*model.User, error) {
	userID = sanitizer.SanitizeIdentifier(userID)
	if err := s.RequireSelfOrAdmin(ctx, caller, userID); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapError(err, userID, "Failed to retrieve user")
	}
	s.fillCounters(user)
	return user, nil
}

// List returns every non-admin profile.
func (s *userService) List(ctx context.Context, caller *identity.Identity) ([]*model.User, error) {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, db.Translate(err, "Failed to retrieve users")
	}
	users := make([]*model.User, 0, len(all))
	for _, u := range all {
		if u.IsAdmin() {
			continue
		}
		s.fillCounters(u)
		users = append(users, u)
	}
	return users, nil
}

func (s *userService) Rename(ctx context.Context, caller *identity.Identity, userID string, update *model.UserUpdate) (*model.User, error) {
	userID = sanitizer.SanitizeIdentifier(userID)
	if err := s.RequireSelfOrAdmin(ctx, caller, userID); err != nil {
		return nil, err
	}
	update.DisplayName = sanitizer.SanitizeDisplayName(update.DisplayName)
	if err := validation.Struct(s.validate, update); err != nil {
		s.cfg.Log.Warn("User update validation failed", "user_id", userID, "error", err)
		return nil, validation.ToAppError("Invalid user update", err)
	}

	user, err := s.repo.UpdateDisplayName(ctx, userID, update.DisplayName)
	if err != nil {
		return nil, s.mapError(err, userID, "Failed to update user")
	}
	s.cfg.Log.Info("User renamed", "user_id", userID, "operator_id", caller.UserID)
	s.fillCounters(user)
	return user, nil
}

// Deposit adds (or, when negative, withdraws) points. The balance may go
// below zero here; only bookings enforce a floor.
func (s *userService) Deposit(ctx context.Context, caller *identity.Identity, userID string, req *model.DepositRequest) (*model.BalanceResult, error) {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	userID = sanitizer.SanitizeIdentifier(userID)
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, validation.ToAppError("Invalid deposit", err)
	}

	balance, err := s.repo.IncrementBalance(ctx, userID, req.Amount)
	if err != nil {
		return nil, s.mapError(err, userID, "Failed to update balance")
	}
	s.cfg.Log.Info("Balance updated",
		"user_id", userID,
		"operator_id", caller.UserID,
		"amount", req.Amount,
		"balance", balance,
	)
	return &model.BalanceResult{UserID: userID, Balance: balance}, nil
}

func (s *userService) RequireAdmin(ctx context.Context, caller *identity.Identity) error {
	if caller == nil {
		return apperrors.Unauthorized("authentication required")
	}
	user, err := s.repo.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.Forbidden("admin role required")
		}
		return db.Translate(err, "Failed to check permissions")
	}
	if !user.IsAdmin() {
		return apperrors.Forbidden("admin role required")
	}
	return nil
}

func (s *userService) RequireSelfOrAdmin(ctx context.Context, caller *identity.Identity, userID string) error {
	if caller == nil {
		return apperrors.Unauthorized("authentication required")
	}
	if userID == "" {
		return apperrors.InvalidInput("user ID cannot be empty")
	}
	if caller.UserID == userID {
		return nil
	}
	return s.RequireAdmin(ctx, caller)
}

func (s *userService) mapError(err error, userID, message string) error {
	if errors.Is(err, userserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("User", userID)
	}
	s.cfg.Log.Error(message, "user_id", userID, "error", err)
	return db.Translate(err, message)
}

// fillCounters adds zero counters for rooms added after the profile was made.
func (s *userService) fillCounters(u *model.User) {
	if u.TotalBookings == nil {
		u.TotalBookings = make(map[string]int64, len(s.roomIDs))
	} else {
		u.TotalBookings = maps.Clone(u.TotalBookings)
	}
	for _, id := range s.roomIDs {
		if _, ok := u.TotalBookings[id]; !ok {
			u.TotalBookings[id] = 0
		}
	}
}
