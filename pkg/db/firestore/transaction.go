package firestore

import (
	"context"
	"errors"
	"fmt"

	"roomly/pkg/db"
	apperrors "roomly/pkg/errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultMaxAttempts = 5

type TransactionFunc func(ctx context.Context, tx *firestore.Transaction) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type firestoreTransactionManager struct {
	client      *firestore.Client
	maxAttempts int
}

// NewTransactionManager wraps client.RunTransaction. Firestore transactions
// are optimistic: every read must happen before the first write and the
// callback is re-run when a document it read changes before commit.
func NewTransactionManager(client *firestore.Client) TransactionManager {
	return &firestoreTransactionManager{client: client, maxAttempts: defaultMaxAttempts}
}

func (m *firestoreTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	err := m.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, tx)
	}, firestore.MaxAttempts(m.maxAttempts))

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", Classify(err))
	}
	return nil
}

// IsNotFound reports whether err is a Firestore missing-document error.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Classify attaches db.ErrUnavailable or db.ErrPermissionDenied to gRPC
// failures that represent infrastructure problems.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errors.Join(db.ErrUnavailable, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return errors.Join(db.ErrPermissionDenied, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(db.ErrUnavailable, err)
	}
	return err
}
