package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated caller as asserted by the identity provider.
// Roles are not part of it. They live on the stored user profile.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Verifier turns a raw bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

// UserIDFromEmail derives the profile key from an email address: the part
// before '@', lower-cased.
func UserIDFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return strings.ToLower(local)
}

// DisplayNameOrDefault falls back to the profile key when the provider
// supplies no name.
func (i *Identity) DisplayNameOrDefault() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.UserID
}
