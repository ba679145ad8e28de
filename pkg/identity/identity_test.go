package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestUserIDFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"Alice@example.com", "alice"},
		{" bob.lee@studio.tw ", "bob.lee"},
		{"nodomain", "nodomain"},
	}
	for _, tt := range tests {
		if got := UserIDFromEmail(tt.email); got != tt.want {
			t.Errorf("UserIDFromEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := NewJWTVerifier(testSecret, "roomly")

	token, err := v.Issue("Carol@example.com", "Carol", time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if id.UserID != "carol" || id.Email != "Carol@example.com" || id.DisplayName != "Carol" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier(testSecret, "roomly")
	other := NewJWTVerifier("another-secret-another-secret!!", "roomly")
	wrongIssuer := NewJWTVerifier(testSecret, "someone-else")

	forged, _ := other.Issue("dave@example.com", "", time.Hour)
	expired, _ := v.Issue("dave@example.com", "", -time.Minute)
	foreign, _ := wrongIssuer.Issue("dave@example.com", "", time.Hour)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"wrong secret", forged, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"wrong issuer", foreign, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

type mockTokenVerifier struct {
	verifyFunc func(ctx context.Context, token string) (*auth.Token, error)
}

func (m *mockTokenVerifier) VerifyIDToken(ctx context.Context, token string) (*auth.Token, error) {
	return m.verifyFunc(ctx, token)
}

func TestFirebaseVerifier(t *testing.T) {
	mock := &mockTokenVerifier{
		verifyFunc: func(_ context.Context, token string) (*auth.Token, error) {
			switch token {
			case "good":
				return &auth.Token{UID: "uid-1", Claims: map[string]any{
					"email":   "erin@example.com",
					"name":    "Erin",
					"picture": "https://example.com/erin.png",
				}}, nil
			case "no-email":
				return &auth.Token{UID: "uid-2", Claims: map[string]any{}}, nil
			}
			return nil, errors.New("token revoked")
		},
	}
	v := NewFirebaseVerifier(mock)

	id, err := v.Verify(context.Background(), "good")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if id.UserID != "erin" || id.PhotoURL == "" {
		t.Errorf("unexpected identity %+v", id)
	}

	for _, token := range []string{"no-email", "revoked"} {
		if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context should carry no identity")
	}
	ctx := WithIdentity(context.Background(), &Identity{UserID: "frank"})
	id, ok := FromContext(ctx)
	if !ok || id.UserID != "frank" {
		t.Errorf("FromContext() = %+v, %v", id, ok)
	}
	if id.DisplayNameOrDefault() != "frank" {
		t.Errorf("DisplayNameOrDefault() = %q", id.DisplayNameOrDefault())
	}
}
