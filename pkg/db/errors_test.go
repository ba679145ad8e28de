package db

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "roomly/pkg/errors"
)

func TestTranslate(t *testing.T) {
	conflict := apperrors.SlotConflict([]string{"10:00"})

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unavailable", fmt.Errorf("find: %w", errors.Join(ErrUnavailable, errors.New("dial tcp"))), http.StatusServiceUnavailable},
		{"permission", errors.Join(ErrPermissionDenied, errors.New("code 13")), http.StatusForbidden},
		{"app error passes through", fmt.Errorf("tx: %w", conflict), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperrors.AsAppError(Translate(tt.err, "failed"))
			if got.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.StatusCode(), tt.wantStatus)
			}
		})
	}

	if Translate(nil, "x") != nil {
		t.Error("Translate(nil) should be nil")
	}
}
