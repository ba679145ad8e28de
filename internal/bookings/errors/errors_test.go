package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsUnwrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"conflict", &SlotConflictError{Slots: []string{"10:00"}}, ErrSlotConflict},
		{"closed", &SlotClosedError{Slots: []string{"19:00"}}, ErrSlotClosed},
		{"balance", &InsufficientBalanceError{Balance: 50, Required: 100}, ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("transaction failed: %w", tt.err)
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.want)
			}
		})
	}

	var conflict *SlotConflictError
	if !errors.As(fmt.Errorf("x: %w", &SlotConflictError{Slots: []string{"09:00", "09:30"}}), &conflict) || len(conflict.Slots) != 2 {
		t.Errorf("errors.As did not recover the slot list")
	}
}
