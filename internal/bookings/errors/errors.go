package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSlotConflict = errors.New("time slot already booked")

	ErrSlotClosed = errors.New("time slot closed for booking")

	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrBookingNotFound = errors.New("booking not found")

	ErrCancelWindowClosed = errors.New("booking can no longer be cancelled")

	ErrUserNotFound = errors.New("user profile not found")
)

// SlotConflictError lists the requested slots that were already taken when
// the transaction re-read the day.
type SlotConflictError struct {
	Slots []string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotConflict, strings.Join(e.Slots, ", "))
}

func (e *SlotConflictError) Unwrap() error { return ErrSlotConflict }

type SlotClosedError struct {
	Slots []string
}

func (e *SlotClosedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotClosed, strings.Join(e.Slots, ", "))
}

func (e *SlotClosedError) Unwrap() error { return ErrSlotClosed }

type InsufficientBalanceError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: balance %d, required %d", ErrInsufficientBalance, e.Balance, e.Required)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
