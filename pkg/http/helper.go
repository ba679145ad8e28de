package http

import (
	"net/http"
	"strconv"
	"time"

	apperrors "roomly/pkg/errors"
)

const MonthLayout = "2006-01"

// ExtractLimit parses the optional ?limit= query parameter and clamps it.
func ExtractLimit(r *http.Request, fallback, max int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid limit parameter: " + s)
	}
	if v <= 0 {
		return fallback, nil
	}
	return min(v, max), nil
}

// ExtractMonth parses ?month=YYYY-MM, falling back to the month of now.
func ExtractMonth(r *http.Request, now time.Time) (string, error) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return now.Format(MonthLayout), nil
	}
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return "", apperrors.InvalidInput("invalid month parameter, expected YYYY-MM: " + s)
	}
	return s, nil
}

// ExtractDate parses a required YYYY-MM-DD value.
func ExtractDate(value string) (string, error) {
	if value == "" {
		return "", apperrors.InvalidInput("date is required")
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return "", apperrors.InvalidInput("invalid date, expected YYYY-MM-DD: " + value)
	}
	return value, nil
}
