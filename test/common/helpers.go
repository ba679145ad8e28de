package common

import (
	"testing"
	"time"

	"roomly/pkg/client"
)

func RequireStatus(t *testing.T, resp *client.Response, err error, want int) {
	t.Helper()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, resp.ToString())
	}
}

func RequireCode(t *testing.T, resp *client.Response, code string) {
	t.Helper()
	if got := client.GetErrorCode(resp); got != code {
		t.Fatalf("error code = %q, want %q: %s", got, code, resp.ToString())
	}
}

// FutureDate returns a YYYY-MM-DD date days ahead of today in loc.
func FutureDate(days int, loc *time.Location) string {
	return time.Now().In(loc).AddDate(0, 0, days).Format(time.DateOnly)
}
