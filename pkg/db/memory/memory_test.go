package memory

import (
	"errors"
	"testing"

	"roomly/pkg/model"
)

func TestUpdate_RollsBackOnError(t *testing.T) {
	db := New()
	_ = db.Update(func(d *Data) error {
		d.Users["alice"] = &model.User{ID: "alice", Balance: 100}
		return nil
	})

	err := db.Update(func(d *Data) error {
		d.Users["alice"].Balance = 0
		d.Days[Key("room", "2025-01-01")] = model.DaySlots{"09:00": {}}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected the callback error")
	}

	_ = db.View(func(d *Data) error {
		if d.Users["alice"].Balance != 100 {
			t.Errorf("balance = %d, want 100 after rollback", d.Users["alice"].Balance)
		}
		if len(d.Days) != 0 {
			t.Errorf("day container should not exist after rollback")
		}
		return nil
	})
}

func TestKey(t *testing.T) {
	if got := Key("general-piano-room", "2025-03-01"); got != "general-piano-room|2025-03-01" {
		t.Errorf("Key() = %q", got)
	}
}
