package catalog

import (
	"fmt"
	"time"

	"roomly/pkg/model"
)

const (
	SlotLayout    = "15:04"
	SlotDuration  = 30 * time.Minute
	SlotHours     = 0.5
)

// SlotConfig is the bookable grid of one day. The last slot starts one
// interval before EndHour.
type SlotConfig struct {
	StartHour       int `json:"start_hour"`
	EndHour         int `json:"end_hour"`
	IntervalMinutes int `json:"interval_minutes"`
}

var DefaultSlotConfig = SlotConfig{StartHour: 9, EndHour: 21, IntervalMinutes: 30}

type TimeCategory struct {
	Name      string `json:"name"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

var Categories = []TimeCategory{
	{Name: model.CategoryMorning, StartHour: 9, EndHour: 12},
	{Name: model.CategoryAfternoon, StartHour: 12, EndHour: 18},
	{Name: model.CategoryEvening, StartHour: 18, EndHour: 21},
}

// All returns every slot start of the grid in order.
func (c SlotConfig) All() []string {
	var out []string
	for m := c.StartHour * 60; m < c.EndHour*60; m += c.IntervalMinutes {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

// Valid reports whether start is an aligned slot inside the grid.
func (c SlotConfig) Valid(start string) bool {
	m, ok := minutesOf(start)
	if !ok {
		return false
	}
	return m >= c.StartHour*60 && m < c.EndHour*60 && (m-c.StartHour*60)%c.IntervalMinutes == 0
}

// End returns start plus one interval.
func (c SlotConfig) End(start string) (string, error) {
	m, ok := minutesOf(start)
	if !ok {
		return "", fmt.Errorf("invalid slot start %q", start)
	}
	m += c.IntervalMinutes
	return fmt.Sprintf("%02d:%02d", m/60, m%60), nil
}

// CategoryOf returns the time category a slot start falls in.
func CategoryOf(start string) (string, error) {
	m, ok := minutesOf(start)
	if !ok {
		return "", fmt.Errorf("invalid slot start %q", start)
	}
	for _, cat := range Categories {
		if m >= cat.StartHour*60 && m < cat.EndHour*60 {
			return cat.Name, nil
		}
	}
	return "", fmt.Errorf("slot %q is outside every time category", start)
}

// StartsAt returns the instant a slot on date begins in loc.
func StartsAt(date, start string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(time.DateOnly+" "+SlotLayout, date+" "+start, loc)
}

func minutesOf(start string) (int, bool) {
	if len(start) != len(SlotLayout) {
		return 0, false
	}
	t, err := time.Parse(SlotLayout, start)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// DatesOfMonth lists every YYYY-MM-DD date of a YYYY-MM month.
func DatesOfMonth(month string) ([]string, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	var out []string
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(time.DateOnly))
	}
	return out, nil
}
