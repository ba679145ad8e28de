package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"roomly/pkg/model"
	"roomly/pkg/validation"
)

var ErrRoomNotFound = errors.New("room not found")

func DefaultRooms() []model.Room {
	return []model.Room{
		{
			ID:          "general-piano-room",
			Name:        "一般琴房",
			Capacity:    2,
			Price:       100,
			Description: "Upright piano, suitable for practice and lessons",
			Color:       "#4f8cc9",
		},
		{
			ID:          "standard-recording-studio",
			Name:        "標準錄音室",
			Capacity:    4,
			Price:       350,
			Description: "Treated live room with monitoring and a vocal booth",
			Color:       "#c94f7c",
		},
	}
}

// Catalog is the immutable room configuration loaded at startup.
type Catalog struct {
	rooms    []model.Room
	byID     map[string]model.Room
	holidays map[string]struct{}
	Slots    SlotConfig
}

// Load reads rooms from a JSON array file, or uses DefaultRooms when path is
// empty.
func Load(path string, holidays []string) (*Catalog, error) {
	if path == "" {
		return New(DefaultRooms(), holidays)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rooms file: %w", err)
	}
	var rooms []model.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms file: %w", err)
	}
	return New(rooms, holidays)
}

func New(rooms []model.Room, holidays []string) (*Catalog, error) {
	if len(rooms) == 0 {
		return nil, errors.New("at least one room is required")
	}

	v := validation.New()
	c := &Catalog{
		rooms:    make([]model.Room, 0, len(rooms)),
		byID:     make(map[string]model.Room, len(rooms)),
		holidays: make(map[string]struct{}, len(holidays)),
		Slots:    DefaultSlotConfig,
	}
	for _, room := range rooms {
		if err := validation.Struct(v, room); err != nil {
			return nil, fmt.Errorf("invalid room %q: %w", room.ID, err)
		}
		if strings.ContainsAny(room.ID, "|.$") {
			return nil, fmt.Errorf("room id %q must not contain '|', '.' or '$'", room.ID)
		}
		if _, dup := c.byID[room.ID]; dup {
			return nil, fmt.Errorf("duplicate room id %q", room.ID)
		}
		c.rooms = append(c.rooms, room)
		c.byID[room.ID] = room
	}
	for _, day := range holidays {
		if _, err := time.Parse(time.DateOnly, day); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", day, err)
		}
		c.holidays[day] = struct{}{}
	}
	return c, nil
}

func (c *Catalog) Rooms() []model.Room {
	out := make([]model.Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

func (c *Catalog) RoomIDs() []string {
	ids := make([]string, len(c.rooms))
	for i, r := range c.rooms {
		ids[i] = r.ID
	}
	return ids
}

func (c *Catalog) Room(id string) (model.Room, error) {
	room, ok := c.byID[id]
	if !ok {
		return model.Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room, nil
}

func (c *Catalog) IsHoliday(date string) bool {
	_, ok := c.holidays[date]
	return ok
}

// PriceFor is the per-slot price of room on date.
func (c *Catalog) PriceFor(room model.Room, date string) int64 {
	if room.HolidayPrice != nil && c.IsHoliday(date) {
		return *room.HolidayPrice
	}
	return room.Price
}

// Holidays returns the configured holiday dates in ascending order.
func (c *Catalog) Holidays() []string {
	days := make([]string, 0, len(c.holidays))
	for day := range c.holidays {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
