package repository

import (
	"context"

	"roomly/pkg/db/memory"
	"roomly/pkg/model"
)

type memoryOpenSettingRepository struct {
	db *memory.DB
}

func NewMemoryOpenSettingRepository(db *memory.DB) OpenSettingRepository {
	return &memoryOpenSettingRepository{db: db}
}

func (r *memoryOpenSettingRepository) Get(_ context.Context, roomID, date string) (*model.OpenSetting, error) {
	var out *model.OpenSetting
	_ = r.db.View(func(d *memory.Data) error {
		if s, ok := d.OpenSettings[memory.Key(roomID, date)]; ok {
			out = &s
		}
		return nil
	})
	return out, nil
}

func (r *memoryOpenSettingRepository) Put(_ context.Context, setting model.OpenSetting) error {
	return r.db.Update(func(d *memory.Data) error {
		d.OpenSettings[memory.Key(setting.RoomID, setting.Date)] = setting
		return nil
	})
}
