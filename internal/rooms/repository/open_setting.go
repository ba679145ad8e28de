package repository

import (
	"context"

	"roomly/pkg/model"
)

type OpenSettingRepository interface {
	// Get returns nil without error when no setting is stored.
	Get(ctx context.Context, roomID, date string) (*model.OpenSetting, error)
	Put(ctx context.Context, setting model.OpenSetting) error
}
