package repository

import (
	"context"
	"fmt"

	"roomly/pkg/config"
	fsdb "roomly/pkg/db/firestore"
	"roomly/pkg/model"

	"cloud.google.com/go/firestore"
)

type firestoreOpenSettingRepository struct {
	cfg    *config.Config
	client *firestore.Client
}

func NewFirestoreOpenSettingRepository(cfg *config.Config) OpenSettingRepository {
	return &firestoreOpenSettingRepository{cfg: cfg, client: cfg.Client.Firestore}
}

func (r *firestoreOpenSettingRepository) Get(ctx context.Context, roomID, date string) (*model.OpenSetting, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	snap, err := fsdb.OpenSettingDoc(r.client, roomID, date).Get(ctx)
	if fsdb.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read open setting: %w", fsdb.Classify(err))
	}
	var setting model.OpenSetting
	if err := snap.DataTo(&setting); err != nil {
		return nil, fmt.Errorf("failed to decode open setting: %w", err)
	}
	setting.RoomID, setting.Date = roomID, date
	return &setting, nil
}

func (r *firestoreOpenSettingRepository) Put(ctx context.Context, setting model.OpenSetting) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := fsdb.OpenSettingDoc(r.client, setting.RoomID, setting.Date).Set(ctx, setting); err != nil {
		return fmt.Errorf("failed to store open setting: %w", fsdb.Classify(err))
	}
	return nil
}
