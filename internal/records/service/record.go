package service

import (
	"context"
	"time"

	"roomly/internal/records/repository"
	"roomly/pkg/config"
	"roomly/pkg/db"
	"roomly/pkg/identity"
	"roomly/pkg/kafka"
	"roomly/pkg/middleware"
	"roomly/pkg/model"
)

const (
	EventCancelRecordRetry = "cancel_record.retry"

	appendTimeout = 5 * time.Second
)

type RecordService interface {
	// Record appends rec on a best-effort basis. A failed append is logged
	// with the full payload and queued on the retry topic.
	Record(ctx context.Context, rec model.CancelRecord)
	Append(ctx context.Context, rec model.CancelRecord) error
	ListRecent(ctx context.Context, caller *identity.Identity, limit int) ([]model.CancelRecord, error)
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, caller *identity.Identity) error
}

type recordService struct {
	repo   repository.RecordRepository
	retry  kafka.Publisher
	access Authorizer
	cfg    *config.Config
}

// NewRecordService wires the audit trail. retry may be nil when Kafka is
// disabled, in which case failed records are only logged.
func NewRecordService(repo repository.RecordRepository, retry kafka.Publisher, access Authorizer, cfg *config.Config) RecordService {
	return &recordService{repo: repo, retry: retry, access: access, cfg: cfg}
}

func (s *recordService) Record(ctx context.Context, rec model.CancelRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), appendTimeout)
	defer cancel()

	err := s.repo.Append(ctx, rec)
	if err == nil {
		return
	}
	s.cfg.Log.Error("Failed to append cancel record",
		"record_id", rec.ID,
		"target_user_id", rec.TargetUserID,
		"record", rec,
		"error", err,
	)

	if s.retry == nil {
		s.cfg.Log.Error("audit record lost", "record", rec, "reason", "retry queue disabled")
		return
	}
	msg, buildErr := kafka.NewMessage().
		WithKey(rec.TargetUserID).
		WithEventID(rec.ID).
		WithEventType(EventCancelRecordRetry).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithValue(rec).
		Build()
	if buildErr == nil {
		buildErr = s.retry.Publish(ctx, msg)
	}
	if buildErr != nil {
		s.cfg.Log.Error("audit record lost", "record", rec, "error", buildErr)
		return
	}
	s.cfg.Log.Warn("Cancel record queued for retry", "record_id", rec.ID)
}

func (s *recordService) Append(ctx context.Context, rec model.CancelRecord) error {
	if err := s.repo.Append(ctx, rec); err != nil {
		return db.Translate(err, "Failed to append cancel record")
	}
	return nil
}

func (s *recordService) ListRecent(ctx context.Context, caller *identity.Identity, limit int) ([]model.CancelRecord, error) {
	if err := s.access.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	limit = config.NormalizeLimit(limit, s.cfg.CancelRecordsLimit, config.MaxCancelRecordsLimit)

	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list cancel records", "error", err)
		return nil, db.Translate(err, "Failed to retrieve cancel records")
	}
	return records, nil
}
