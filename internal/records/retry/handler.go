// Package retry consumes cancel records whose first append failed and
// writes them to the audit store.
package retry

import (
	"context"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type Appender interface {
	Append(ctx context.Context, rec model.CancelRecord) error
}

func NewHandler(appender Appender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var rec model.CancelRecord
		if err := msg.DecodeValue(&rec); err != nil {
			return kafka.NewPermanentError("undecodable cancel record", err)
		}
		if rec.ID == "" || rec.TargetUserID == "" {
			return kafka.NewPermanentError("cancel record is missing id or target user", kafka.ErrInvalidMessage)
		}

		if err := appender.Append(ctx, rec); err != nil {
			return kafka.NewTransientError("failed to append cancel record", err)
		}
		log.Info("Cancel record recovered",
			"record_id", rec.ID,
			"target_user_id", rec.TargetUserID,
			"retry_count", msg.GetRetryCount(),
		)
		return nil
	}
}
