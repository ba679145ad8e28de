package notifications

import (
	"context"
	"time"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	source         = "roomly-bookings"
	schemaVersion  = "1"
	publishTimeout = 5 * time.Second
)

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Booker     string    `json:"booker"`
	OperatorID string    `json:"operator_id,omitempty"`
	RoomID     string    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	Date       string    `json:"date"`
	Slots      []string  `json:"slots"`
	Cost       int64     `json:"cost"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier delivers booking events after commit. Delivery failures are
// logged and never surface to the caller.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type KafkaNotifier struct {
	pub kafka.Publisher
	log *logger.Logger
}

func NewKafkaNotifier(pub kafka.Publisher, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{pub: pub, log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg, err := kafka.NewMessage().
		WithKey(ev.RoomID).
		WithEventType(ev.Type).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithValue(ev).
		Build()
	if err != nil {
		n.log.Error("Failed to build notification", "event_type", ev.Type, "error", err)
		return
	}

	if err := n.pub.Publish(ctx, msg); err != nil {
		n.log.Warn("Failed to publish notification",
			"event_type", ev.Type,
			"room_id", ev.RoomID,
			"date", ev.Date,
			"user_id", ev.UserID,
			"error", err,
		)
	}
}

// LogNotifier is used when Kafka is disabled.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, ev Event) {
	n.log.Debug("Booking event",
		"event_type", ev.Type,
		"room_id", ev.RoomID,
		"date", ev.Date,
		"slots", ev.Slots,
		"user_id", ev.UserID,
	)
}
