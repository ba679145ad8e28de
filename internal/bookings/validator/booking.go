package validator

import (
	"fmt"
	"time"

	"roomly/internal/rooms/catalog"
	"roomly/pkg/logger"
	"roomly/pkg/model"
	"roomly/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	slots    catalog.SlotConfig
	maxSlots int
	logger   *logger.Logger
}

func NewBookingValidator(slots catalog.SlotConfig, maxSlots int, log *logger.Logger) *BookingValidator {
	v := validation.New()

	if err := v.RegisterValidation("slot_time", func(fl validator.FieldLevel) bool {
		return slots.Valid(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'slot_time' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		slots:    slots,
		maxSlots: maxSlots,
		logger:   log,
	}
}

// Validate checks a booking request. now is in the studio timezone and
// rejects slots that have already started.
func (v *BookingValidator) Validate(req *model.BookingRequest, now time.Time) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}

	if len(req.Slots) > v.maxSlots {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "slots",
				Message: fmt.Sprintf("at most %d slots can be booked at once, got %d", v.maxSlots, len(req.Slots)),
			},
		}
	}

	for _, slot := range req.Slots {
		start, err := catalog.StartsAt(req.Date, slot, now.Location())
		if err != nil {
			return validation.ValidationErrors{{Field: "slots", Message: err.Error()}}
		}
		if start.Before(now) {
			return validation.ValidationErrors{
				validation.ValidationError{
					Field:   "slots",
					Message: fmt.Sprintf("slot %s on %s has already started", slot, req.Date),
				},
			}
		}
	}

	return nil
}

func (v *BookingValidator) ValidateCancel(req *model.CancelRequest) error {
	return validation.Struct(v.validate, req)
}
