package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"roomly/internal/bookings/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
	now     func() time.Time
}

func NewBookingHandler(service service.BookingService, log *logger.Logger, now func() time.Time) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
		now:     now,
	}
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Submit")
		return
	}

	result, err := h.service.SubmitBooking(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	var req model.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Cancel")
		return
	}

	result, err := h.service.CancelBooking(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := httputil.ExtractDate(r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	day, err := h.service.GetAvailability(r.Context(), ps.ByName("roomId"), date)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, day); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	month, err := httputil.ExtractMonth(r, h.now())
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		roomID = service.AllRooms
	}

	bookings, err := h.service.GetMonthBookings(r.Context(), caller, roomID, month)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	if err := httputil.WriteList(w, bookings, len(bookings)); err != nil {
		h.log.Error("failed to write list response", "handler", "Month", "operation", "WriteList", "error", err)
	}
}

func (h *BookingHandler) UserBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	month := r.URL.Query().Get("month")
	if month != service.AllRooms {
		var err error
		if month, err = httputil.ExtractMonth(r, h.now()); err != nil {
			h.writeError(w, "UserBookings", err)
			return
		}
	}

	bookings, err := h.service.GetUserBookings(r.Context(), caller, ps.ByName("userId"), month)
	if err != nil {
		h.writeError(w, "UserBookings", err)
		return
	}

	if err := httputil.WriteList(w, bookings, len(bookings)); err != nil {
		h.log.Error("failed to write list response", "handler", "UserBookings", "operation", "WriteList", "error", err)
	}
}

func (h *BookingHandler) writeBadBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteBadRequest", "error", writeErr)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Submit)
	router.POST("/api/v1/bookings/cancel", h.Cancel)
	router.GET("/api/v1/bookings/month", h.Month)
	router.GET("/api/v1/rooms/:roomId/slots", h.Availability)
	router.GET("/api/v1/users/:userId/bookings", h.UserBookings)
}
