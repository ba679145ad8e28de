package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"roomly/internal/revenue/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type RevenueHandler struct {
	service service.RevenueService
	log     *logger.Logger
	now     func() time.Time
}

func NewRevenueHandler(service service.RevenueService, log *logger.Logger, now func() time.Time) *RevenueHandler {
	return &RevenueHandler{service: service, log: log, now: now}
}

func (h *RevenueHandler) Report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	month, err := httputil.ExtractMonth(r, h.now())
	if err != nil {
		h.writeError(w, "Report", err)
		return
	}

	report, err := h.service.Report(r.Context(), caller, month, r.URL.Query().Get("room_id"))
	if err != nil {
		h.writeError(w, "Report", err)
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Report", "operation", "WriteSuccess", "error", err)
	}
}

// Estimate accepts an empty body, which means all defaults.
func (h *RevenueHandler) Estimate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	var params service.EstimateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Estimate", "operation", "WriteBadRequest", "error", writeErr)
		}
		return
	}

	est, err := h.service.Estimate(r.Context(), caller, params)
	if err != nil {
		h.writeError(w, "Estimate", err)
		return
	}

	if err := httputil.WriteSuccess(w, est); err != nil {
		h.log.Error("failed to write success response", "handler", "Estimate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RevenueHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RevenueHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/revenue/report", h.Report)
	router.POST("/api/v1/revenue/estimate", h.Estimate)
}
