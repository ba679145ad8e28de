package handler

import (
	"net/http"

	"roomly/internal/records/service"
	"roomly/pkg/config"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type RecordHandler struct {
	service service.RecordService
	log     *logger.Logger
}

func NewRecordHandler(service service.RecordService, log *logger.Logger) *RecordHandler {
	return &RecordHandler{service: service, log: log}
}

func (h *RecordHandler) ListRecent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	// Zero lets the service apply the configured default.
	limit, err := httputil.ExtractLimit(r, 0, config.MaxCancelRecordsLimit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRecent", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records, err := h.service.ListRecent(r.Context(), caller, limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListRecent", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteList(w, records, len(records)); err != nil {
		h.log.Error("failed to write list response", "handler", "ListRecent", "operation", "WriteList", "error", err)
	}
}

func (h *RecordHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/cancel-records", h.ListRecent)
}
