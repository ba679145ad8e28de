package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/rooms/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{service: service, log: log}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Catalog(r.Context())); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetOpenSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	setting, err := h.service.GetOpenSetting(r.Context(), ps.ByName("roomId"), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "GetOpenSetting", err)
		return
	}

	if err := httputil.WriteSuccess(w, setting); err != nil {
		h.log.Error("failed to write success response", "handler", "GetOpenSetting", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) UpdateOpenSetting(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	var update model.OpenSettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateOpenSetting", "operation", "WriteBadRequest", "error", writeErr)
		}
		return
	}

	setting, err := h.service.UpdateOpenSetting(r.Context(), caller, ps.ByName("roomId"), ps.ByName("date"), &update)
	if err != nil {
		h.writeError(w, "UpdateOpenSetting", err)
		return
	}

	if err := httputil.WriteSuccess(w, setting); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateOpenSetting", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.List)
	router.GET("/api/v1/rooms/:roomId/open-settings/:date", h.GetOpenSetting)
	router.PUT("/api/v1/rooms/:roomId/open-settings/:date", h.UpdateOpenSetting)
}
