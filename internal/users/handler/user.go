package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/users/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/identity"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// Me bootstraps the caller's profile on first sight and returns it.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	user, err := h.service.EnsureProfile(r.Context(), caller)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	users, err := h.service.List(r.Context(), caller)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteList(w, users, len(users)); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	user, err := h.service.Get(r.Context(), caller, ps.ByName("userId"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	var update model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteBadRequest", "error", writeErr)
		}
		return
	}

	user, err := h.service.Rename(r.Context(), caller, ps.ByName("userId"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) Deposit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	caller, _ := identity.FromContext(r.Context())

	var req model.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteBadRequest(w, "Invalid request body"); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Deposit", "operation", "WriteBadRequest", "error", writeErr)
		}
		return
	}

	result, err := h.service.Deposit(r.Context(), caller, ps.ByName("userId"), &req)
	if err != nil {
		h.writeError(w, "Deposit", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Deposit", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/me", h.Me)
	router.GET("/api/v1/users", h.List)
	router.GET("/api/v1/users/:userId", h.GetByID)
	router.PATCH("/api/v1/users/:userId", h.Update)
	router.POST("/api/v1/users/:userId/deposit", h.Deposit)
}
