package handler

import (
	"encoding/json"
	"net/http"

	"message_board/internal/app/service"
	"message_board/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/user", h.createUser)
}

// createUser handles POST /user. Registering an existing username with the
// matching password succeeds idempotently; with a wrong password it is a
// 409 conflict.
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if _, err := h.userService.Register(r.Context(), req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
