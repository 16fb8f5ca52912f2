package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"message_board/internal/api/middleware"
	"message_board/internal/app/service"
	"message_board/internal/common"
	"message_board/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messageService *service.MessageService
	superUser      string
}

func NewMessageHandler(messageService *service.MessageService, superUser string) *MessageHandler {
	return &MessageHandler{messageService: messageService, superUser: superUser}
}

func (h *MessageHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/message", h.listMessages)
}

func (h *MessageHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/message/me", h.listMine)
	r.Get("/message/tagged", h.listTagged)
	r.Post("/message/create", h.createMessage)
	r.Delete("/message/nuke", h.nukeMessages)
}

type MessagesResponse struct {
	Messages []model.MessagePayload `json:"messages"`
}

func messagesResponse(messages []model.Message) MessagesResponse {
	payload := make([]model.MessagePayload, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, m.Payload())
	}
	return MessagesResponse{Messages: payload}
}

func (h *MessageHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit", service.DefaultFeedLimit)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid `limit` param")
		return
	}
	since, err := intQueryParam(r, "since", 0)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid `since` param")
		return
	}

	messages, err := h.messageService.ListAll(r.Context(), int(limit), since)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messagesResponse(messages))
}

func (h *MessageHandler) listMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	messages, err := h.messageService.ListMine(r.Context(), user)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messagesResponse(messages))
}

func (h *MessageHandler) listTagged(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	messages, err := h.messageService.ListTagged(r.Context(), user)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messagesResponse(messages))
}

func (h *MessageHandler) createMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if _, err := h.messageService.Create(r.Context(), user, req); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// nukeMessages handles DELETE /message/nuke: removes every message on the
// board. Only the configured superuser may do this; the comparison is exact
// and case-sensitive.
func (h *MessageHandler) nukeMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	if h.superUser == "" || user.Username != h.superUser {
		common.RespondWithError(w, http.StatusForbidden, "Superuser access required")
		return
	}

	if err := h.messageService.PurgeAll(r.Context()); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// intQueryParam parses an optional non-negative integer query parameter.
// An absent parameter takes the fallback; an explicit "0" stays 0.
func intQueryParam(r *http.Request, name string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, common.Errorf("negative value for %q", name)
	}
	return value, nil
}
