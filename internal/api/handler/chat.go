package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/api/response"
	"github.com/listkeeper/listkeeper/internal/assistant"
	"github.com/listkeeper/listkeeper/internal/store"
)

// ChatHandler forwards chat messages through the mediator.
type ChatHandler struct {
	store    *store.Store
	mediator *assistant.Mediator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(st *store.Store, med *assistant.Mediator) *ChatHandler {
	return &ChatHandler{store: st, mediator: med}
}

// Send handles one chat turn. The session defaults to the active one, which
// is created when none exists yet.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id,omitempty"`
		Message   string `json:"message" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return
	}

	var sessionID uuid.UUID
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			response.BadRequest(w, "invalid session ID")
			return
		}
		sessionID = id
	} else {
		sess, err := h.store.EnsureActiveSession(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		sessionID = sess.ID
	}

	result, err := h.mediator.Send(r.Context(), sessionID, req.Message)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.OK(w, result)
}
