package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/api/response"
	"github.com/listkeeper/listkeeper/internal/store"
)

// SessionHandler exposes chat session operations.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(st *store.Store) *SessionHandler {
	return &SessionHandler{store: st}
}

// Create starts a fresh session and makes it active
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.CreateSession(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Created(w, session)
}

// Delete removes a session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
		writeStoreError(w, err)
		return
	}
	response.NoContent(w)
}

// Activate makes a session the active one
func (h *SessionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	if err := h.store.SwitchActiveSession(r.Context(), sessionID); err != nil {
		writeStoreError(w, err)
		return
	}
	response.OK(w, map[string]string{"active_session_id": sessionID.String()})
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
