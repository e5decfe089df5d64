package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/api/response"
	"github.com/listkeeper/listkeeper/internal/store"
)

// ListHandler exposes shopping list operations.
type ListHandler struct {
	store *store.Store
}

// NewListHandler creates a new list handler
func NewListHandler(st *store.Store) *ListHandler {
	return &ListHandler{store: st}
}

// Create creates a list and makes it active
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return
	}

	list, err := h.store.CreateList(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Created(w, list)
}

// Rename changes a list's name
func (h *ListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseListID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return
	}

	list, err := h.store.RenameList(r.Context(), listID, req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.OK(w, list)
}

// Delete removes a list
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseListID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteList(r.Context(), listID); err != nil {
		writeStoreError(w, err)
		return
	}
	response.NoContent(w)
}

// Activate makes a list the active one
func (h *ListHandler) Activate(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseListID(w, r)
	if !ok {
		return
	}

	if err := h.store.SwitchActiveList(r.Context(), listID); err != nil {
		writeStoreError(w, err)
		return
	}
	response.OK(w, map[string]string{"active_list_id": listID.String()})
}

// AddItem appends an item to a list
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseListID(w, r)
	if !ok {
		return
	}

	var req struct {
		Text     string `json:"text" validate:"required"`
		Quantity *int   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return
	}

	list, err := h.store.AddItem(r.Context(), listID, req.Text, req.Quantity)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.Created(w, list)
}

// ToggleItem flips an item's done flag
func (h *ListHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseListID(w, r)
	if !ok {
		return
	}
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}

	list, err := h.store.ToggleItem(r.Context(), listID, itemID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.OK(w, list)
}

// RemoveItem deletes an item from a list
func (h *ListHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseListID(w, r)
	if !ok {
		return
	}
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}

	list, err := h.store.RemoveItem(r.Context(), listID, itemID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	response.OK(w, list)
}

func parseListID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "listID"))
	if err != nil {
		response.BadRequest(w, "invalid list ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid item ID")
		return 0, false
	}
	return id, true
}
