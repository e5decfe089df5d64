package handler

import (
	"net/http"
	"sort"

	"github.com/listkeeper/listkeeper/internal/api/response"
	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/store"
)

// StateHandler serves the full render snapshot the page binds to.
type StateHandler struct {
	store *store.Store
}

// NewStateHandler creates a new state handler
func NewStateHandler(st *store.Store) *StateHandler {
	return &StateHandler{store: st}
}

type listSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
	Active    bool   `json:"active"`
}

type sessionSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// renderState is everything the page needs for one full render. EmptyState
// distinguishes "no lists exist" from "active list has zero items".
type renderState struct {
	Lists         []listSummary        `json:"lists"`
	ActiveList    *domain.ShoppingList `json:"active_list,omitempty"`
	Sessions      []sessionSummary     `json:"sessions"`
	ActiveSession *domain.ChatSession  `json:"active_session,omitempty"`
	TotalItems    int                  `json:"total_items"`
	EmptyState    string               `json:"empty_state,omitempty"`
	Degraded      bool                 `json:"degraded"`
	Recovered     bool                 `json:"recovered"`
}

// Get returns the render snapshot.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()

	rs := renderState{
		Lists:     []listSummary{},
		Sessions:  []sessionSummary{},
		Degraded:  h.store.Degraded(),
		Recovered: h.store.Recovered(),
	}

	for _, l := range state.Lists {
		active := state.ActiveListID != nil && *state.ActiveListID == l.ID
		rs.Lists = append(rs.Lists, listSummary{
			ID:        l.ID.String(),
			Name:      l.Name,
			ItemCount: len(l.Items),
			Active:    active,
		})
		if active {
			rs.ActiveList = l
			rs.TotalItems = len(l.Items)
		}
	}
	sortByCreation(rs.Lists, state)

	for _, sess := range state.Sessions {
		active := state.ActiveSessionID != nil && *state.ActiveSessionID == sess.ID
		rs.Sessions = append(rs.Sessions, sessionSummary{
			ID:     sess.ID.String(),
			Name:   sess.Name,
			Active: active,
		})
		if active {
			rs.ActiveSession = sess
		}
	}
	sortSessionsByCreation(rs.Sessions, state)

	switch {
	case len(state.Lists) == 0:
		rs.EmptyState = "no_lists"
	case rs.ActiveList != nil && len(rs.ActiveList.Items) == 0:
		rs.EmptyState = "empty_list"
	}

	response.OK(w, rs)
}

func sortByCreation(lists []listSummary, state *domain.AppState) {
	sort.SliceStable(lists, func(i, j int) bool {
		a, b := findList(state, lists[i].ID), findList(state, lists[j].ID)
		if a == nil || b == nil {
			return false
		}
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func sortSessionsByCreation(sessions []sessionSummary, state *domain.AppState) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := findSession(state, sessions[i].ID), findSession(state, sessions[j].ID)
		if a == nil || b == nil {
			return false
		}
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func findList(state *domain.AppState, id string) *domain.ShoppingList {
	for _, l := range state.Lists {
		if l.ID.String() == id {
			return l
		}
	}
	return nil
}

func findSession(state *domain.AppState, id string) *domain.ChatSession {
	for _, s := range state.Sessions {
		if s.ID.String() == id {
			return s
		}
	}
	return nil
}
