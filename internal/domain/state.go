package domain

import (
	"github.com/google/uuid"
)

// AppState is the root of all persisted state. It is mutated exclusively
// through store operations and written through to storage after every
// mutation, so a crash loses at most the in-flight operation.
type AppState struct {
	Lists           map[uuid.UUID]*ShoppingList `json:"lists"`
	ActiveListID    *uuid.UUID                  `json:"active_list_id,omitempty"`
	Sessions        map[uuid.UUID]*ChatSession  `json:"sessions"`
	ActiveSessionID *uuid.UUID                  `json:"active_session_id,omitempty"`
}

// NewAppState returns the empty default state.
func NewAppState() *AppState {
	return &AppState{
		Lists:    make(map[uuid.UUID]*ShoppingList),
		Sessions: make(map[uuid.UUID]*ChatSession),
	}
}

// Clone returns a deep copy of the whole state.
func (s *AppState) Clone() *AppState {
	c := NewAppState()
	for id, l := range s.Lists {
		c.Lists[id] = l.Clone()
	}
	for id, sess := range s.Sessions {
		c.Sessions[id] = sess.Clone()
	}
	if s.ActiveListID != nil {
		id := *s.ActiveListID
		c.ActiveListID = &id
	}
	if s.ActiveSessionID != nil {
		id := *s.ActiveSessionID
		c.ActiveSessionID = &id
	}
	return c
}

// Normalize repairs the invariants an externally supplied snapshot may
// violate: nil maps and active ids that reference nothing.
func (s *AppState) Normalize() {
	if s.Lists == nil {
		s.Lists = make(map[uuid.UUID]*ShoppingList)
	}
	if s.Sessions == nil {
		s.Sessions = make(map[uuid.UUID]*ChatSession)
	}
	if s.ActiveListID != nil {
		if _, ok := s.Lists[*s.ActiveListID]; !ok {
			s.ActiveListID = nil
		}
	}
	if s.ActiveSessionID != nil {
		if _, ok := s.Sessions[*s.ActiveSessionID]; !ok {
			s.ActiveSessionID = nil
		}
	}
}

// MostRecentList returns the list with the latest CreatedAt, breaking exact
// ties by id so the choice is deterministic. Returns nil when no lists exist.
func (s *AppState) MostRecentList() *ShoppingList {
	var newest *ShoppingList
	for _, l := range s.Lists {
		if newest == nil || l.CreatedAt.After(newest.CreatedAt) ||
			(l.CreatedAt.Equal(newest.CreatedAt) && l.ID.String() > newest.ID.String()) {
			newest = l
		}
	}
	return newest
}

// MostRecentSession returns the session with the latest CreatedAt, with the
// same tie-break rule as MostRecentList.
func (s *AppState) MostRecentSession() *ChatSession {
	var newest *ChatSession
	for _, sess := range s.Sessions {
		if newest == nil || sess.CreatedAt.After(newest.CreatedAt) ||
			(sess.CreatedAt.Equal(newest.CreatedAt) && sess.ID.String() > newest.ID.String()) {
			newest = sess
		}
	}
	return newest
}
