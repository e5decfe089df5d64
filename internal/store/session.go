package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/domain"
)

// CreateSession starts a fresh chat session, seeds the assistant welcome
// message, and makes the session active. Mirrors CreateList's new-is-active
// rule.
func (s *Store) CreateSession(ctx context.Context) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.newSessionLocked()
	s.persistLocked(ctx)
	return sess.Clone(), nil
}

// newSessionLocked inserts a seeded session and activates it. Caller holds mu.
func (s *Store) newSessionLocked() *domain.ChatSession {
	now := time.Now()
	sess := &domain.ChatSession{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Chat %d", len(s.state.Sessions)+1),
		Messages: []domain.Message{
			{Role: domain.RoleAssistant, Text: domain.WelcomeMessage, Timestamp: now},
		},
		CreatedAt: now,
	}
	s.state.Sessions[sess.ID] = sess
	active := sess.ID
	s.state.ActiveSessionID = &active
	return sess
}

// EnsureActiveSession returns the active session, creating one when none
// exists. Once any session has ever existed there is always at least one.
func (s *Store) EnsureActiveSession(ctx context.Context) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ActiveSessionID != nil {
		if sess, ok := s.state.Sessions[*s.state.ActiveSessionID]; ok {
			return sess.Clone(), nil
		}
	}
	sess := s.newSessionLocked()
	s.persistLocked(ctx)
	return sess.Clone(), nil
}

// DeleteSession removes a session. Deleting the last one auto-creates a
// fresh replacement so a session selector is never empty; deleting the
// active one among survivors activates the most recently created survivor.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Sessions[id]; !ok {
		return &domain.NotFoundError{Entity: "session", ID: id.String()}
	}
	wasActive := s.state.ActiveSessionID != nil && *s.state.ActiveSessionID == id
	delete(s.state.Sessions, id)

	if len(s.state.Sessions) == 0 {
		s.newSessionLocked()
	} else if wasActive {
		next := s.state.MostRecentSession()
		active := next.ID
		s.state.ActiveSessionID = &active
	}

	s.persistLocked(ctx)
	return nil
}

// SwitchActiveSession changes the active session pointer and nothing else.
func (s *Store) SwitchActiveSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Sessions[id]; !ok {
		return &domain.NotFoundError{Entity: "session", ID: id.String()}
	}
	active := id
	s.state.ActiveSessionID = &active

	s.persistLocked(ctx)
	return nil
}

// AppendMessage appends one immutable message to a session. User messages
// must carry text; assistant messages may be empty placeholders.
func (s *Store) AppendMessage(ctx context.Context, sessionID uuid.UUID, role domain.MessageRole, text string) (*domain.ChatSession, error) {
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return nil, &domain.ValidationError{Field: "role", Reason: "unknown role " + string(role)}
	}
	if role == domain.RoleUser && strings.TrimSpace(text) == "" {
		return nil, &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.state.Sessions[sessionID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "session", ID: sessionID.String()}
	}
	sess.Messages = append(sess.Messages, domain.Message{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})

	s.persistLocked(ctx)
	return sess.Clone(), nil
}
