package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/domain"
	"github.com/listkeeper/listkeeper/internal/store"
	"github.com/rs/zerolog"
)

// Mediator sits between the chat surface and the store. It is stateless per
// call apart from the re-entrancy guard: one outstanding assistant request
// per session. A provider failure becomes an assistant chat message and
// never touches list state.
type Mediator struct {
	store  *store.Store
	router *Router
	log    zerolog.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// NewMediator creates a mediator over the store and provider router.
func NewMediator(st *store.Store, router *Router, log zerolog.Logger) *Mediator {
	return &Mediator{
		store:    st,
		router:   router,
		log:      log,
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	Reply     string               `json:"reply"`
	List      *domain.ShoppingList `json:"list,omitempty"`
	Applied   bool                 `json:"applied"`
	Discarded bool                 `json:"discarded"`
}

// Send handles one user chat message: appends it to the session, consults
// the assistant with the active list snapshot, and applies any structured
// intent to the active list. The result is tagged with the session it
// targets; if that session is gone or no longer active by the time the
// assistant answers, the reply is discarded rather than applied to state
// whose id namespace may have changed.
func (m *Mediator) Send(ctx context.Context, sessionID uuid.UUID, userText string) (*ChatResult, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, &domain.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	if !m.acquire(sessionID) {
		return nil, &domain.ValidationError{Field: "session", Reason: "a request is already in flight for this session"}
	}
	defer m.release(sessionID)

	if _, err := m.store.AppendMessage(ctx, sessionID, domain.RoleUser, userText); err != nil {
		return nil, err
	}

	req := Request{UserText: userText}
	activeList, hasList := m.store.ActiveList()
	if hasList {
		req.ListName = activeList.Name
		for _, it := range activeList.Items {
			req.Items = append(req.Items, ItemSnapshot{ID: it.ID, Text: it.Text, Done: it.Done, Quantity: it.Quantity})
		}
	}
	if sess, ok := m.store.ActiveSession(); ok && sess.ID == sessionID {
		// The current user turn is delivered through the prompt; keep it out
		// of the history so the model never sees the same text twice.
		msgs := sess.Messages
		if n := len(msgs); n > 0 && msgs[n-1].Role == domain.RoleUser && msgs[n-1].Text == userText {
			msgs = msgs[:n-1]
		}
		for _, msg := range msgs {
			req.History = append(req.History, Turn{Role: msg.Role, Text: msg.Text})
		}
	}

	resp, err := m.interpret(ctx, req)

	// The response targets sessionID; discard it when the user has deleted
	// or switched away from that session while the call was outstanding.
	if active, ok := m.store.ActiveSession(); !ok || active.ID != sessionID {
		m.log.Debug().Str("session_id", sessionID.String()).Msg("discarding assistant reply for inactive session")
		return &ChatResult{Discarded: true}, nil
	}

	if err != nil {
		aerr := &domain.AssistantError{Provider: m.router.DefaultProvider(), Err: err}
		m.log.Warn().Err(aerr).Msg("assistant call failed")
		reply := fmt.Sprintf("Sorry, I couldn't reach the assistant right now (%v). Your list is unchanged.", err)
		if _, err := m.store.AppendMessage(ctx, sessionID, domain.RoleAssistant, reply); err != nil {
			return nil, err
		}
		return &ChatResult{Reply: reply}, nil
	}

	result := &ChatResult{Reply: resp.Reply}

	if !resp.Intent.Empty() {
		if resp.Intent.CreateList != "" {
			created, err := m.store.CreateList(ctx, resp.Intent.CreateList)
			if err != nil {
				result.Reply += fmt.Sprintf(" (I couldn't create the list: %v.)", err)
			} else {
				activeList, hasList = created, true
				result.List = created
				result.Applied = true
			}
		}

		if len(resp.Intent.Ops) > 0 {
			if !hasList {
				result.Reply += " You don't have a shopping list yet. Create one first and I'll add things to it."
			} else {
				updated, err := m.store.ApplyIntent(ctx, activeList.ID, domain.Intent{Ops: resp.Intent.Ops})
				if err != nil {
					result.Reply += fmt.Sprintf(" (I couldn't update the list: %v.)", err)
				} else {
					result.List = updated
					result.Applied = true
				}
			}
		}
	}

	if _, err := m.store.AppendMessage(ctx, sessionID, domain.RoleAssistant, result.Reply); err != nil {
		return nil, err
	}
	return result, nil
}

// interpret resolves the default provider and runs the call.
func (m *Mediator) interpret(ctx context.Context, req Request) (*Response, error) {
	provider, err := m.router.GetProvider("")
	if err != nil {
		return nil, err
	}
	return provider.Interpret(ctx, req)
}

func (m *Mediator) acquire(sessionID uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inflight[sessionID]; busy {
		return false
	}
	m.inflight[sessionID] = struct{}{}
	return true
}

func (m *Mediator) release(sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, sessionID)
}
