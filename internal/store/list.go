package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/listkeeper/listkeeper/internal/domain"
)

// CreateList creates a list and makes it the active one. New lists always
// become active.
func (s *Store) CreateList(ctx context.Context, name string) (*domain.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := &domain.ShoppingList{
		ID:         uuid.New(),
		Name:       name,
		Items:      []domain.Item{},
		NextItemID: 1,
		CreatedAt:  time.Now(),
	}
	s.state.Lists[l.ID] = l
	active := l.ID
	s.state.ActiveListID = &active

	s.persistLocked(ctx)
	return l.Clone(), nil
}

// RenameList changes a list's name. Id and items are untouched.
func (s *Store) RenameList(ctx context.Context, id uuid.UUID, newName string) (*domain.ShoppingList, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.state.Lists[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "list", ID: id.String()}
	}
	l.Name = newName

	s.persistLocked(ctx)
	return l.Clone(), nil
}

// DeleteList removes a list. When the active list is deleted, the most
// recently created survivor becomes active, or none when no lists remain.
func (s *Store) DeleteList(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Lists[id]; !ok {
		return &domain.NotFoundError{Entity: "list", ID: id.String()}
	}
	delete(s.state.Lists, id)

	if s.state.ActiveListID != nil && *s.state.ActiveListID == id {
		if next := s.state.MostRecentList(); next != nil {
			active := next.ID
			s.state.ActiveListID = &active
		} else {
			s.state.ActiveListID = nil
		}
	}

	s.persistLocked(ctx)
	return nil
}

// SwitchActiveList changes the active list pointer and nothing else. Chat
// state and other lists are untouched.
func (s *Store) SwitchActiveList(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Lists[id]; !ok {
		return &domain.NotFoundError{Entity: "list", ID: id.String()}
	}
	active := id
	s.state.ActiveListID = &active

	s.persistLocked(ctx)
	return nil
}

// AddItem appends an item to a list.
func (s *Store) AddItem(ctx context.Context, listID uuid.UUID, text string, quantity *int) (*domain.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.state.Lists[listID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "list", ID: listID.String()}
	}
	if err := addItem(l, text, quantity); err != nil {
		return nil, err
	}

	s.persistLocked(ctx)
	return l.Clone(), nil
}

// ToggleItem flips an item's done flag.
func (s *Store) ToggleItem(ctx context.Context, listID uuid.UUID, itemID int64) (*domain.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.state.Lists[listID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "list", ID: listID.String()}
	}
	i := l.ItemIndex(itemID)
	if i < 0 {
		return nil, &domain.NotFoundError{Entity: "item", ID: itoa(itemID)}
	}
	l.Items[i].Done = !l.Items[i].Done

	s.persistLocked(ctx)
	return l.Clone(), nil
}

// RemoveItem deletes an item from a list.
func (s *Store) RemoveItem(ctx context.Context, listID uuid.UUID, itemID int64) (*domain.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.state.Lists[listID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "list", ID: listID.String()}
	}
	i := l.ItemIndex(itemID)
	if i < 0 {
		return nil, &domain.NotFoundError{Entity: "item", ID: itoa(itemID)}
	}
	l.Items = append(l.Items[:i], l.Items[i+1:]...)

	s.persistLocked(ctx)
	return l.Clone(), nil
}

// ApplyIntent applies a batch of assistant-requested item operations as one
// persisted transaction. The operations run against a copy of the list; any
// failure rejects the whole batch and the prior state is retained.
func (s *Store) ApplyIntent(ctx context.Context, listID uuid.UUID, intent domain.Intent) (*domain.ShoppingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.state.Lists[listID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "list", ID: listID.String()}
	}

	work := l.Clone()
	for _, op := range intent.Ops {
		if err := applyOp(work, op); err != nil {
			return nil, err
		}
	}
	s.state.Lists[listID] = work

	s.persistLocked(ctx)
	return work.Clone(), nil
}

func applyOp(l *domain.ShoppingList, op domain.IntentOp) error {
	switch op.Action {
	case domain.IntentAdd:
		return addItem(l, op.Item, op.Quantity)
	case domain.IntentRemove:
		i, err := resolveItem(l, op)
		if err != nil {
			return err
		}
		l.Items = append(l.Items[:i], l.Items[i+1:]...)
		return nil
	case domain.IntentToggle:
		i, err := resolveItem(l, op)
		if err != nil {
			return err
		}
		l.Items[i].Done = !l.Items[i].Done
		return nil
	default:
		return &domain.ValidationError{Field: "action", Reason: "unknown action " + string(op.Action)}
	}
}

// addItem mutates l directly; callers hold the store lock or own the copy.
func addItem(l *domain.ShoppingList, text string, quantity *int) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}
	item := domain.Item{ID: l.NextItemID, Text: text}
	if quantity != nil {
		q := *quantity
		item.Quantity = &q
	}
	l.NextItemID++
	l.Items = append(l.Items, item)
	return nil
}

// resolveItem finds the target of a remove/toggle op, by id when given,
// otherwise by case-insensitive text match.
func resolveItem(l *domain.ShoppingList, op domain.IntentOp) (int, error) {
	if op.ItemID != nil {
		if i := l.ItemIndex(*op.ItemID); i >= 0 {
			return i, nil
		}
		return -1, &domain.NotFoundError{Entity: "item", ID: itoa(*op.ItemID)}
	}
	want := strings.ToLower(strings.TrimSpace(op.Item))
	for i := range l.Items {
		if strings.ToLower(l.Items[i].Text) == want {
			return i, nil
		}
	}
	return -1, &domain.NotFoundError{Entity: "item", ID: op.Item}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
