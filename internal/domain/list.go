package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single entry on a shopping list. Ids are monotonic per list and
// never reused, so a deleted item's id cannot collide with a later one.
type Item struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Quantity *int   `json:"quantity,omitempty"`
}

// ShoppingList is a named, ordered collection of items. Insertion order is
// meaningful for display.
type ShoppingList struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Items      []Item    `json:"items"`
	NextItemID int64     `json:"next_item_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Clone returns a deep copy of the list.
func (l *ShoppingList) Clone() *ShoppingList {
	c := *l
	c.Items = make([]Item, len(l.Items))
	for i, it := range l.Items {
		c.Items[i] = it
		if it.Quantity != nil {
			q := *it.Quantity
			c.Items[i].Quantity = &q
		}
	}
	return &c
}

// ItemIndex returns the position of the item with the given id, or -1.
func (l *ShoppingList) ItemIndex(itemID int64) int {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
