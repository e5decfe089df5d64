package domain

// IntentAction is a single kind of list mutation the assistant can request.
type IntentAction string

const (
	IntentAdd    IntentAction = "add"
	IntentRemove IntentAction = "remove"
	IntentToggle IntentAction = "toggle"
)

// IntentOp is one assistant-requested item operation. Remove and toggle may
// target an item either by id or by (case-insensitive) text.
type IntentOp struct {
	Action   IntentAction `json:"action"`
	Item     string       `json:"item,omitempty"`
	Quantity *int         `json:"quantity,omitempty"`
	ItemID   *int64       `json:"item_id,omitempty"`
}

// Intent is the structured instruction set extracted from a chat reply. The
// whole batch of operations applies atomically or not at all.
type Intent struct {
	CreateList string     `json:"create_list,omitempty"`
	Ops        []IntentOp `json:"operations,omitempty"`
}

// Empty reports whether the intent carries no work.
func (i *Intent) Empty() bool {
	return i == nil || (i.CreateList == "" && len(i.Ops) == 0)
}
