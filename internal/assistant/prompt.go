package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/listkeeper/listkeeper/internal/domain"
)

// SystemPrompt instructs the model to answer with the JSON envelope the
// providers parse. Everything outside this shape is treated as malformed.
const SystemPrompt = `You are a shopping assistant that maintains the user's shopping list.
Respond with ONLY a JSON object, no markdown formatting, in this shape:
{"reply": "<short friendly answer>", "operations": [{"action": "add|remove|toggle", "item": "<item text>", "quantity": <number, optional>, "item_id": <id, optional>}], "create_list": "<name, only when the user asks for a new list>"}
Use "operations" only when the user asks to change the list. Reference existing items by item_id when possible. Omit "operations" and "create_list" when the user is just chatting.`

// BuildPrompt renders the user turn: the current list contents followed by
// the user's message.
func BuildPrompt(req Request) string {
	var b strings.Builder

	if req.ListName == "" {
		b.WriteString("The user has no shopping list selected.\n")
	} else {
		fmt.Fprintf(&b, "Current shopping list %q:\n", req.ListName)
		if len(req.Items) == 0 {
			b.WriteString("(empty)\n")
		}
		for _, it := range req.Items {
			state := "pending"
			if it.Done {
				state = "done"
			}
			if it.Quantity != nil {
				fmt.Fprintf(&b, "- [id %d] %s x%d (%s)\n", it.ID, it.Text, *it.Quantity, state)
			} else {
				fmt.Fprintf(&b, "- [id %d] %s (%s)\n", it.ID, it.Text, state)
			}
		}
	}

	b.WriteString("\nUser message: ")
	b.WriteString(req.UserText)
	return b.String()
}

type replyEnvelope struct {
	Reply      string            `json:"reply"`
	Operations []domain.IntentOp `json:"operations"`
	CreateList string            `json:"create_list"`
}

// ParseEnvelope extracts the reply text and optional intent from raw model
// output. Code fences are stripped first since models add them despite
// instructions. Anything that does not decode to the envelope is an error.
func ParseEnvelope(raw string) (string, *domain.Intent, error) {
	cleaned := stripFences(raw)

	var env replyEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return "", nil, fmt.Errorf("unparseable assistant payload: %w", err)
	}
	if env.Reply == "" {
		return "", nil, fmt.Errorf("assistant payload missing reply")
	}

	intent := &domain.Intent{CreateList: strings.TrimSpace(env.CreateList), Ops: env.Operations}
	if intent.Empty() {
		return env.Reply, nil, nil
	}
	return env.Reply, intent, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
