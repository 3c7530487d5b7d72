package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmynk/splitsmart/internal/models"
)

var commandSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"assignments": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"person": {"type": "STRING"},
					"items": {"type": "ARRAY", "items": {"type": "STRING"}},
					"action": {"type": "STRING", "enum": ["add", "remove", "clear"]}
				},
				"required": ["person", "items", "action"]
			}
		}
	}
}`)

// translatePayload is the shape the chat model is asked to produce.
type translatePayload struct {
	Assignments []struct {
		Person string   `json:"person"`
		Items  []string `json:"items"`
		Action string   `json:"action"`
	} `json:"assignments"`
}

func buildCommandPrompt(text string, items []models.ReceiptItem, people []string) string {
	var b strings.Builder
	b.WriteString("Context: A user is splitting a restaurant bill.\n")
	b.WriteString("Current people involved: ")
	if len(people) == 0 {
		b.WriteString("None yet")
	} else {
		b.WriteString(strings.Join(people, ", "))
	}
	b.WriteString(".\nItems on receipt:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %q (ID: %s)\n", item.Name, item.ID)
	}
	fmt.Fprintf(&b, "\nUser command: %q\n", text)
	b.WriteString(`
Goal: Translate the user's natural language into structured assignments.
Actions:
- 'add': Assign item(s) to person(s).
- 'remove': Unassign item(s) from person(s).
- 'clear': Remove all assignments for a specific person.

Special cases:
- "Everyone" or "Shared" means assign to all currently known people.
- If a new name is mentioned, add it to the list.

Return ONLY a JSON object: { assignments: [{ person: string, items: [string], action: 'add'|'remove'|'clear' }] }
Use the IDs provided for items.
`)
	return b.String()
}

// TranslateCommand maps a free-text instruction to an ordered sequence of
// change requests against the given receipt items and known people.
//
// The output is best-effort translator data: it may name stale item IDs or
// people that do not exist. Callers must apply it through the ledger, which
// absorbs malformed requests rather than failing.
func (c *Client) TranslateCommand(ctx context.Context, text string, items []models.ReceiptItem, people []string) ([]models.ChangeRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("gemini: empty command")
	}

	out, err := c.generate(ctx, c.cfg.ChatModel, generateRequest{
		Contents: []content{{
			Parts: []part{{Text: buildCommandPrompt(text, items, people)}},
		}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   commandSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var payload translatePayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		return nil, fmt.Errorf("gemini: command response is not valid JSON: %w", err)
	}

	reqs := make([]models.ChangeRequest, 0, len(payload.Assignments))
	for _, a := range payload.Assignments {
		reqs = append(reqs, models.ChangeRequest{
			Person: a.Person,
			Items:  a.Items,
			Action: models.Action(a.Action),
		})
	}
	return reqs, nil
}
