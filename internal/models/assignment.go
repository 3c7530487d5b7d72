package models

// Action is the kind of mutation a ChangeRequest asks the ledger to perform.
type Action string

const (
	// ActionAdd assigns a person to the listed items.
	ActionAdd Action = "add"

	// ActionRemove unassigns a person from the listed items.
	ActionRemove Action = "remove"

	// ActionClear removes a person from every item in the ledger.
	// The request's item list is ignored for this action.
	ActionClear Action = "clear"
)

// Assignment is one ledger record: an item and the ordered list of people
// responsible for it.
//
// Invariants (maintained by the ledger package):
//   - People is never empty; a record whose people set empties is deleted.
//   - At most one Assignment exists per item ID at any time.
type Assignment struct {
	// ItemID references a ReceiptItem by ID.
	ItemID string `json:"itemId"`

	// People are the assignees in the order they were added. The order is
	// used for stable display, not for correctness.
	People []string `json:"assignedTo"`
}

// ChangeRequest is a structured instruction produced by the command
// translator. Requests are consumed immediately, never stored.
type ChangeRequest struct {
	// Person is the name of the person the request concerns.
	Person string `json:"person"`

	// Items are the receipt item IDs the request applies to.
	// Ignored when Action is ActionClear.
	Items []string `json:"items"`

	// Action says what to do with each (Person, item) pair.
	Action Action `json:"action"`
}
