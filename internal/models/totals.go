package models

// PersonTotal represents one person's computed share of the bill.
// This is the output of the allocation engine; it is derived from the receipt
// and the ledger on every query and never stored.
type PersonTotal struct {
	// Name is the person's name.
	Name string `json:"name"`

	// Subtotal is the sum of this person's item shares.
	Subtotal float64 `json:"subtotal"`

	// TaxShare is this person's proportional share of the receipt's tax,
	// weighted by their share of the assigned subtotal.
	TaxShare float64 `json:"taxShare"`

	// TipShare is this person's proportional share of the receipt's tip.
	TipShare float64 `json:"tipShare"`

	// Total is Subtotal + TaxShare + TipShare.
	Total float64 `json:"total"`

	// Items are the distinct names of the items contributing to Subtotal.
	Items []string `json:"items"`
}
