package models

// ReceiptItem represents a single line item extracted from a receipt.
// Items are created once at digitization time and are immutable thereafter.
type ReceiptItem struct {
	// ID uniquely identifies the item within its receipt (UUID format).
	// Minted when the receipt is digitized; stable for the receipt's lifetime.
	ID string `json:"id"`

	// Name is the display name of the item (e.g., "Burger", "Fries").
	Name string `json:"name"`

	// Price is the item's price in currency-agnostic units. Never negative.
	Price float64 `json:"price"`
}

// Receipt represents a digitized restaurant receipt.
// A receipt is immutable for the session and replaced wholesale on a new scan.
//
// Subtotal, Tax and Tip are independent fields reported by digitization and
// are NOT required to reconcile with the sum of item prices — digitization is
// best-effort and the totals printed on the receipt may not add up. Nothing
// downstream may assume Subtotal == sum of item prices.
type Receipt struct {
	// Items are the line items in receipt order.
	Items []ReceiptItem `json:"items"`

	// Subtotal is the pre-tax amount as printed on the receipt.
	Subtotal float64 `json:"subtotal"`

	// Tax is the tax amount as printed on the receipt.
	Tax float64 `json:"tax"`

	// Tip is the tip/gratuity amount, if any.
	Tip float64 `json:"tip"`

	// Total is the grand total as printed on the receipt.
	Total float64 `json:"total"`

	// Currency is the display-only currency symbol (e.g., "$").
	Currency string `json:"currency"`
}
