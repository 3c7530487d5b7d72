// Package calculator implements the cost-allocation engine.
package calculator

import (
	"github.com/mmynk/splitsmart/internal/ledger"
	"github.com/mmynk/splitsmart/internal/models"
)

// ComputeTotals computes each person's share of the bill from the receipt and
// the current ledger. It is a pure function: no side effects, no I/O,
// deterministic for given inputs modulo floating-point summation order.
//
// Each assigned item contributes price/N to each of its N assignees. Tax and
// tip are then distributed in proportion to each person's share of the
// *assigned* subtotal, not the receipt's own subtotal field — a partially
// assigned receipt distributes 100% of tax and tip among the participating
// people, and unassigned items charge nobody.
//
// Records referencing items absent from the receipt are skipped: they are
// stale translator output, not errors. If nothing is assigned (or only stale
// records exist) the result is empty — there is no base to allocate tax and
// tip against, and no "unassigned" bucket is synthesized.
func ComputeTotals(receipt *models.Receipt, led ledger.Ledger) []models.PersonTotal {
	type accum struct {
		subtotal float64
		items    []string
	}

	itemsByID := make(map[string]models.ReceiptItem, len(receipt.Items))
	for _, item := range receipt.Items {
		itemsByID[item.ID] = item
	}

	byPerson := make(map[string]*accum)
	var order []string // first-share order, keeps output stable

	for _, rec := range led.Assignments() {
		item, ok := itemsByID[rec.ItemID]
		if !ok || len(rec.People) == 0 {
			continue
		}

		share := item.Price / float64(len(rec.People))
		for _, person := range rec.People {
			acc := byPerson[person]
			if acc == nil {
				acc = &accum{}
				byPerson[person] = acc
				order = append(order, person)
			}
			acc.subtotal += share
			// Dedup by item name: an item split twice still lists once.
			if !containsName(acc.items, item.Name) {
				acc.items = append(acc.items, item.Name)
			}
		}
	}

	var assigned float64
	for _, acc := range byPerson {
		assigned += acc.subtotal
	}
	if assigned == 0 {
		return nil
	}

	totals := make([]models.PersonTotal, 0, len(order))
	for _, name := range order {
		acc := byPerson[name]
		proportion := acc.subtotal / assigned
		taxShare := receipt.Tax * proportion
		tipShare := receipt.Tip * proportion
		totals = append(totals, models.PersonTotal{
			Name:     name,
			Subtotal: acc.subtotal,
			TaxShare: taxShare,
			TipShare: tipShare,
			Total:    acc.subtotal + taxShare + tipShare,
			Items:    acc.items,
		})
	}
	return totals
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
