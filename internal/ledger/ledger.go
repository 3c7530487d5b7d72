// Package ledger maintains the item-to-people assignment relation for the
// active receipt.
//
// The ledger is a value type with copy-on-write semantics: Apply returns a new
// Ledger and never mutates the one passed in, so callers holding the previous
// value keep a consistent view. Two invariants hold at every point, including
// between requests of a single batch: at most one record exists per item ID,
// and no record has an empty assignee list.
package ledger

import (
	"sort"
	"strings"

	"github.com/mmynk/splitsmart/internal/models"
)

// Ledger holds the current assignments, in the order items were first
// assigned. The zero value is an empty ledger ready for use.
type Ledger struct {
	records []models.Assignment
}

// New returns an empty ledger.
func New() Ledger {
	return Ledger{}
}

// Apply applies the change requests to cur, strictly in order, and returns the
// resulting ledger. Later requests see the effects of earlier ones within the
// same batch, so "add then clear" sequences behave as written.
//
// Requests are translator output and may be malformed; malformed input is
// absorbed, never fatal:
//   - Person names are trimmed; a request with a blank person is skipped.
//   - Unknown actions are skipped.
//   - Item IDs are not validated against the receipt. A stale or hallucinated
//     ID creates a record that simply never displays and never allocates.
func Apply(cur Ledger, reqs []models.ChangeRequest) Ledger {
	next := cur.clone()
	for _, req := range reqs {
		person := strings.TrimSpace(req.Person)
		if person == "" {
			continue
		}
		switch req.Action {
		case models.ActionAdd:
			for _, itemID := range req.Items {
				next.add(itemID, person)
			}
		case models.ActionRemove:
			for _, itemID := range req.Items {
				next.remove(itemID, person)
			}
		case models.ActionClear:
			// Global per-person operation: the item list is ignored.
			next.clear(person)
		}
	}
	return next
}

// AssigneesOf returns the people assigned to the item, in the order they were
// added. The result is a copy; empty if the item has no record.
func (l Ledger) AssigneesOf(itemID string) []string {
	for _, rec := range l.records {
		if rec.ItemID == itemID {
			out := make([]string, len(rec.People))
			copy(out, rec.People)
			return out
		}
	}
	return nil
}

// People returns every distinct person appearing in any record, sorted.
// Used to seed the "known people" context for the command translator.
func (l Ledger) People() []string {
	seen := make(map[string]bool)
	var people []string
	for _, rec := range l.records {
		for _, p := range rec.People {
			if !seen[p] {
				seen[p] = true
				people = append(people, p)
			}
		}
	}
	sort.Strings(people)
	return people
}

// Assignments returns a copy of all records, in the order items were first
// assigned.
func (l Ledger) Assignments() []models.Assignment {
	out := make([]models.Assignment, len(l.records))
	for i, rec := range l.records {
		people := make([]string, len(rec.People))
		copy(people, rec.People)
		out[i] = models.Assignment{ItemID: rec.ItemID, People: people}
	}
	return out
}

// Len returns the number of assignment records.
func (l Ledger) Len() int {
	return len(l.records)
}

func (l Ledger) clone() Ledger {
	c := Ledger{records: make([]models.Assignment, len(l.records))}
	for i, rec := range l.records {
		people := make([]string, len(rec.People))
		copy(people, rec.People)
		c.records[i] = models.Assignment{ItemID: rec.ItemID, People: people}
	}
	return c
}

func (l *Ledger) add(itemID, person string) {
	for i := range l.records {
		if l.records[i].ItemID != itemID {
			continue
		}
		for _, p := range l.records[i].People {
			if p == person {
				return // already assigned, adding twice is a no-op
			}
		}
		l.records[i].People = append(l.records[i].People, person)
		return
	}
	l.records = append(l.records, models.Assignment{ItemID: itemID, People: []string{person}})
}

func (l *Ledger) remove(itemID, person string) {
	for i := range l.records {
		if l.records[i].ItemID != itemID {
			continue
		}
		l.records[i].People = without(l.records[i].People, person)
		if len(l.records[i].People) == 0 {
			l.records = append(l.records[:i], l.records[i+1:]...)
		}
		return
	}
}

func (l *Ledger) clear(person string) {
	kept := l.records[:0]
	for i := range l.records {
		l.records[i].People = without(l.records[i].People, person)
		if len(l.records[i].People) > 0 {
			kept = append(kept, l.records[i])
		}
	}
	l.records = kept
}

func without(people []string, person string) []string {
	kept := people[:0]
	for _, p := range people {
		if p != person {
			kept = append(kept, p)
		}
	}
	return kept
}
