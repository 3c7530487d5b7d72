// Package models defines the core domain models for SplitSmart.
//
// # Models
//
//   - Receipt / ReceiptItem: a digitized receipt and its line items
//   - Assignment: one ledger record mapping an item to the people splitting it
//   - ChangeRequest: a structured instruction produced by the command translator
//   - PersonTotal: one person's computed share of the bill
//   - ChatMessage: one entry in a session's chat transcript
//
// People are identified by name strings (no user accounts). Names are trimmed
// of surrounding whitespace before they enter the ledger; no other
// normalization (casing, aliasing) is applied, so "alice" and "Alice" are two
// different people.
//
// # Design Principles
//
// 1. **Receipts are immutable**: a receipt is created once at digitization time
// and replaced wholesale by a new scan, never edited in place.
//
// 2. **Defensive boundaries**: data coming back from the AI boundaries may be
// incomplete or reference stale identifiers; consumers validate rather than
// trust (see the ledger and calculator packages).
//
// 3. **Avoid circular references**: records reference items by ID string, not
// by pointer.
package models
