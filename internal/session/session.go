// Package session owns the mutable state of one bill-splitting conversation:
// the active receipt, the assignment ledger, and the chat transcript.
//
// A session has a single logical writer. Every mutation happens under the
// session mutex, and the two AI round trips (digitization, translation) run
// outside it so a slow model call never blocks reads. A scan epoch guards
// against the one ordering hazard this creates: a translation that started
// against an old receipt is discarded instead of clobbering state written by
// a newer scan.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/ledger"
	"github.com/mmynk/splitsmart/internal/models"
)

// Canned model replies, mirroring the chat surface of the app.
const (
	ReplyNoReceipt  = "Upload a receipt first, and then tell me who had what!"
	ReplyScanFailed = "I couldn't read that clearly. Can you upload a sharper photo?"
	ReplyClarify    = "Sorry, I missed that. Try something like 'Sarah had the fries'."
	ReplyStale      = "The receipt changed while I was thinking. Tell me again who had what."
	ReplyUpdated    = "Updated the totals for you."
)

// ErrStaleCommand is returned when a translation completed after a newer scan
// replaced the receipt; the result is discarded without touching the ledger.
var ErrStaleCommand = errors.New("session: command outlived the receipt it was issued against")

// Digitizer turns a receipt photo into a structured receipt.
type Digitizer interface {
	ParseReceipt(ctx context.Context, image []byte, mimeType string) (*models.Receipt, error)
}

// Translator turns a free-text command into ordered change requests.
type Translator interface {
	TranslateCommand(ctx context.Context, text string, items []models.ReceiptItem, people []string) ([]models.ChangeRequest, error)
}

// Session is one diner group's bill-splitting conversation.
type Session struct {
	ID string

	digitizer  Digitizer
	translator Translator

	mu        sync.Mutex
	receipt   *models.Receipt
	ledger    ledger.Ledger
	messages  []models.ChatMessage
	scanEpoch uint64
}

// CommandResult is the outcome of one chat command.
type CommandResult struct {
	// Reply is the model-side transcript message for this command.
	Reply string

	// Totals is the recomputed per-person breakdown after a successful
	// ledger mutation; nil otherwise.
	Totals []models.PersonTotal
}

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	Receipt   *models.Receipt
	Assignees map[string][]string // item ID -> people, only for assigned items
	Messages  []models.ChatMessage
	Totals    []models.PersonTotal
}

// ScanReceipt digitizes the image and, on success, replaces the session's
// receipt wholesale: the ledger is cleared and the scan epoch advances so any
// in-flight command against the old receipt is discarded on arrival.
// On failure the prior receipt and ledger are left untouched.
func (s *Session) ScanReceipt(ctx context.Context, image []byte, mimeType string) (*models.Receipt, error) {
	receipt, err := s.digitizer.ParseReceipt(ctx, image, mimeType)
	if err != nil {
		slog.Warn("receipt digitization failed", "session_id", s.ID, "error", err)
		s.appendMessage(models.RoleModel, ReplyScanFailed)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipt = receipt
	s.ledger = ledger.New()
	s.scanEpoch++
	s.messages = append(s.messages, models.ChatMessage{
		Role: models.RoleModel,
		Text: fmt.Sprintf("Perfect. Found %d items. Total: %s%.2f. Who's paying for what?",
			len(receipt.Items), receipt.Currency, receipt.Total),
	})

	slog.Info("receipt scanned",
		"session_id", s.ID,
		"items", len(receipt.Items),
		"total", receipt.Total,
		"scan_epoch", s.scanEpoch,
	)
	return receipt, nil
}

// Command translates the user's text and applies the resulting change
// requests to the ledger, returning the recomputed totals.
//
// The translation runs outside the session lock. The scan epoch observed
// before the call must still hold when the result is merged; otherwise the
// result is stale and dropped (ErrStaleCommand). Translation failure mutates
// nothing but the transcript.
func (s *Session) Command(ctx context.Context, text string) (*CommandResult, error) {
	s.mu.Lock()
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleUser, Text: text})
	if s.receipt == nil {
		s.messages = append(s.messages, models.ChatMessage{Role: models.RoleModel, Text: ReplyNoReceipt})
		s.mu.Unlock()
		return &CommandResult{Reply: ReplyNoReceipt}, nil
	}
	receipt := s.receipt
	items := make([]models.ReceiptItem, len(receipt.Items))
	copy(items, receipt.Items)
	people := s.ledger.People()
	epoch := s.scanEpoch
	s.mu.Unlock()

	reqs, err := s.translator.TranslateCommand(ctx, text, items, people)
	if err != nil {
		slog.Warn("command translation failed", "session_id", s.ID, "error", err)
		s.appendMessage(models.RoleModel, ReplyClarify)
		return &CommandResult{Reply: ReplyClarify}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanEpoch != epoch {
		slog.Info("discarding stale command result",
			"session_id", s.ID,
			"command_epoch", epoch,
			"scan_epoch", s.scanEpoch,
		)
		s.messages = append(s.messages, models.ChatMessage{Role: models.RoleModel, Text: ReplyStale})
		return &CommandResult{Reply: ReplyStale}, ErrStaleCommand
	}

	s.ledger = ledger.Apply(s.ledger, reqs)
	totals := calculator.ComputeTotals(s.receipt, s.ledger)
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleModel, Text: ReplyUpdated})

	slog.Debug("ledger updated",
		"session_id", s.ID,
		"requests", len(reqs),
		"records", s.ledger.Len(),
		"people", len(totals),
	)
	return &CommandResult{Reply: ReplyUpdated, Totals: totals}, nil
}

// Totals recomputes the per-person breakdown from the current state.
// Empty when no receipt is loaded or nothing is assigned.
func (s *Session) Totals() []models.PersonTotal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receipt == nil {
		return nil
	}
	return calculator.ComputeTotals(s.receipt, s.ledger)
}

// Snapshot returns a display view of the session: the receipt, the assignees
// of each assigned item, the transcript, and the current totals.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Receipt:   s.receipt,
		Assignees: make(map[string][]string),
		Messages:  make([]models.ChatMessage, len(s.messages)),
	}
	copy(snap.Messages, s.messages)
	if s.receipt == nil {
		return snap
	}
	for _, item := range s.receipt.Items {
		if people := s.ledger.AssigneesOf(item.ID); len(people) > 0 {
			snap.Assignees[item.ID] = people
		}
	}
	snap.Totals = calculator.ComputeTotals(s.receipt, s.ledger)
	return snap
}

func (s *Session) appendMessage(role models.Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, models.ChatMessage{Role: role, Text: text})
}
