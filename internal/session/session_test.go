package session

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/mmynk/splitsmart/internal/models"
)

type fakeDigitizer struct {
	receipt *models.Receipt
	err     error
}

func (f *fakeDigitizer) ParseReceipt(_ context.Context, _ []byte, _ string) (*models.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Fresh copy per scan, like a real digitization.
	r := *f.receipt
	return &r, nil
}

type fakeTranslator struct {
	reqs        []models.ChangeRequest
	err         error
	onTranslate func()
}

func (f *fakeTranslator) TranslateCommand(_ context.Context, _ string, _ []models.ReceiptItem, _ []string) ([]models.ChangeRequest, error) {
	if f.onTranslate != nil {
		f.onTranslate()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.reqs, nil
}

func testReceipt() *models.Receipt {
	return &models.Receipt{
		Items: []models.ReceiptItem{
			{ID: "item-1", Name: "Burger", Price: 10.0},
			{ID: "item-2", Name: "Fries", Price: 4.0},
		},
		Subtotal: 14.0,
		Tax:      1.0,
		Tip:      2.0,
		Total:    17.0,
		Currency: "$",
	}
}

func addAlice(items ...string) []models.ChangeRequest {
	return []models.ChangeRequest{{Person: "Alice", Items: items, Action: models.ActionAdd}}
}

func TestCommandBeforeScan(t *testing.T) {
	m := NewManager(&fakeDigitizer{receipt: testReceipt()}, &fakeTranslator{})
	s := m.Create()

	res, err := s.Command(context.Background(), "Alice had the burger")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if res.Reply != ReplyNoReceipt {
		t.Errorf("reply = %q, want %q", res.Reply, ReplyNoReceipt)
	}
	if res.Totals != nil {
		t.Errorf("totals = %v, want nil", res.Totals)
	}
}

func TestScanAndCommand(t *testing.T) {
	tr := &fakeTranslator{reqs: addAlice("item-1")}
	m := NewManager(&fakeDigitizer{receipt: testReceipt()}, tr)
	s := m.Create()
	ctx := context.Background()

	receipt, err := s.ScanReceipt(ctx, []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(receipt.Items))
	}

	res, err := s.Command(ctx, "Alice had the burger")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if res.Reply != ReplyUpdated {
		t.Errorf("reply = %q, want %q", res.Reply, ReplyUpdated)
	}
	if len(res.Totals) != 1 || res.Totals[0].Name != "Alice" {
		t.Fatalf("totals = %v, want one entry for Alice", res.Totals)
	}
	// Burger only assigned: Alice carries all tax and tip.
	if math.Abs(res.Totals[0].Total-13.0) > 0.001 {
		t.Errorf("Alice total = %v, want 13.0", res.Totals[0].Total)
	}
}

func TestScanReplacesReceiptAndClearsLedger(t *testing.T) {
	tr := &fakeTranslator{reqs: addAlice("item-1")}
	m := NewManager(&fakeDigitizer{receipt: testReceipt()}, tr)
	s := m.Create()
	ctx := context.Background()

	if _, err := s.ScanReceipt(ctx, []byte("img"), ""); err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if _, err := s.Command(ctx, "Alice had the burger"); err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if len(s.Totals()) == 0 {
		t.Fatal("expected totals after command")
	}

	// New scan: ledger must reset.
	if _, err := s.ScanReceipt(ctx, []byte("img2"), ""); err != nil {
		t.Fatalf("second ScanReceipt failed: %v", err)
	}
	if got := s.Totals(); len(got) != 0 {
		t.Errorf("totals after rescan = %v, want empty", got)
	}
}

func TestScanFailureKeepsPriorState(t *testing.T) {
	dig := &fakeDigitizer{receipt: testReceipt()}
	tr := &fakeTranslator{reqs: addAlice("item-1")}
	m := NewManager(dig, tr)
	s := m.Create()
	ctx := context.Background()

	if _, err := s.ScanReceipt(ctx, []byte("img"), ""); err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if _, err := s.Command(ctx, "Alice had the burger"); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	dig.err = errors.New("blurry photo")
	if _, err := s.ScanReceipt(ctx, []byte("bad"), ""); err == nil {
		t.Fatal("expected scan error")
	}

	// Prior receipt and ledger survive the failed scan.
	totals := s.Totals()
	if len(totals) != 1 || totals[0].Name != "Alice" {
		t.Errorf("totals after failed scan = %v, want Alice's preserved", totals)
	}
}

func TestTranslationFailureMutatesNothing(t *testing.T) {
	tr := &fakeTranslator{err: errors.New("garbled")}
	m := NewManager(&fakeDigitizer{receipt: testReceipt()}, tr)
	s := m.Create()
	ctx := context.Background()

	if _, err := s.ScanReceipt(ctx, []byte("img"), ""); err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}

	res, err := s.Command(ctx, "mumble")
	if err == nil {
		t.Fatal("expected translation error")
	}
	if res.Reply != ReplyClarify {
		t.Errorf("reply = %q, want %q", res.Reply, ReplyClarify)
	}
	if got := s.Totals(); len(got) != 0 {
		t.Errorf("totals after failed translation = %v, want empty", got)
	}
}

func TestStaleCommandIsDiscarded(t *testing.T) {
	dig := &fakeDigitizer{receipt: testReceipt()}
	tr := &fakeTranslator{reqs: addAlice("item-1")}
	m := NewManager(dig, tr)
	s := m.Create()
	ctx := context.Background()

	if _, err := s.ScanReceipt(ctx, []byte("img"), ""); err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}

	// A new scan lands while the translation is in flight.
	tr.onTranslate = func() {
		tr.onTranslate = nil
		if _, err := s.ScanReceipt(ctx, []byte("img2"), ""); err != nil {
			t.Errorf("concurrent ScanReceipt failed: %v", err)
		}
	}

	res, err := s.Command(ctx, "Alice had the burger")
	if !errors.Is(err, ErrStaleCommand) {
		t.Fatalf("err = %v, want ErrStaleCommand", err)
	}
	if res.Reply != ReplyStale {
		t.Errorf("reply = %q, want %q", res.Reply, ReplyStale)
	}
	// The discarded result must not have touched the fresh ledger.
	if got := s.Totals(); len(got) != 0 {
		t.Errorf("totals = %v, want empty after discarded command", got)
	}
}

func TestSnapshot(t *testing.T) {
	tr := &fakeTranslator{reqs: addAlice("item-1")}
	m := NewManager(&fakeDigitizer{receipt: testReceipt()}, tr)
	s := m.Create()
	ctx := context.Background()

	if _, err := s.ScanReceipt(ctx, []byte("img"), ""); err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}
	if _, err := s.Command(ctx, "Alice had the burger"); err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Receipt == nil {
		t.Fatal("expected receipt in snapshot")
	}
	if got := snap.Assignees["item-1"]; len(got) != 1 || got[0] != "Alice" {
		t.Errorf("assignees of item-1 = %v, want [Alice]", got)
	}
	if _, ok := snap.Assignees["item-2"]; ok {
		t.Error("unassigned item-2 should have no assignees entry")
	}
	if len(snap.Messages) == 0 {
		t.Error("expected transcript messages in snapshot")
	}
	if len(snap.Totals) != 1 {
		t.Errorf("totals = %v, want one entry", snap.Totals)
	}
}

func TestManager(t *testing.T) {
	m := NewManager(&fakeDigitizer{receipt: testReceipt()}, &fakeTranslator{})

	s := m.Create()
	if s.ID == "" {
		t.Fatal("expected non-empty session ID")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
