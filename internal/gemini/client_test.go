package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/splitsmart/internal/models"
)

// candidateResponse wraps payload as the single candidate's text part.
func candidateResponse(t *testing.T, payload any) []byte {
	t.Helper()

	text, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": string(text)}}}},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	return body
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	ts := httptest.NewServer(handler)
	c := New(Config{APIKey: "test-key", BaseURL: ts.URL, Timeout: 2 * time.Second})
	return c, ts.Close
}

func TestParseReceipt(t *testing.T) {
	var gotPath string
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(candidateResponse(t, map[string]any{
			"items": []map[string]any{
				{"name": "Burger", "price": 10.0},
				{"name": "  ", "price": 3.0},     // blank name: dropped
				{"name": "Fries", "price": -4.0}, // negative price: clamped
			},
			"tax":      1.0,
			"tip":      2.0,
			"subtotal": 14.0,
			"total":    17.0,
		}))
	})
	defer cleanup()

	receipt, err := c.ParseReceipt(context.Background(), []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("ParseReceipt failed: %v", err)
	}

	if len(receipt.Items) != 2 {
		t.Fatalf("items = %d, want 2 (blank name dropped)", len(receipt.Items))
	}
	if receipt.Items[0].Name != "Burger" || receipt.Items[1].Name != "Fries" {
		t.Errorf("item names = %v, want [Burger Fries]", receipt.Items)
	}
	if receipt.Items[1].Price != 0 {
		t.Errorf("negative price = %v, want clamped to 0", receipt.Items[1].Price)
	}
	if receipt.Items[0].ID == "" || receipt.Items[0].ID == receipt.Items[1].ID {
		t.Errorf("item IDs not unique: %q vs %q", receipt.Items[0].ID, receipt.Items[1].ID)
	}
	if receipt.Currency != "$" {
		t.Errorf("currency = %q, want default $", receipt.Currency)
	}
	if !strings.Contains(gotPath, ":generateContent") {
		t.Errorf("path = %q, want generateContent call", gotPath)
	}
}

func TestParseReceiptNoItems(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateResponse(t, map[string]any{"items": []any{}, "tax": 0, "tip": 0, "total": 0}))
	})
	defer cleanup()

	if _, err := c.ParseReceipt(context.Background(), []byte("img"), ""); err == nil {
		t.Fatal("expected error for receipt with no items")
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key invalid","status":"PERMISSION_DENIED"}}`))
	})
	defer cleanup()

	_, err := c.ParseReceipt(context.Background(), []byte("img"), "")
	if err == nil || !strings.Contains(err.Error(), "API key invalid") {
		t.Errorf("err = %v, want API error message surfaced", err)
	}
}

func TestTranslateCommand(t *testing.T) {
	var gotPrompt string
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Contents) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Write(candidateResponse(t, map[string]any{
			"assignments": []map[string]any{
				{"person": "Alice", "items": []string{"item-1"}, "action": "add"},
				{"person": "Bob", "items": []string{}, "action": "clear"},
			},
		}))
	})
	defer cleanup()

	items := []models.ReceiptItem{{ID: "item-1", Name: "Burger", Price: 10}}
	reqs, err := c.TranslateCommand(context.Background(), "Alice had the burger", items, []string{"Bob"})
	if err != nil {
		t.Fatalf("TranslateCommand failed: %v", err)
	}

	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	if reqs[0].Person != "Alice" || reqs[0].Action != models.ActionAdd {
		t.Errorf("first request = %+v, want Alice/add", reqs[0])
	}
	if reqs[1].Action != models.ActionClear {
		t.Errorf("second request action = %q, want clear", reqs[1].Action)
	}

	// The prompt carries the item IDs and known people.
	if !strings.Contains(gotPrompt, "item-1") {
		t.Error("prompt missing item ID")
	}
	if !strings.Contains(gotPrompt, "Bob") {
		t.Error("prompt missing known people")
	}
}

func TestTranslateCommandEmptyText(t *testing.T) {
	c := New(Config{APIKey: "test-key"})
	if _, err := c.TranslateCommand(context.Background(), "   ", nil, nil); err == nil {
		t.Fatal("expected error for empty command")
	}
}
