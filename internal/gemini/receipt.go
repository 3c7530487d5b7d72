package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/splitsmart/internal/models"
)

const receiptPrompt = "Extract all items from this receipt. Include item name, quantity (if visible, otherwise 1), and unit price or total price for that line. Also extract Tax, Tip/Gratuity, Subtotal, and the Grand Total. Identify the currency symbol. Return ONLY valid JSON."

var receiptSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"items": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"name": {"type": "STRING"},
					"price": {"type": "NUMBER"}
				},
				"required": ["name", "price"]
			}
		},
		"tax": {"type": "NUMBER"},
		"tip": {"type": "NUMBER"},
		"subtotal": {"type": "NUMBER"},
		"total": {"type": "NUMBER"},
		"currency": {"type": "STRING"}
	},
	"required": ["items", "tax", "tip", "total"]
}`)

// receiptPayload is the shape the vision model is asked to produce.
type receiptPayload struct {
	Items []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"items"`
	Tax      float64 `json:"tax"`
	Tip      float64 `json:"tip"`
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// ParseReceipt digitizes a receipt photo into a structured Receipt.
// Each line item gets a freshly minted UUID, unique within the receipt and
// stable for its lifetime. Items with a blank name are dropped and negative
// prices are clamped to zero; everything else is passed through as reported,
// including totals that do not reconcile with the item prices.
func (c *Client) ParseReceipt(ctx context.Context, image []byte, mimeType string) (*models.Receipt, error) {
	if len(image) == 0 {
		return nil, errors.New("gemini: empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	text, err := c.generate(ctx, c.cfg.VisionModel, generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
				{Text: receiptPrompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   receiptSchema,
		},
	})
	if err != nil {
		return nil, err
	}

	var payload receiptPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("gemini: receipt response is not valid JSON: %w", err)
	}

	receipt := &models.Receipt{
		Subtotal: payload.Subtotal,
		Tax:      payload.Tax,
		Tip:      payload.Tip,
		Total:    payload.Total,
		Currency: payload.Currency,
	}
	if receipt.Currency == "" {
		receipt.Currency = "$"
	}
	for _, it := range payload.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		price := it.Price
		if price < 0 {
			price = 0
		}
		receipt.Items = append(receipt.Items, models.ReceiptItem{
			ID:    uuid.New().String(),
			Name:  name,
			Price: price,
		})
	}
	if len(receipt.Items) == 0 {
		return nil, errors.New("gemini: no items recognized on receipt")
	}
	return receipt, nil
}
