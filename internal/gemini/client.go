// Package gemini implements the two AI boundaries against the Google
// Generative Language API: receipt digitization (vision) and natural-language
// command translation (text).
//
// Both calls ask for JSON output constrained by a response schema. The API is
// best-effort: responses may be incomplete or reference stale identifiers, so
// callers must treat the output defensively (see the ledger package).
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// Vision tasks (receipt parsing): flash is fast and good enough.
	defaultVisionModel = "gemini-2.5-flash-image"
	// Command translation needs more reasoning.
	defaultChatModel = "gemini-3-pro-preview"

	defaultTimeout = 60 * time.Second
)

var (
	// ErrEmptyResponse is returned when the API answers without any usable
	// candidate text.
	ErrEmptyResponse = errors.New("gemini: empty response")
)

// Config holds the client configuration. Only APIKey is required.
type Config struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ChatModel   string
	Timeout     time.Duration
}

// Client is a Generative Language API client.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a client, filling defaults for any unset Config field.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = defaultVisionModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Wire types for the generateContent endpoint.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generate POSTs one generateContent request and returns the concatenated
// candidate text.
func (c *Client) generate(ctx context.Context, model string, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini: %s (%s)", apiErr.Error.Message, apiErr.Error.Status)
		}
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.Unmarshal(raw, &gen); err != nil {
		return "", fmt.Errorf("gemini: failed to decode response: %w", err)
	}
	if len(gen.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var text bytes.Buffer
	for _, p := range gen.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
