// Package config loads server configuration from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// GeminiAPIKey authenticates calls to the Generative Language API.
	// Required.
	GeminiAPIKey string

	// VisionModel and ChatModel override the default Gemini models when set.
	VisionModel string
	ChatModel   string

	// GeminiTimeout bounds each AI round trip.
	GeminiTimeout time.Duration

	// JWTSecret signs session tokens. Generated per process when unset,
	// which invalidates outstanding tokens on restart — acceptable since
	// sessions do not survive a restart anyway.
	JWTSecret string

	// TokenDuration is how long session tokens stay valid.
	TokenDuration time.Duration
}

// Load reads configuration from the environment. GEMINI_API_KEY is required;
// everything else has a sensible default.
func Load() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	cfg := &Config{
		Port:          8080,
		GeminiAPIKey:  apiKey,
		VisionModel:   os.Getenv("GEMINI_VISION_MODEL"),
		ChatModel:     os.Getenv("GEMINI_CHAT_MODEL"),
		GeminiTimeout: 60 * time.Second,
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenDuration: 24 * time.Hour,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GEMINI_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.GeminiTimeout = time.Duration(secs) * time.Second
	}

	if cfg.JWTSecret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(secret)
		slog.Warn("JWT_SECRET not set, generated a per-process secret")
	}

	return cfg, nil
}
