package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/config"
	"github.com/mmynk/splitsmart/internal/gemini"
	"github.com/mmynk/splitsmart/internal/server"
	"github.com/mmynk/splitsmart/internal/session"
	"github.com/mmynk/splitsmart/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	client := gemini.New(gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		VisionModel: cfg.VisionModel,
		ChatModel:   cfg.ChatModel,
		Timeout:     cfg.GeminiTimeout,
	})

	sessions := session.NewManager(client, client)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenDuration)
	srv := server.New(sessions, tokens)

	// Wrap with h2c for HTTP/2 without TLS.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
