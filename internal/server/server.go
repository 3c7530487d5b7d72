// Package server exposes the session, receipt and chat operations as a JSON
// HTTP API.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitsmart/internal/auth"
	"github.com/mmynk/splitsmart/internal/middleware"
	"github.com/mmynk/splitsmart/internal/session"
)

// Server holds the HTTP API's dependencies.
type Server struct {
	sessions *session.Manager
	tokens   *auth.TokenManager
}

// New creates a server over the given session registry and token manager.
func New(sessions *session.Manager, tokens *auth.TokenManager) *Server {
	return &Server{sessions: sessions, tokens: tokens}
}

// Handler builds the full route table with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	requireSession := middleware.RequireSession(s.tokens)

	mux.Handle("POST /api/v1/sessions",
		middleware.Metrics("create_session", http.HandlerFunc(s.handleCreateSession)))
	mux.Handle("POST /api/v1/sessions/{id}/receipt",
		middleware.Metrics("scan_receipt", requireSession(http.HandlerFunc(s.handleScanReceipt))))
	mux.Handle("GET /api/v1/sessions/{id}/receipt",
		middleware.Metrics("get_receipt", requireSession(http.HandlerFunc(s.handleGetReceipt))))
	mux.Handle("POST /api/v1/sessions/{id}/chat",
		middleware.Metrics("chat", requireSession(http.HandlerFunc(s.handleChat))))
	mux.Handle("GET /api/v1/sessions/{id}/totals",
		middleware.Metrics("get_totals", requireSession(http.HandlerFunc(s.handleGetTotals))))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.Logging(middleware.CORS(mux))
}
