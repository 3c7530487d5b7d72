package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/splitsmart/internal/middleware"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/session"
)

// maxImageBytes bounds decoded upload size; maxScanBodyBytes caps the raw
// request body before decoding, allowing for base64 expansion plus the JSON
// envelope.
const (
	maxImageBytes    = 10 << 20
	maxScanBodyBytes = maxImageBytes * 2
)

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

type scanRequest struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Reply  string               `json:"reply"`
	Totals []models.PersonTotal `json:"totals,omitempty"`
}

// receiptView is the display shape: the receipt plus the assignment badges
// and the live summary the UI renders next to it.
type receiptView struct {
	Receipt   *models.Receipt      `json:"receipt"`
	Assignees map[string][]string  `json:"assignees"`
	Totals    []models.PersonTotal `json:"totals"`
	Messages  []models.ChatMessage `json:"messages"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()

	token, err := s.tokens.Generate(sess.ID)
	if err != nil {
		slog.Error("failed to issue session token", "session_id", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	slog.Info("session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: sess.ID, Token: token})
}

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScanBodyBytes)
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil || len(image) == 0 {
		writeError(w, http.StatusBadRequest, "image_base64 must be non-empty base64")
		return
	}
	if len(image) > maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	if _, err := sess.ScanReceipt(r.Context(), image, req.MimeType); err != nil {
		// Digitization failure: prior receipt (or none) stays in place.
		writeError(w, http.StatusBadGateway, session.ReplyScanFailed)
		return
	}

	writeJSON(w, http.StatusOK, snapshotView(sess))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	res, err := sess.Command(r.Context(), req.Text)
	switch {
	case errors.Is(err, session.ErrStaleCommand):
		writeJSON(w, http.StatusConflict, chatResponse{Reply: res.Reply})
	case err != nil:
		// Translation failure: no ledger mutation happened.
		writeJSON(w, http.StatusBadGateway, chatResponse{Reply: res.Reply})
	default:
		writeJSON(w, http.StatusOK, chatResponse{Reply: res.Reply, Totals: res.Totals})
	}
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshotView(sess))
}

func (s *Server) handleGetTotals(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromRequest(w, r)
	if !ok {
		return
	}
	totals := sess.Totals()
	if totals == nil {
		totals = []models.PersonTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

// sessionFromRequest resolves the session named in the path, requiring the
// caller's token to be bound to that same session.
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	if middleware.GetSessionID(r.Context()) != id {
		writeError(w, http.StatusForbidden, "token does not match session")
		return nil, false
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func snapshotView(sess *session.Session) receiptView {
	snap := sess.Snapshot()
	view := receiptView{
		Receipt:   snap.Receipt,
		Assignees: snap.Assignees,
		Totals:    snap.Totals,
		Messages:  snap.Messages,
	}
	if view.Totals == nil {
		view.Totals = []models.PersonTotal{}
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
