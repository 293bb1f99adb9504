package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/halcyonlab/notetracker/internal/event"
	"github.com/halcyonlab/notetracker/internal/session"
	"github.com/halcyonlab/notetracker/internal/store"
)

type Server struct {
	svc     *session.Service
	reducer *session.Reducer
}

func NewServer(svc *session.Service, reducer *session.Reducer) http.Handler {
	s := &Server{svc: svc, reducer: reducer}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("GET /sessions/{id}/summary", s.handleGetSummary)
	mux.HandleFunc("POST /sessions/{id}/summary/regenerate", s.handleRegenerateSummary)
	mux.HandleFunc("GET /webhook", s.handleWebhookChallenge)
	mux.HandleFunc("POST /webhook", s.handleWebhookEvent)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return withLogging(mux)
}

type createSessionRequest struct {
	MeetingURL string `json:"meeting_url"`
	GrantID    string `json:"grant_id"`
}

type progressResponse struct {
	Message    string `json:"message"`
	Percentage int    `json:"percentage"`
}

type sessionResponse struct {
	ID           string            `json:"id"`
	MeetingURL   string            `json:"meeting_url"`
	GrantID      string            `json:"grant_id"`
	Status       string            `json:"status"`
	BotID        *string           `json:"bot_id,omitempty"`
	RecordingURL *string           `json:"recording_url,omitempty"`
	Summary      *store.Summary    `json:"summary,omitempty"`
	Transcript   *store.Transcript `json:"transcript,omitempty"`
	Progress     progressResponse  `json:"progress"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		MeetingURL:   s.MeetingURL,
		GrantID:      s.GrantID,
		Status:       string(s.Status),
		BotID:        s.BotID,
		RecordingURL: s.RecordingURL,
		Summary:      s.Summary,
		Transcript:   s.Transcript,
		Progress:     progressResponse{Message: s.Progress.Message, Percentage: s.Progress.Percentage},
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.MeetingURL == "" {
		badRequest(w, "meeting_url is required")
		return
	}
	if req.GrantID == "" {
		badRequest(w, "grant_id is required")
		return
	}

	sess, err := s.svc.Create(r.Context(), session.CreateInput{
		MeetingURL: req.MeetingURL,
		GrantID:    req.GrantID,
	})
	if err != nil {
		if errors.Is(err, session.ErrInvalidMeetingURL) {
			badRequest(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session": toSessionResponse(sess)})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	sessions := make([]sessionResponse, 0, len(list))
	for _, sess := range list {
		sessions = append(sessions, toSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			notFound(w)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": toSessionResponse(sess)})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeSummaryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": sum})
}

func (s *Server) handleRegenerateSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.RegenerateSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeSummaryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": sum})
}

func writeSummaryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		notFound(w)
	case errors.Is(err, session.ErrSummaryNotReady):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "summary is not ready"})
	default:
		internalError(w, err)
	}
}

// handleWebhookChallenge answers the vendor's endpoint-verification
// handshake by echoing the challenge back as plain text.
func (s *Server) handleWebhookChallenge(w http.ResponseWriter, r *http.Request) {
	challenge := r.URL.Query().Get("challenge")
	if challenge == "" {
		badRequest(w, "challenge is required")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// handleWebhookEvent acknowledges immediately and processes the delivery in
// the background; processing failures never reach the vendor.
func (s *Server) handleWebhookEvent(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		badRequest(w, "unreadable request body")
		return
	}
	go s.processEvent(body)
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) processEvent(body []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic while processing webhook delivery", "panic", rec)
		}
	}()
	ev, err := event.Parse(body)
	if err != nil {
		slog.Error("failed to parse webhook delivery", "error", err)
		return
	}
	s.reducer.Reduce(context.Background(), ev)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
