package session

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/halcyonlab/notetracker/internal/dispatch"
	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/halcyonlab/notetracker/internal/summary"
)

// Supported meeting-link shapes. Anything else is rejected at creation.
var meetingURLPattern = regexp.MustCompile(`(?i)^https://(meet\.google\.com/[a-z0-9-]+|([a-z0-9-]+\.)?zoom\.us/j/[0-9]+(\?[^\s]*)?|teams\.microsoft\.com/[^\s]+)$`)

const createProgressMessage = "Session registered, dispatching notetaker"

// Service is the session API surface: create, read, list, summary access.
// All mutation after creation goes through the Reducer; the service only
// touches records on the dispatch-result and resync paths.
type Service struct {
	store     store.Store
	dispatch  dispatch.Client
	summaries summary.Generator
}

func NewService(st store.Store, dc dispatch.Client, gen summary.Generator) *Service {
	return &Service{
		store:     st,
		dispatch:  dc,
		summaries: gen,
	}
}

type CreateInput struct {
	MeetingURL string
	GrantID    string
}

// Create registers a session and dispatches the notetaker in the
// background. Creation succeeds once validation passes; a dispatch failure
// surfaces as a failed session, not as a create error.
func (s *Service) Create(ctx context.Context, input CreateInput) (*store.Session, error) {
	meetingURL := strings.TrimSpace(input.MeetingURL)
	if !meetingURLPattern.MatchString(meetingURL) {
		return nil, ErrInvalidMeetingURL
	}

	now := time.Now()
	sess := &store.Session{
		ID:         newSessionID(now),
		MeetingURL: meetingURL,
		GrantID:    input.GrantID,
		Status:     store.SessionStatusPending,
		Progress:   store.Progress{Message: createProgressMessage, Percentage: 0},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	go s.deploy(sess.ID, meetingURL, input.GrantID)
	return sess, nil
}

func (s *Service) deploy(sessionID, meetingURL, grantID string) {
	ctx := context.Background()
	res, err := s.dispatch.Deploy(ctx, dispatch.DeployInput{MeetingURL: meetingURL, GrantID: grantID})
	if err != nil {
		slog.Error("notetaker dispatch failed", "error", err, "session_id", sessionID)
		failed := store.SessionStatusFailed
		s.update(ctx, sessionID, store.UpdateSessionInput{
			Status:   &failed,
			Progress: &store.Progress{Message: fmt.Sprintf("Dispatch failed: %v", err), Percentage: 0},
		})
		return
	}
	slog.Info("notetaker dispatched", "session_id", sessionID, "bot_id", res.BotID)
	tr := botCreatedTransition
	s.update(ctx, sessionID, store.UpdateSessionInput{
		Status:   &tr.status,
		BotID:    &res.BotID,
		Progress: &store.Progress{Message: tr.message, Percentage: tr.percentage},
	})
}

// Get returns the session, opportunistically resyncing non-terminal
// sessions from the vendor. The event stream stays the authoritative
// channel; resync failures are logged and swallowed.
func (s *Service) Get(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Status.IsTerminal() || sess.BotID == nil {
		return sess, nil
	}
	return s.resync(ctx, sess), nil
}

func (s *Service) resync(ctx context.Context, sess *store.Session) *store.Session {
	state, err := s.dispatch.BotStatus(ctx, sess.GrantID, *sess.BotID)
	if err != nil {
		slog.Warn("status resync failed", "error", err, "session_id", sess.ID, "bot_id", *sess.BotID)
		return sess
	}
	tr, ok := meetingStateTransitions[state]
	if !ok {
		return sess
	}
	if tr.status == sess.Status && tr.percentage == sess.Progress.Percentage {
		return sess
	}
	updated, err := s.store.Update(ctx, sess.ID, store.UpdateSessionInput{
		Status:   &tr.status,
		Progress: &store.Progress{Message: tr.message, Percentage: tr.percentage},
	})
	if err != nil {
		slog.Warn("failed to apply resynced status", "error", err, "session_id", sess.ID)
		return sess
	}
	slog.Info("session status resynced", "session_id", sess.ID, "status", tr.status)
	return updated
}

func (s *Service) List(ctx context.Context) ([]*store.Session, error) {
	return s.store.List(ctx)
}

func (s *Service) Summary(ctx context.Context, id string) (*store.Summary, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Summary == nil {
		return nil, ErrSummaryNotReady
	}
	return sess.Summary, nil
}

// RegenerateSummary reruns the generator over the stored transcript. This
// is the administrative path allowed to touch a terminal session.
func (s *Service) RegenerateSummary(ctx context.Context, id string) (*store.Summary, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Transcript == nil {
		return nil, ErrSummaryNotReady
	}
	sum := s.summaries.Generate(ctx, sess.Transcript)
	if _, err := s.store.Update(ctx, id, store.UpdateSessionInput{Summary: sum}); err != nil {
		return nil, fmt.Errorf("persisting regenerated summary: %w", err)
	}
	return sum, nil
}

func (s *Service) update(ctx context.Context, sessionID string, input store.UpdateSessionInput) {
	if _, err := s.store.Update(ctx, sessionID, input); err != nil {
		slog.Error("failed to update session", "error", err, "session_id", sessionID)
	}
}

// newSessionID is time-prefixed for natural ordering plus a random suffix
// for uniqueness; no external uniqueness oracle is needed.
func newSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("sess_%s_%s", now.UTC().Format("20060102150405"), suffix)
}
