package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/halcyonlab/notetracker/internal/dispatch"
	"github.com/halcyonlab/notetracker/internal/event"
	"github.com/halcyonlab/notetracker/internal/recording"
	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/halcyonlab/notetracker/internal/summary"
)

// Reducer folds vendor lifecycle events into session records. One event,
// one resolve read, at most one transcript fetch and summary generation,
// one record update. Events for unknown sessions are dropped, never
// errored; duplicate deliveries are last-write-wins at the store.
type Reducer struct {
	store      store.Store
	dispatch   dispatch.Client
	summaries  summary.Generator
	recordings recording.Uploader
}

func NewReducer(st store.Store, dc dispatch.Client, gen summary.Generator, rec recording.Uploader) *Reducer {
	return &Reducer{
		store:      st,
		dispatch:   dc,
		summaries:  gen,
		recordings: rec,
	}
}

func (r *Reducer) Reduce(ctx context.Context, ev event.Event) {
	sess, err := r.resolve(ctx, ev)
	if err != nil {
		slog.Error("failed to resolve session for event", "error", err, "event_type", ev.RawType, "bot_id", ev.BotID)
		return
	}
	if sess == nil {
		slog.Info("dropping unresolvable lifecycle event", "event_type", ev.RawType, "bot_id", ev.BotID, "grant_id", ev.GrantID)
		return
	}
	if sess.Status.IsTerminal() {
		slog.Info("ignoring event for terminal session", "session_id", sess.ID, "status", sess.Status, "event_type", ev.RawType)
		return
	}

	switch ev.Kind {
	case event.KindBotCreated:
		r.applyBotCreated(ctx, sess, ev)
	case event.KindMeetingState:
		r.applyMeetingState(ctx, sess, ev)
	case event.KindMedia:
		r.applyMedia(ctx, sess, ev)
	case event.KindBotDeleted:
		r.applyTransition(ctx, sess.ID, botDeletedTransition)
	case event.KindLegacyJoined, event.KindLegacyRecording, event.KindLegacyFailed:
		r.applyTransition(ctx, sess.ID, legacyTransitions[ev.Kind])
	case event.KindLegacyCompleted:
		r.runCompletion(ctx, sess, ev)
	default:
		r.applyUnknown(ctx, sess, ev)
	}
}

// resolve finds the session an event belongs to: by bot id first, then by
// grant id for creation-type events (the bot id is not assigned yet when
// the creation notification arrives).
func (r *Reducer) resolve(ctx context.Context, ev event.Event) (*store.Session, error) {
	if ev.BotID != "" {
		sess, err := r.store.GetByBotID(ctx, ev.BotID)
		if err != nil || sess != nil {
			return sess, err
		}
	}
	if ev.GrantID != "" && ev.Kind.IsCreation() {
		return r.store.LatestUnassignedByGrant(ctx, ev.GrantID)
	}
	return nil, nil
}

func (r *Reducer) applyBotCreated(ctx context.Context, sess *store.Session, ev event.Event) {
	input := store.UpdateSessionInput{}
	if ev.BotID != "" {
		switch {
		case sess.BotID == nil:
			botID := ev.BotID
			input.BotID = &botID
		case *sess.BotID != ev.BotID:
			// The stored bot id stays the join key.
			slog.Warn("ignoring conflicting bot id from creation event",
				"session_id", sess.ID, "bot_id", *sess.BotID, "event_bot_id", ev.BotID)
		}
	}
	// Joining applies only if the session has not moved past it; a late
	// creation event must not rewind an active recording.
	if sess.Status == store.SessionStatusPending || sess.Status == store.SessionStatusJoining {
		tr := botCreatedTransition
		input.Status = &tr.status
		input.Progress = &store.Progress{Message: tr.message, Percentage: tr.percentage}
	}
	r.update(ctx, sess.ID, input)
}

func (r *Reducer) applyMeetingState(ctx context.Context, sess *store.Session, ev event.Event) {
	tr, ok := meetingStateTransitions[ev.MeetingState]
	if !ok {
		slog.Info("unmapped meeting state", "session_id", sess.ID, "meeting_state", ev.MeetingState)
		r.update(ctx, sess.ID, store.UpdateSessionInput{
			Progress: &store.Progress{
				Message:    fmt.Sprintf("Meeting state: %s", ev.MeetingState),
				Percentage: unknownEventPercentage,
			},
		})
		return
	}
	r.applyTransition(ctx, sess.ID, tr)
}

func (r *Reducer) applyMedia(ctx context.Context, sess *store.Session, ev event.Event) {
	switch ev.MediaState {
	case event.MediaStateProcessing:
		r.applyTransition(ctx, sess.ID, mediaProcessingTransition)
	case event.MediaStateAvailable:
		r.runCompletion(ctx, sess, ev)
	case event.MediaStateError:
		r.applyTransition(ctx, sess.ID, mediaErrorTransition)
	case event.MediaStateDeleted:
		// Informational only.
		slog.Info("vendor deleted session media", "session_id", sess.ID)
	default:
		r.applyUnknown(ctx, sess, ev)
	}
}

func (r *Reducer) applyUnknown(ctx context.Context, sess *store.Session, ev event.Event) {
	slog.Info("unknown lifecycle event", "session_id", sess.ID, "event_type", ev.RawType)
	r.update(ctx, sess.ID, store.UpdateSessionInput{
		Progress: &store.Progress{
			Message:    fmt.Sprintf("Received event: %s", ev.RawType),
			Percentage: unknownEventPercentage,
		},
	})
}

// runCompletion is the media-available sequence: fetch the transcript,
// generate the summary, persist both and finish the session. When no
// transcript can be obtained the session is left in processing with an
// error note, since the recording may still be retrievable later.
func (r *Reducer) runCompletion(ctx context.Context, sess *store.Session, ev event.Event) {
	r.applyTransition(ctx, sess.ID, downloadingTransition)

	transcript := r.fetchTranscript(ctx, sess, ev)
	if transcript == nil {
		r.update(ctx, sess.ID, store.UpdateSessionInput{
			Progress: &store.Progress{
				Message:    "Error generating summary",
				Percentage: downloadingTransition.percentage,
			},
		})
		return
	}

	sum := r.summaries.Generate(ctx, transcript)

	tr := completedTransition
	input := store.UpdateSessionInput{
		Status:     &tr.status,
		Transcript: transcript,
		Summary:    sum,
		Progress:   &store.Progress{Message: tr.message, Percentage: tr.percentage},
	}
	if ev.RecordingURL != "" {
		recordingURL := ev.RecordingURL
		input.RecordingURL = &recordingURL
	}
	r.update(ctx, sess.ID, input)

	if ev.RecordingURL != "" {
		go r.mirrorRecording(sess.ID, ev.RecordingURL)
	}
}

// fetchTranscript tries the payload-provided URL first, then compensates
// through the vendor media endpoint. Returns nil when both fail.
func (r *Reducer) fetchTranscript(ctx context.Context, sess *store.Session, ev event.Event) *store.Transcript {
	if ev.TranscriptURL != "" {
		t, err := r.dispatch.FetchTranscript(ctx, ev.TranscriptURL)
		if err == nil {
			return t
		}
		slog.Warn("transcript fetch by url failed", "error", err, "session_id", sess.ID)
	}
	if sess.BotID == nil {
		return nil
	}
	t, err := r.dispatch.Transcript(ctx, sess.GrantID, *sess.BotID)
	if err != nil {
		slog.Warn("transcript fetch via vendor api failed", "error", err, "session_id", sess.ID, "bot_id", *sess.BotID)
		return nil
	}
	return t
}

// mirrorRecording copies the vendor recording into object storage and
// upgrades the stored reference on success. Failures keep the vendor URL.
func (r *Reducer) mirrorRecording(sessionID, vendorURL string) {
	ctx := context.Background()
	mirrored, err := r.recordings.Mirror(ctx, sessionID, vendorURL)
	if err != nil {
		slog.Warn("recording mirror failed; keeping vendor url", "error", err, "session_id", sessionID)
		return
	}
	if mirrored == "" || mirrored == vendorURL {
		return
	}
	r.update(ctx, sessionID, store.UpdateSessionInput{RecordingURL: &mirrored})
}

func (r *Reducer) applyTransition(ctx context.Context, sessionID string, tr transition) {
	r.update(ctx, sessionID, store.UpdateSessionInput{
		Status:   &tr.status,
		Progress: &store.Progress{Message: tr.message, Percentage: tr.percentage},
	})
}

func (r *Reducer) update(ctx context.Context, sessionID string, input store.UpdateSessionInput) {
	if _, err := r.store.Update(ctx, sessionID, input); err != nil {
		slog.Error("failed to update session", "error", err, "session_id", sessionID)
	}
}
