// Package event normalizes vendor lifecycle notifications into one internal
// shape before any reduction logic runs. The vendor payload is inconsistent:
// fields are sometimes nested under an "object" key, sometimes flat, and the
// same concept arrives under varying names, so all of that tolerance lives
// here and nowhere else.
package event

type Kind string

const (
	KindBotCreated   Kind = "bot_created"
	KindMeetingState Kind = "meeting_state"
	KindMedia        Kind = "media"
	KindBotDeleted   Kind = "bot_deleted"

	// Older flat vocabulary still emitted by some vendor deployments.
	KindLegacyJoined    Kind = "legacy_joined"
	KindLegacyRecording Kind = "legacy_recording"
	KindLegacyCompleted Kind = "legacy_completed"
	KindLegacyFailed    Kind = "legacy_failed"

	KindUnknown Kind = "unknown"
)

// IsCreation reports whether the event signals bot creation, which permits
// resolving a session by grant id instead of bot id.
func (k Kind) IsCreation() bool {
	return k == KindBotCreated
}

// Meeting sub-states carried by meeting_state events.
const (
	MeetingStateDispatched      = "dispatched"
	MeetingStateWaitingForEntry = "waiting_for_entry"
	MeetingStateRecordingActive = "recording_active"
	MeetingStateAttending       = "attending"
	MeetingStateLeft            = "left"
	MeetingStateDisconnected    = "disconnected"
	MeetingStateNoActivity      = "no_meeting_activity"
	MeetingStateNoParticipants  = "no_participants"
	MeetingStateAPIRequestStop  = "api_request_stop"
	MeetingStateBadCode         = "bad_meeting_code"
	MeetingStateEntryDenied     = "entry_denied"
	MeetingStateNoResponse      = "no_response"
	MeetingStateKicked          = "kicked"
	MeetingStateInternalError   = "internal_error"
)

// Media sub-states carried by media events.
const (
	MediaStateProcessing = "processing"
	MediaStateAvailable  = "available"
	MediaStateError      = "error"
	MediaStateDeleted    = "deleted"
)

// Event is the normalized lifecycle notification. Optional fields are empty
// strings when the payload did not carry them.
type Event struct {
	Kind    Kind
	RawType string

	BotID   string
	GrantID string

	MeetingState string
	MediaState   string

	TranscriptURL string
	RecordingURL  string
}
