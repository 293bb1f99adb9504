package store

import "time"

type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusJoining    SessionStatus = "joining"
	SessionStatusRecording  SessionStatus = "recording"
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// IsTerminal reports whether lifecycle events may still move the session.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

type Progress struct {
	Message    string `json:"message"`
	Percentage int    `json:"percentage"`
}

// TranscriptSegment is one speaker-attributed utterance.
type TranscriptSegment struct {
	Speaker  string  `json:"speaker"`
	Text     string  `json:"text"`
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

type Transcript struct {
	Segments []TranscriptSegment `json:"segments"`
}

type Summary struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	Participants    []string `json:"participants"`
	DurationSeconds int      `json:"duration_seconds"`
	WordCount       int      `json:"word_count"`

	// Set only by the enriched strategy.
	Topics        []string `json:"topics,omitempty"`
	Decisions     []string `json:"decisions,omitempty"`
	ActionItems   []string `json:"action_items,omitempty"`
	OpenQuestions []string `json:"open_questions,omitempty"`
	NextSteps     []string `json:"next_steps,omitempty"`
}

// Session is the aggregate record for one tracked meeting recording.
// BotID, Transcript, RecordingURL and Summary stay nil until the reducer
// sets them; nil is distinct from an empty value.
type Session struct {
	ID           string
	MeetingURL   string
	GrantID      string
	Status       SessionStatus
	BotID        *string
	Transcript   *Transcript
	RecordingURL *string
	Summary      *Summary
	Progress     Progress
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
