package event

import (
	"encoding/json"
	"fmt"
)

type rawEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type rawMedia struct {
	Transcript string `json:"transcript"`
	Recording  string `json:"recording"`
}

// rawObject covers every field name the vendor has been observed to use,
// at any nesting level.
type rawObject struct {
	Object *rawObject `json:"object"`

	ID          string `json:"id"`
	NotetakerID string `json:"notetaker_id"`
	BotID       string `json:"bot_id"`

	GrantID   string `json:"grant_id"`
	AccountID string `json:"account_id"`

	MeetingState string `json:"meeting_state"`
	State        string `json:"state"`

	Media         *rawMedia `json:"media"`
	TranscriptURL string    `json:"transcript_url"`
	RecordingURL  string    `json:"recording_url"`
}

// Parse decodes one webhook delivery body into a normalized Event. An
// unknown type is not an error; only an undecodable body is.
func Parse(body []byte) (Event, error) {
	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, fmt.Errorf("decoding event envelope: %w", err)
	}
	return Normalize(env.Type, env.Data), nil
}

// Normalize maps one vendor event onto the internal Event shape. This is
// the single adapter between the vendor vocabulary and the reducer.
func Normalize(eventType string, data json.RawMessage) Event {
	var obj rawObject
	if len(data) > 0 {
		// A malformed data block degrades to an event with no optional
		// fields; the reducer will drop it as unresolvable.
		_ = json.Unmarshal(data, &obj)
	}
	if obj.Object != nil {
		obj = *obj.Object
	}

	ev := Event{
		Kind:    kindOf(eventType),
		RawType: eventType,
		BotID:   firstNonEmpty(obj.NotetakerID, obj.BotID, obj.ID),
		GrantID: firstNonEmpty(obj.GrantID, obj.AccountID),
	}

	switch ev.Kind {
	case KindMeetingState:
		ev.MeetingState = firstNonEmpty(obj.MeetingState, obj.State)
	case KindMedia:
		ev.MediaState = firstNonEmpty(obj.State, obj.MeetingState)
		// Media events carry their own id, not the bot's.
		ev.BotID = firstNonEmpty(obj.NotetakerID, obj.BotID)
	}

	ev.TranscriptURL = obj.TranscriptURL
	ev.RecordingURL = obj.RecordingURL
	if obj.Media != nil {
		ev.TranscriptURL = firstNonEmpty(obj.Media.Transcript, ev.TranscriptURL)
		ev.RecordingURL = firstNonEmpty(obj.Media.Recording, ev.RecordingURL)
	}
	return ev
}

func kindOf(eventType string) Kind {
	switch eventType {
	case "notetaker.created":
		return KindBotCreated
	case "notetaker.meeting_state", "notetaker.updated":
		return KindMeetingState
	case "notetaker.media", "notetaker.media_updated":
		return KindMedia
	case "notetaker.deleted":
		return KindBotDeleted
	case "joined":
		return KindLegacyJoined
	case "recording":
		return KindLegacyRecording
	case "completed":
		return KindLegacyCompleted
	case "failed":
		return KindLegacyFailed
	default:
		return KindUnknown
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
