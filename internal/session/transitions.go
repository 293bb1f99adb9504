package session

import (
	"github.com/halcyonlab/notetracker/internal/event"
	"github.com/halcyonlab/notetracker/internal/store"
)

// transition is one row of the status table: the new status and the
// progress reported with it. Percentages are written verbatim; a later
// event may report a lower value than an earlier one and that is kept
// (vendor corrections supersede earlier estimates).
type transition struct {
	status     store.SessionStatus
	percentage int
	message    string
}

var botCreatedTransition = transition{store.SessionStatusJoining, 20, "Notetaker is joining the meeting"}

var botDeletedTransition = transition{store.SessionStatusFailed, 0, "Notetaker was deleted"}

var meetingStateTransitions = map[string]transition{
	event.MeetingStateDispatched:      {store.SessionStatusJoining, 25, "Notetaker dispatched to the meeting"},
	event.MeetingStateWaitingForEntry: {store.SessionStatusJoining, 30, "Waiting to be admitted to the meeting"},
	event.MeetingStateRecordingActive: {store.SessionStatusRecording, 60, "Recording in progress"},
	event.MeetingStateAttending:       {store.SessionStatusRecording, 60, "Recording in progress"},
	event.MeetingStateLeft:            {store.SessionStatusProcessing, 80, "Meeting ended, processing recording"},
	event.MeetingStateDisconnected:    {store.SessionStatusProcessing, 80, "Meeting ended, processing recording"},
	event.MeetingStateNoActivity:      {store.SessionStatusProcessing, 80, "Meeting ended, processing recording"},
	event.MeetingStateNoParticipants:  {store.SessionStatusProcessing, 80, "Meeting ended, processing recording"},
	event.MeetingStateAPIRequestStop:  {store.SessionStatusProcessing, 80, "Meeting ended, processing recording"},
	event.MeetingStateBadCode:         {store.SessionStatusFailed, 0, "Meeting code was invalid"},
	event.MeetingStateEntryDenied:     {store.SessionStatusFailed, 0, "Notetaker was denied entry to the meeting"},
	event.MeetingStateNoResponse:      {store.SessionStatusFailed, 0, "No response from the meeting"},
	event.MeetingStateKicked:          {store.SessionStatusFailed, 0, "Notetaker was removed from the meeting"},
	event.MeetingStateInternalError:   {store.SessionStatusFailed, 0, "Notetaker failed with an internal error"},
}

var mediaProcessingTransition = transition{store.SessionStatusProcessing, 85, "Media is being processed"}

var mediaErrorTransition = transition{store.SessionStatusFailed, 0, "Media processing failed"}

var (
	downloadingTransition = transition{store.SessionStatusProcessing, 90, "Downloading transcript"}
	completedTransition   = transition{store.SessionStatusCompleted, 100, "Summary ready"}
)

// The legacy flat vocabulary keeps its own percentages; "joined" maps to
// recording at 50, not the 60 used by recording_active.
var legacyTransitions = map[event.Kind]transition{
	event.KindLegacyJoined:    {store.SessionStatusRecording, 50, "Notetaker joined the meeting"},
	event.KindLegacyRecording: {store.SessionStatusRecording, 60, "Recording in progress"},
	event.KindLegacyFailed:    {store.SessionStatusFailed, 0, "Notetaker reported a failure"},
}

const unknownEventPercentage = 50
