package session

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSummaryNotReady   = errors.New("summary is not ready")
	ErrInvalidMeetingURL = errors.New("meeting url is not a supported meeting link")
)
