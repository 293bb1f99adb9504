package dispatch

import (
	"context"
	"errors"

	"github.com/halcyonlab/notetracker/internal/store"
)

// Classified vendor failures. Callers on best-effort paths match on these
// to decide what to swallow.
var (
	ErrVendorTimeout  = errors.New("vendor request timed out")
	ErrVendorGateway  = errors.New("vendor gateway unavailable")
	ErrVendorNotFound = errors.New("vendor resource not found")
)

type DeployInput struct {
	MeetingURL string
	GrantID    string
}

type DeployResult struct {
	BotID string
}

// Client wraps the notetaker vendor API. Every call carries a bounded
// timeout; the implementation classifies failures into the sentinel errors
// above where possible.
type Client interface {
	// Deploy asks the vendor to send a bot into the meeting.
	Deploy(ctx context.Context, input DeployInput) (*DeployResult, error)
	// BotStatus returns the vendor's current meeting-state string for the bot.
	BotStatus(ctx context.Context, grantID, botID string) (string, error)
	// Transcript fetches the transcript through the vendor's media endpoint.
	// Used as the compensating step when the webhook payload carried no
	// usable transcript reference.
	Transcript(ctx context.Context, grantID, botID string) (*store.Transcript, error)
	// FetchTranscript downloads a transcript document directly by URL.
	FetchTranscript(ctx context.Context, url string) (*store.Transcript, error)
}
