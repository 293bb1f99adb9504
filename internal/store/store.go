package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Update when the session does not exist.
// Point lookups return (nil, nil) for a missing session instead.
var ErrNotFound = errors.New("session not found")

// UpdateSessionInput is a partial update: nil fields are left untouched.
// Every applied field is a full replacement, so replaying the same update
// is harmless.
type UpdateSessionInput struct {
	Status       *SessionStatus
	BotID        *string
	Transcript   *Transcript
	RecordingURL *string
	Summary      *Summary
	Progress     *Progress
}

// Store persists sessions. Implementations must be safe for concurrent
// callers; Update bumps UpdatedAt and is the only atomic step the rest of
// the system relies on.
type Store interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	GetByBotID(ctx context.Context, botID string) (*Session, error)
	// LatestUnassignedByGrant returns the most recently created session for
	// the grant that has no bot id assigned yet, or nil.
	LatestUnassignedByGrant(ctx context.Context, grantID string) (*Session, error)
	// List returns all sessions, most recently created first.
	List(ctx context.Context) ([]*Session, error)
	Update(ctx context.Context, id string, input UpdateSessionInput) (*Session, error)
	Close() error
}
