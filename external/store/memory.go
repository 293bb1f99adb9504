package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/halcyonlab/notetracker/internal/store"
)

// MemoryStore keeps sessions in an in-process map. Used when no database
// is configured; everything is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*store.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*store.Session)}
}

func (m *MemoryStore) Create(_ context.Context, s *store.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*store.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneSession(s), nil
}

func (m *MemoryStore) GetByBotID(_ context.Context, botID string) (*store.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.BotID != nil && *s.BotID == botID {
			return cloneSession(s), nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) LatestUnassignedByGrant(_ context.Context, grantID string) (*store.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *store.Session
	for _, s := range m.sessions {
		if s.GrantID != grantID || s.BotID != nil {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneSession(latest), nil
}

func (m *MemoryStore) List(_ context.Context) ([]*store.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*store.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, cloneSession(s))
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, input store.UpdateSessionInput) (*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	applyUpdate(s, input)
	s.UpdatedAt = time.Now()
	return cloneSession(s), nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// applyUpdate replaces the fields named by the input. Shared with the redis
// driver, which does the same read-modify-write on a decoded record.
func applyUpdate(s *store.Session, input store.UpdateSessionInput) {
	if input.Status != nil {
		s.Status = *input.Status
	}
	if input.BotID != nil {
		botID := *input.BotID
		s.BotID = &botID
	}
	if input.Transcript != nil {
		t := *input.Transcript
		s.Transcript = &t
	}
	if input.RecordingURL != nil {
		u := *input.RecordingURL
		s.RecordingURL = &u
	}
	if input.Summary != nil {
		sum := *input.Summary
		s.Summary = &sum
	}
	if input.Progress != nil {
		s.Progress = *input.Progress
	}
}

func cloneSession(s *store.Session) *store.Session {
	c := *s
	if s.BotID != nil {
		v := *s.BotID
		c.BotID = &v
	}
	if s.Transcript != nil {
		t := *s.Transcript
		t.Segments = append([]store.TranscriptSegment(nil), s.Transcript.Segments...)
		c.Transcript = &t
	}
	if s.RecordingURL != nil {
		v := *s.RecordingURL
		c.RecordingURL = &v
	}
	if s.Summary != nil {
		sum := *s.Summary
		c.Summary = &sum
	}
	return &c
}
