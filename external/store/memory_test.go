package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/halcyonlab/notetracker/internal/store"
)

func seedSession(id, grantID string, createdAt time.Time) *store.Session {
	return &store.Session{
		ID:         id,
		MeetingURL: "https://meet.google.com/abc-defg-hij",
		GrantID:    grantID,
		Status:     store.SessionStatusPending,
		Progress:   store.Progress{Message: "Session registered, dispatching notetaker"},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if err := m.Create(ctx, seedSession("s1", "acct1", time.Now())); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s, err := m.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s == nil || s.ID != "s1" {
		t.Fatalf("unexpected session %+v", s)
	}

	missing, err := m.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing session, got %+v", missing)
	}
}

func TestMemoryStore_GetByBotID(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	s := seedSession("s1", "acct1", time.Now())
	botID := "bot1"
	s.BotID = &botID
	if err := m.Create(ctx, s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	found, err := m.GetByBotID(ctx, "bot1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found == nil || found.ID != "s1" {
		t.Fatalf("unexpected session %+v", found)
	}

	none, err := m.GetByBotID(ctx, "bot2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil, got %+v", none)
	}
}

func TestMemoryStore_LatestUnassignedByGrant(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()

	older := seedSession("older", "acct1", now.Add(-time.Hour))
	newer := seedSession("newer", "acct1", now)
	assigned := seedSession("assigned", "acct1", now.Add(time.Hour))
	botID := "bot1"
	assigned.BotID = &botID
	otherGrant := seedSession("other", "acct2", now.Add(time.Hour))

	for _, s := range []*store.Session{older, newer, assigned, otherGrant} {
		if err := m.Create(ctx, s); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	got, err := m.LatestUnassignedByGrant(ctx, "acct1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || got.ID != "newer" {
		t.Fatalf("expected newer, got %+v", got)
	}

	none, err := m.LatestUnassignedByGrant(ctx, "acct3")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil, got %+v", none)
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		if err := m.Create(ctx, seedSession(id, "acct1", now.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(list))
	}
	if list[0].ID != "c" || list[1].ID != "b" || list[2].ID != "a" {
		t.Fatalf("unexpected order: %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestMemoryStore_UpdatePartialFields(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	created := time.Now().Add(-time.Minute)
	if err := m.Create(ctx, seedSession("s1", "acct1", created)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	status := store.SessionStatusRecording
	updated, err := m.Update(ctx, "s1", store.UpdateSessionInput{
		Status:   &status,
		Progress: &store.Progress{Message: "Recording in progress", Percentage: 60},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != store.SessionStatusRecording {
		t.Fatalf("expected recording, got %s", updated.Status)
	}
	if updated.Progress.Percentage != 60 {
		t.Fatalf("expected 60, got %d", updated.Progress.Percentage)
	}
	if updated.GrantID != "acct1" {
		t.Fatal("untouched field was lost")
	}
	if !updated.UpdatedAt.After(created) {
		t.Fatal("UpdatedAt was not advanced")
	}
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	m := NewMemoryStore()
	status := store.SessionStatusFailed
	if _, err := m.Update(context.Background(), "nope", store.UpdateSessionInput{Status: &status}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ReturnsClones(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.Create(ctx, seedSession("s1", "acct1", time.Now())); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	first, _ := m.Get(ctx, "s1")
	first.Status = store.SessionStatusFailed
	first.Progress.Message = "mutated"

	second, _ := m.Get(ctx, "s1")
	if second.Status != store.SessionStatusPending {
		t.Fatal("caller mutation leaked into the store")
	}
	if second.Progress.Message != "Session registered, dispatching notetaker" {
		t.Fatal("caller mutation leaked into the store")
	}
}
