package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) store.Store {
	return &PostgresStore{pool: pool}
}

const sessionColumns = `id, meeting_url, grant_id, status, bot_id, transcript, recording_url, summary, progress_message, progress_percentage, created_at, updated_at`

func (r *PostgresStore) Create(ctx context.Context, s *store.Session) error {
	transcript, summary, err := marshalDocuments(s.Transcript, s.Summary)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO sessions (id, meeting_url, grant_id, status, bot_id, transcript, recording_url, summary, progress_message, progress_percentage, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.MeetingURL, s.GrantID, string(s.Status), s.BotID, transcript, s.RecordingURL, summary,
		s.Progress.Message, s.Progress.Percentage, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*store.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

func (r *PostgresStore) GetByBotID(ctx context.Context, botID string) (*store.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE bot_id = $1 LIMIT 1`, botID)
	return scanSession(row)
}

func (r *PostgresStore) LatestUnassignedByGrant(ctx context.Context, grantID string) (*store.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE grant_id = $1 AND bot_id IS NULL
		 ORDER BY created_at DESC LIMIT 1`, grantID)
	return scanSession(row)
}

func (r *PostgresStore) List(ctx context.Context) ([]*store.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*store.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresStore) Update(ctx context.Context, id string, input store.UpdateSessionInput) (*store.Session, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Status != nil {
		add("status", string(*input.Status))
	}
	if input.BotID != nil {
		add("bot_id", *input.BotID)
	}
	if input.Transcript != nil {
		b, err := json.Marshal(input.Transcript)
		if err != nil {
			return nil, err
		}
		add("transcript", b)
	}
	if input.RecordingURL != nil {
		add("recording_url", *input.RecordingURL)
	}
	if input.Summary != nil {
		b, err := json.Marshal(input.Summary)
		if err != nil {
			return nil, err
		}
		add("summary", b)
	}
	if input.Progress != nil {
		add("progress_message", input.Progress.Message)
		add("progress_percentage", input.Progress.Percentage)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE sessions SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+sessionColumns,
		args...)
	s, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (r *PostgresStore) Close() error {
	r.pool.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*store.Session, error) {
	var s store.Session
	var status string
	var transcript, summary []byte
	err := row.Scan(&s.ID, &s.MeetingURL, &s.GrantID, &status, &s.BotID, &transcript, &s.RecordingURL, &summary,
		&s.Progress.Message, &s.Progress.Percentage, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Status = store.SessionStatus(status)
	if transcript != nil {
		var t store.Transcript
		if err := json.Unmarshal(transcript, &t); err != nil {
			return nil, err
		}
		s.Transcript = &t
	}
	if summary != nil {
		var sum store.Summary
		if err := json.Unmarshal(summary, &sum); err != nil {
			return nil, err
		}
		s.Summary = &sum
	}
	return &s, nil
}

func marshalDocuments(t *store.Transcript, sum *store.Summary) ([]byte, []byte, error) {
	var transcript, summary []byte
	if t != nil {
		b, err := json.Marshal(t)
		if err != nil {
			return nil, nil, err
		}
		transcript = b
	}
	if sum != nil {
		b, err := json.Marshal(sum)
		if err != nil {
			return nil, nil, err
		}
		summary = b
	}
	return transcript, summary, nil
}
