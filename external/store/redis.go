package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/halcyonlab/notetracker/internal/store"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionKeyPrefix = "notetracker:session:"
	redisBotKeyPrefix     = "notetracker:session:bot:"
	redisIndexKey         = "notetracker:sessions"
)

// RedisStore persists sessions as JSON blobs with a secondary bot-id key
// and an id index set for full scans.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string { return redisSessionKeyPrefix + id }
func botKey(botID string) string  { return redisBotKeyPrefix + botID }

func (r *RedisStore) Create(ctx context.Context, s *store.Session) error {
	if err := r.save(ctx, s); err != nil {
		return err
	}
	return r.client.SAdd(ctx, redisIndexKey, s.ID).Err()
}

func (r *RedisStore) Get(ctx context.Context, id string) (*store.Session, error) {
	b, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var s store.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("corrupt session record %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) GetByBotID(ctx context.Context, botID string) (*store.Session, error) {
	id, err := r.client.Get(ctx, botKey(botID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *RedisStore) LatestUnassignedByGrant(ctx context.Context, grantID string) (*store.Session, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if s.GrantID == grantID && s.BotID == nil {
			return s, nil
		}
	}
	return nil, nil
}

func (r *RedisStore) List(ctx context.Context) ([]*store.Session, error) {
	ids, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, err
	}
	list := make([]*store.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *RedisStore) Update(ctx context.Context, id string, input store.UpdateSessionInput) (*store.Session, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, store.ErrNotFound
	}
	applyUpdate(s, input)
	s.UpdatedAt = time.Now()
	if err := r.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) save(ctx context.Context, s *store.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), b, 0).Err(); err != nil {
		return err
	}
	if s.BotID != nil {
		if err := r.client.Set(ctx, botKey(*s.BotID), s.ID, 0).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
