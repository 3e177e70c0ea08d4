package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/wordstream/pkg/errors"
)

const redisPrefix = "wordstream:session:"

// RedisStore keeps sessions as JSON strings whose redis TTL tracks
// ExpiresAt.
type RedisStore struct {
	client *redis.Client
	owned  bool
}

// NewRedisStore shares client with other components; Close leaves it open.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// DialRedisStore opens its own connection.
func DialRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to redis at %s", addr)
	}
	return &RedisStore{client: client, owned: true}, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisPrefix+id).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "redis get session")
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSession, err, "parse session %s", id)
	}
	if s.IsExpired(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStore) Set(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session")
	}
	ttl := time.Until(s.ExpiresAt)
	if s.ExpiresAt.IsZero() {
		ttl = 0
	} else if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}
	if err := r.client.Set(ctx, redisPrefix+s.ID, data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "redis set session")
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisPrefix+id).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "redis del session")
	}
	return nil
}

// Cleanup is a no-op; redis expires keys itself.
func (r *RedisStore) Cleanup(context.Context) error { return nil }

func (r *RedisStore) Close() error {
	if r.owned {
		return r.client.Close()
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
