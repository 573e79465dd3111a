package mailbox

// This file backs the hand-off slot with Redis, keyed by visit id, with a
// TTL so slots of visits that were never cleaned up expire on their own.
// Visits themselves are held in process memory, so a slot does not outlive
// a restart in any reachable way.  Each slot is one string key holding the
// JSON snapshot.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/museum-reservation/internal/model"
)

// Redis is a Mailbox stored in Redis.  TakeOnce relies on GETDEL, which
// reads and deletes in a single command.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis returns a Redis mailbox.  Keys are "<prefix>:<key>" and expire
// after ttl; a ttl of zero keeps them until taken or cleared.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "handoff"
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k string) string { return r.prefix + ":" + k }

func (r *Redis) Put(ctx context.Context, key string, s model.DraftSnapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), payload, r.ttl).Err()
}

func (r *Redis) Peek(ctx context.Context, key string) (model.DraftSnapshot, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	return decode(data, err)
}

func (r *Redis) TakeOnce(ctx context.Context, key string) (model.DraftSnapshot, error) {
	data, err := r.client.GetDel(ctx, r.key(key)).Bytes()
	return decode(data, err)
}

func (r *Redis) Clear(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func decode(data []byte, err error) (model.DraftSnapshot, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.DraftSnapshot{}, ErrEmpty
		}
		return model.DraftSnapshot{}, err
	}
	var s model.DraftSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return model.DraftSnapshot{}, err
	}
	return s, nil
}
