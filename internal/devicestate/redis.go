package devicestate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/intelcon-group/gt06-gateway/internal/logging"
)

// RedisStore is the production Store backend: one Redis hash per key,
// fields mapped directly onto HSET/HGET/HMGET. The device-state store
// is load-bearing for this gateway (every session and input mapper
// depends on it), so unlike a cache layer, connection failure at
// startup is fatal rather than a degrade-to-disabled path.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore dials Redis at host:port and pings it once. A failed
// ping is a Permanent error per the gateway's error-handling policy:
// it logs and terminates the process rather than returning an error
// the caller might paper over.
func NewRedisStore(host, port, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Fatal("device state store (redis) unreachable at %s:%s: %v", host, port, err)
	}

	return &RedisStore{client: client}
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) HMGet(ctx context.Context, key string, fields ...string) ([]string, []bool, error) {
	raw, err := s.client.HMGet(ctx, key, fields...).Result()
	if err != nil {
		return nil, nil, err
	}

	values := make([]string, len(raw))
	oks := make([]bool, len(raw))
	for i, r := range raw {
		if r == nil {
			continue
		}
		s, ok := r.(string)
		if !ok {
			continue
		}
		values[i] = s
		oks[i] = true
	}
	return values, oks, nil
}

func (s *RedisStore) HSet(ctx context.Context, key, field, value string) error {
	return s.client.HSet(ctx, key, field, value).Err()
}
