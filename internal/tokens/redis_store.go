package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ask_saturation/internal/models"
)

// RedisStore keeps each session's tokens in a Redis list that expires ttl
// after the last booking.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Append(ctx context.Context, session string, token models.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	key := sessionKey(session)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, session string) ([]models.Token, error) {
	key := sessionKey(session)
	raw, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", key, err)
	}
	return decodeTokens(raw)
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func decodeTokens(raw []string) ([]models.Token, error) {
	list := make([]models.Token, 0, len(raw))
	for _, item := range raw {
		var t models.Token
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("corrupt token entry: %w", err)
		}
		list = append(list, t)
	}
	return list, nil
}
