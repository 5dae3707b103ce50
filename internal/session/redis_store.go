package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// tokenData is what we keep per sid.
type tokenData struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisStore implements session storage using Redis; expiry is enforced by
// the key TTL, so stale sessions vanish without a sweeper.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "sid:"}, nil
}

func (s *RedisStore) key(sid string) string {
	return s.prefix + sid
}

func (s *RedisStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	sid := uuid.NewString()

	data, err := json.Marshal(tokenData{UserID: userID, CreatedAt: time.Now()})
	if err != nil {
		return "", fmt.Errorf("marshal session data: %w", err)
	}

	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if err := s.client.Set(ctx, s.key(sid), data, ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return sid, nil
}

func (s *RedisStore) Lookup(ctx context.Context, sid string) (int64, error) {
	raw, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}

	var data tokenData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return 0, fmt.Errorf("unmarshal session data: %w", err)
	}
	return data.UserID, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, s.key(sid)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
