package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"quizzes-service/internal/app"
)

const scanCount = 500

// Store implements app.Store on Redis. Records are plain strings holding JSON,
// tracker and index sets are Redis sets:
//
//	SET   question-{uuid} {json}
//	SADD  published-{questionUUID} {quizUUID}
//	SETNX solution-{uuid} {json}
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, app.ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// SetIfAbsent relies on SETNX, which is atomic per key.
func (s *Store) SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	return s.client.SetNX(ctx, key, value, 0).Result()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) AddToSet(ctx context.Context, setKey, member string) error {
	return s.client.SAdd(ctx, setKey, member).Err()
}

func (s *Store) RemoveFromSet(ctx context.Context, setKey, member string) error {
	return s.client.SRem(ctx, setKey, member).Err()
}

func (s *Store) SetSize(ctx context.Context, setKey string) (int, error) {
	n, err := s.client.SCard(ctx, setKey).Result()
	return int(n), err
}

func (s *Store) SetMembers(ctx context.Context, setKey string) ([]string, error) {
	return s.client.SMembers(ctx, setKey).Result()
}

// ScanKeys walks the keyspace with SCAN rather than KEYS so large databases are
// not blocked. SCAN may repeat keys, so results are deduplicated.
func (s *Store) ScanKeys(ctx context.Context, prefix string) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Ping checks the health of the Redis server.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
