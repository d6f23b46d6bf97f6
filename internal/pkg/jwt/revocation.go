package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked access tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked_token:" + hex.EncodeToString(sum[:])
}

type memoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore keeps revocations in process. Used when Redis is not configured.
func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{entries: make(map[string]time.Time), now: time.Now}
}

func (m *memoryRevocationStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, k)
		}
	}
	m.entries[tokenKey(token)] = now.Add(ttl)
	return nil
}

func (m *memoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	until, ok := m.entries[tokenKey(token)]
	return ok && m.now().Before(until), nil
}

type redisRevocationStore struct {
	rdb *redis.Client
}

func NewRedisRevocationStore(rdb *redis.Client) RevocationStore {
	return &redisRevocationStore{rdb: rdb}
}

func (r *redisRevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return r.rdb.Set(ctx, tokenKey(token), 1, ttl).Err()
}

func (r *redisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := r.rdb.Get(ctx, tokenKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ConnectRedis opens a client and pings it.
func ConnectRedis(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
