package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the durable holding place of one access token per chat.
// Absence of a token means the chat is logged out.
type Store interface {
	Token(ctx context.Context, chatID int64) (string, bool)
	Save(ctx context.Context, chatID int64, token string) error
	Clear(ctx context.Context, chatID int64) error
}

// MemoryStore keeps tokens in process memory. Sessions do not survive a
// restart; fine for development and single-instance deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[int64]string)}
}

func (s *MemoryStore) Token(_ context.Context, chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[chatID]
	return tok, ok
}

func (s *MemoryStore) Save(_ context.Context, chatID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[chatID] = token
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, chatID)
	return nil
}

// RedisStore keeps tokens in Redis so sessions survive restarts.
type RedisStore struct {
	client *redis.Client
}

// TTL matches the backend's refresh window; an expired key simply forces
// a new login.
const tokenTTL = 24 * time.Hour

func NewRedisStore(redisHost, redisPort string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func tokenKey(chatID int64) string {
	return fmt.Sprintf("chat:%d:access", chatID)
}

func (s *RedisStore) Token(ctx context.Context, chatID int64) (string, bool) {
	result := s.client.Get(ctx, tokenKey(chatID))
	if result.Err() != nil {
		return "", false
	}
	return result.Val(), true
}

func (s *RedisStore) Save(ctx context.Context, chatID int64, token string) error {
	return s.client.Set(ctx, tokenKey(chatID), token, tokenTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, tokenKey(chatID)).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
