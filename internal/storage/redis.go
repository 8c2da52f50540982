package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

const quizKeyPrefix = "finpath:quiz:"

// RedisQuizStorage keeps quiz sessions in Redis with a TTL so several
// instances can serve the same attempt.
type RedisQuizStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// NewRedisQuizStorage creates a new RedisQuizStorage.
func NewRedisQuizStorage(rdb *redis.Client, ttl time.Duration) *RedisQuizStorage {
	return &RedisQuizStorage{rdb: rdb, ttl: ttl}
}

// Save stores the session and refreshes its expiry.
func (s *RedisQuizStorage) Save(ctx context.Context, qs *entities.QuizSession) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("marshal quiz session: %w", err)
	}

	if err := s.rdb.Set(ctx, quizKey(qs.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

// Get retrieves the session with the given ID.
func (s *RedisQuizStorage) Get(ctx context.Context, id string) (*entities.QuizSession, error) {
	data, err := s.rdb.Get(ctx, quizKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}

	var qs entities.QuizSession
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("unmarshal quiz session: %w", err)
	}
	return &qs, nil
}

// Delete removes the session with the given ID.
func (s *RedisQuizStorage) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, quizKey(id)).Err(); err != nil {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

func quizKey(id string) string {
	return quizKeyPrefix + id
}
