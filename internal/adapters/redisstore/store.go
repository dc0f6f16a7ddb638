// Package redisstore keeps form snapshots in Redis so several server
// instances can share sessions.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csg33k/fpr-form/internal/common/config"
	"github.com/csg33k/fpr-form/internal/domain"
)

const keyPrefix = "fpr:form:"

// Store is a ports.FormStateStore backed by Redis. Every save refreshes the
// snapshot's TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New dials Redis with the configured address and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	s := NewWithClient(rdb, cfg.TTL)
	if err := s.Ping(ctx); err != nil {
		rdb.Close()
		return nil, err
	}
	return s, nil
}

// NewWithClient wraps an existing client. ttl 0 keeps snapshots forever.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }

func key(sessionID string) string { return keyPrefix + sessionID }

func (s *Store) LoadState(ctx context.Context, sessionID string) (*domain.FormState, error) {
	raw, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st := domain.NewFormState()
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	st = st.Clone()
	return &st, nil
}

func (s *Store) SaveState(ctx context.Context, sessionID string, st domain.FormState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(sessionID), b, s.ttl).Err()
}

func (s *Store) DeleteState(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, key(sessionID)).Err()
}
