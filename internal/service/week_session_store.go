package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinic-route/pkg/redis"
)

var ErrSessionNotFound = errors.New("周会话不存在或已过期")

// SessionStore 周会话存储，按 (用户, 周一日期) 隔离
type SessionStore interface {
	Load(ctx context.Context, ownerID, weekStart string) (*WeekSession, error)
	Save(ctx context.Context, s *WeekSession) error
	Discard(ctx context.Context, ownerID, weekStart string) error
}

// NewSessionStore Redis 可用时使用 Redis，否则退化为进程内存储
func NewSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	if rdb != nil {
		return &redisSessionStore{rdb: rdb, ttl: ttl}
	}
	return newMemorySessionStore(ttl, time.Now)
}

func sessionKey(ownerID, weekStart string) string {
	return fmt.Sprintf("week_session:%s:%s", ownerID, weekStart)
}

// ── Redis ──

type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s *redisSessionStore) Load(ctx context.Context, ownerID, weekStart string) (*WeekSession, error) {
	var sess WeekSession
	if err := s.rdb.GetJSON(ctx, sessionKey(ownerID, weekStart), &sess); err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *redisSessionStore) Save(ctx context.Context, sess *WeekSession) error {
	return s.rdb.SetJSON(ctx, sessionKey(sess.OwnerID, sess.WeekStart), sess, s.ttl)
}

func (s *redisSessionStore) Discard(ctx context.Context, ownerID, weekStart string) error {
	return s.rdb.Del(ctx, sessionKey(ownerID, weekStart))
}

// ── 进程内 ──

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memorySessionStore 以序列化副本保存，调用方修改会话不会影响已保存的状态
type memorySessionStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func newMemorySessionStore(ttl time.Duration, now func() time.Time) *memorySessionStore {
	return &memorySessionStore{items: make(map[string]memoryEntry), ttl: ttl, now: now}
}

func (s *memorySessionStore) Load(_ context.Context, ownerID, weekStart string) (*WeekSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(ownerID, weekStart)
	item, ok := s.items[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && s.now().After(item.expiresAt) {
		delete(s.items, key)
		return nil, ErrSessionNotFound
	}
	var sess WeekSession
	if err := json.Unmarshal(item.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *memorySessionStore) Save(_ context.Context, sess *WeekSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionKey(sess.OwnerID, sess.WeekStart)] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *memorySessionStore) Discard(_ context.Context, ownerID, weekStart string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionKey(ownerID, weekStart))
	return nil
}
