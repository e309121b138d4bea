package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"aerobook/pkg/cache"
	"aerobook/pkg/logger"
)

// Store is a typed key/value store scoped to one visitor session. Values are
// JSON-serialized into the backing cache under "sess:<sid>:<key>".
//
// Absence is not an error: a missing key, a malformed stored value, and an
// unavailable backing store all read as "absent" so callers can recover the
// flow instead of crashing. Malformed values and store failures are logged.
type Store struct {
	cache  cache.Cache
	logger logger.Client
	sid    string
	ttl    time.Duration
}

func newStore(c cache.Cache, log logger.Client, sid string, ttl time.Duration) *Store {
	return &Store{cache: c, logger: log, sid: sid, ttl: ttl}
}

// ID returns the session identifier the store is bound to.
func (s *Store) ID() string {
	return s.sid
}

func (s *Store) storageKey(key string) string {
	return "sess:" + s.sid + ":" + key
}

// Put serializes v and stores it under key for the session lifetime.
func (s *Store) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, s.storageKey(key), string(raw), s.ttl); err != nil {
		s.logger.Error("session put failed",
			logger.Err(err),
			logger.Field{Key: "key", Value: key},
		)
		return err
	}
	return nil
}

// Get deserializes the value stored under key into dst and reports whether a
// usable value was present.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, err := s.cache.Get(ctx, s.storageKey(key))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Error("session get failed",
				logger.Err(err),
				logger.Field{Key: "key", Value: key},
			)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		// Treat a corrupt value as absent and drop it so the next read
		// doesn't hit it again.
		s.logger.Warn("session value malformed, discarding",
			logger.Err(err),
			logger.Field{Key: "key", Value: key},
		)
		s.Remove(ctx, key)
		return false
	}
	return true
}

// Remove clears key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, s.storageKey(key)); err != nil {
		s.logger.Error("session remove failed",
			logger.Err(err),
			logger.Field{Key: "key", Value: key},
		)
	}
}
