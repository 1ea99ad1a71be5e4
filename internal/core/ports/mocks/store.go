// Package mocks provides thread-safe in-memory implementations of the port
// interfaces for tests.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
	coreerrors "github.com/lueurxax/chat-supervisor-bot/internal/core/errors"
	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
)

// Store is a thread-safe in-memory implementation of ports.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// GetFn allows overriding Get behavior.
	GetFn func(ctx context.Context, key string) ([]byte, error)

	// SetFn allows overriding Set behavior.
	SetFn func(ctx context.Context, key string, value []byte) error

	// DeleteFn allows overriding Delete behavior.
	DeleteFn func(ctx context.Context, key string) error
}

// NewStore creates a new mock store.
func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get retrieves a stored value.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, key)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, coreerrors.ErrCacheNotFound
	}

	out := make([]byte, len(val))
	copy(out, val)

	return out, nil
}

// Set stores a value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.SetFn != nil {
		return s.SetFn(ctx, key, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored

	return nil
}

// Delete removes a value.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Counter is a thread-safe in-memory implementation of ports.CounterRepository.
type Counter struct {
	mu     sync.Mutex
	counts map[[2]int64]int64
}

// NewCounter creates a new mock counter repository.
func NewCounter() *Counter {
	return &Counter{counts: make(map[[2]int64]int64)}
}

// IncrementDuplicateCount increments and returns the counter for the user.
func (c *Counter) IncrementDuplicateCount(_ context.Context, chatID, userID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := [2]int64{chatID, userID}
	c.counts[key]++

	return c.counts[key], nil
}

// GetDuplicateCount returns the current counter for the user, zero when the
// user has never been flagged.
func (c *Counter) GetDuplicateCount(_ context.Context, chatID, userID int64) (int64, error) {
	return c.Count(chatID, userID), nil
}

// TopDuplicateUsers returns the chat's counters, highest first.
func (c *Counter) TopDuplicateUsers(_ context.Context, chatID int64, limit int) ([]domain.UserDuplicateCount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []domain.UserDuplicateCount

	for key, count := range c.counts {
		if key[0] != chatID {
			continue
		}

		out = append(out, domain.UserDuplicateCount{UserID: key[1], Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].UserID < out[j].UserID
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Count returns the current counter value for the user.
func (c *Counter) Count(chatID, userID int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[[2]int64{chatID, userID}]
}

var _ ports.Store = (*Store)(nil)

var _ ports.CounterRepository = (*Counter)(nil)
