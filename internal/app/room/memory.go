package room

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests. Its clock is monotonic per
// store so insertion order and timestamp order agree, matching the database.
type MemoryStore struct {
	mu       sync.Mutex
	messages []Message
	lastTS   time.Time
}

// NewMemoryStore returns an empty in-memory room log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := time.Now()
	if !ts.After(s.lastTS) {
		ts = s.lastTS.Add(time.Microsecond)
	}
	s.lastTS = ts

	m.Timestamp = ts
	s.messages = append(s.messages, *m)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.messages)
	if limit > n {
		limit = n
	}

	// Newest first, like the database query.
	out := make([]Message, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.messages[i])
	}
	return out, nil
}
