package private

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests, with a per-store monotonic
// clock so insertion order and timestamp order agree.
type MemoryStore struct {
	mu       sync.Mutex
	channels map[string][]Message
	lastTS   time.Time
}

// NewMemoryStore returns an empty in-memory channel store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{channels: make(map[string][]Message)}
}

func (s *MemoryStore) Append(_ context.Context, m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := time.Now()
	if !ts.After(s.lastTS) {
		ts = s.lastTS.Add(time.Microsecond)
	}
	s.lastTS = ts

	m.Timestamp = ts
	s.channels[m.ChannelID] = append(s.channels[m.ChannelID], *m)
	return nil
}

func (s *MemoryStore) History(_ context.Context, channelID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.channels[channelID]
	out := make([]Message, len(log))
	copy(out, log)
	return out, nil
}
