package directory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process UserStore with the same mutation semantics as
// the PostgreSQL implementation, including the all-or-nothing friend edge
// commit. It backs package tests and local experimentation.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryStore returns an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func cloneUser(u *User) *User {
	c := *u
	c.Friends = append([]string(nil), u.Friends...)
	c.FriendRequests = append([]string(nil), u.FriendRequests...)
	c.CustomStickers = append([]string(nil), u.CustomStickers...)
	return &c
}

func contains(set []string, member string) bool {
	for _, s := range set {
		if s == member {
			return true
		}
	}
	return false
}

func remove(set []string, member string) []string {
	out := set[:0]
	for _, s := range set {
		if s != member {
			out = append(out, s)
		}
	}
	return out
}

func (s *MemoryStore) Get(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetMany(_ context.Context, ids []string) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, *cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}

	c := cloneUser(u)
	if c.Friends == nil {
		c.Friends = []string{}
	}
	if c.FriendRequests == nil {
		c.FriendRequests = []string{}
	}
	if c.CustomStickers == nil {
		c.CustomStickers = []string{}
	}
	c.CreatedAt = time.Now()
	s.users[c.ID] = c
	return nil
}

func (s *MemoryStore) EnsureDocument(_ context.Context, id, email, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		u.Email = email
		if displayName != "" {
			u.DisplayName = displayName
		}
		return nil
	}

	s.users[id] = &User{
		ID:             id,
		Email:          email,
		DisplayName:    displayName,
		Friends:        []string{},
		FriendRequests: []string{},
		CustomStickers: []string{},
		CreatedAt:      time.Now(),
	}
	return nil
}

func (s *MemoryStore) SetPresence(_ context.Context, id string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Online = online
	return nil
}

func (s *MemoryStore) Online(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []User{}
	for _, u := range s.users {
		if u.Online {
			users = append(users, *cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName != users[j].DisplayName {
			return users[i].DisplayName < users[j].DisplayName
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (s *MemoryStore) AddSticker(_ context.Context, id, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	if !contains(u.CustomStickers, payload) {
		u.CustomStickers = append(u.CustomStickers, payload)
	}
	return nil
}

func (s *MemoryStore) AddFriendRequest(_ context.Context, to, from string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[to]
	if !ok {
		return ErrNotFound
	}
	if !contains(u.FriendRequests, from) {
		u.FriendRequests = append(u.FriendRequests, from)
	}
	return nil
}

func (s *MemoryStore) AcceptFriendRequest(_ context.Context, accepter, requester string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.users[accepter]
	if !ok {
		return ErrNotFound
	}
	if !contains(a.FriendRequests, requester) {
		return ErrNoPendingRequest
	}
	r, ok := s.users[requester]
	if !ok {
		return ErrNotFound
	}

	// Single critical section, so both edges land together or not at all.
	a.FriendRequests = remove(a.FriendRequests, requester)
	if !contains(a.Friends, requester) {
		a.Friends = append(a.Friends, requester)
	}
	if !contains(r.Friends, accepter) {
		r.Friends = append(r.Friends, accepter)
	}
	return nil
}

func (s *MemoryStore) SetAvatarKey(_ context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.AvatarKey = key
	return nil
}
