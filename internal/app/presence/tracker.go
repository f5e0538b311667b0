/*
Package presence tracks which users currently hold an active session.

Presence is driven by connection lifecycle, not by client goodwill: the first
attached connection flips a user online, and losing the last one — cleanly or
through an abrupt disconnect — flips them offline. A user with two open tabs
stays online until both are gone.
*/
package presence

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/pkg/logx"
)

// Notifier receives presence change events for live feed fan-out.
type Notifier interface {
	PresenceChanged(ctx context.Context)
	UserChanged(ctx context.Context, userID string)
}

// Tracker ref-counts sessions per user and keeps the directory's online flag
// in sync with the count.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]int

	users    directory.UserStore
	notifier Notifier
	logger   zerolog.Logger
}

// NewTracker returns a tracker over the given directory.
func NewTracker(users directory.UserStore, notifier Notifier) *Tracker {
	return &Tracker{
		sessions: make(map[string]int),
		users:    users,
		notifier: notifier,
		logger:   logx.Logger().With().Str("component", "PresenceTracker").Logger(),
	}
}

// Attach registers one session for the user. The first session flips the
// online flag and fans out the presence change.
func (t *Tracker) Attach(ctx context.Context, userID string) error {
	t.mu.Lock()
	t.sessions[userID]++
	if t.sessions[userID] != 1 {
		t.mu.Unlock()
		return nil
	}
	// The flag write stays inside the critical section: a detach racing this
	// attach must not get its offline write ordered after the online one.
	err := t.users.SetPresence(ctx, userID, true)
	t.mu.Unlock()

	if err != nil {
		t.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to set presence online.")
		return err
	}

	t.logger.Info().Str("user_id", userID).Msg("User came online.")
	t.notifier.PresenceChanged(ctx)
	t.notifier.UserChanged(ctx, userID)
	return nil
}

// Detach releases one session for the user. Losing the last session flips the
// online flag off. Called from connection teardown paths of every kind, so an
// abrupt disconnect clears presence the same way a clean sign-out does.
func (t *Tracker) Detach(ctx context.Context, userID string) {
	t.mu.Lock()
	if t.sessions[userID] > 0 {
		t.sessions[userID]--
	}
	if t.sessions[userID] != 0 {
		t.mu.Unlock()
		return
	}
	delete(t.sessions, userID)
	err := t.users.SetPresence(ctx, userID, false)
	t.mu.Unlock()

	if err != nil {
		t.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to set presence offline.")
		return
	}

	t.logger.Info().Str("user_id", userID).Msg("User went offline.")
	t.notifier.PresenceChanged(ctx)
	t.notifier.UserChanged(ctx, userID)
}

// ForceOffline clears every session for the user and flips the flag off.
// Used by explicit sign-out, which ends the user's presence even if stray
// connections linger.
func (t *Tracker) ForceOffline(ctx context.Context, userID string) {
	t.mu.Lock()
	delete(t.sessions, userID)
	err := t.users.SetPresence(ctx, userID, false)
	t.mu.Unlock()

	if err != nil {
		t.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to clear presence on sign-out.")
		return
	}
	t.notifier.PresenceChanged(ctx)
	t.notifier.UserChanged(ctx, userID)
}

// Online reports whether the tracker currently holds a session for the user.
func (t *Tracker) Online(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions[userID] > 0
}
