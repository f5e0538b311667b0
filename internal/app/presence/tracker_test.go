package presence

import (
	"context"
	"sync"
	"testing"

	"awesomechat/internal/app/directory"
)

type recordingNotifier struct {
	mu              sync.Mutex
	presenceChanges int
	userChanges     []string
}

func (n *recordingNotifier) PresenceChanged(context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.presenceChanges++
}

func (n *recordingNotifier) UserChanged(_ context.Context, userID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.userChanges = append(n.userChanges, userID)
}

func (n *recordingNotifier) presenceCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.presenceChanges
}

func newTestTracker(t *testing.T) (*Tracker, *directory.MemoryStore, *recordingNotifier) {
	t.Helper()
	users := directory.NewMemoryStore()
	err := users.Create(context.Background(), &directory.User{ID: "u1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	notifier := &recordingNotifier{}
	return NewTracker(users, notifier), users, notifier
}

func storedOnline(t *testing.T, users *directory.MemoryStore, id string) bool {
	t.Helper()
	u, err := users.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return u.Online
}

func TestAttachFlipsOnline(t *testing.T) {
	tracker, users, notifier := newTestTracker(t)
	ctx := context.Background()

	if err := tracker.Attach(ctx, "u1"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if !tracker.Online("u1") {
		t.Error("tracker must report the user online")
	}
	if !storedOnline(t, users, "u1") {
		t.Error("directory flag must be set")
	}
	if notifier.presenceCount() != 1 {
		t.Errorf("presence change fan-outs = %d, want 1", notifier.presenceCount())
	}
}

func TestRefCountAcrossSessions(t *testing.T) {
	tracker, users, notifier := newTestTracker(t)
	ctx := context.Background()

	// Two tabs: the second attach and the first detach change nothing visible.
	if err := tracker.Attach(ctx, "u1"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := tracker.Attach(ctx, "u1"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if notifier.presenceCount() != 1 {
		t.Errorf("second session must not fan out, got %d changes", notifier.presenceCount())
	}

	tracker.Detach(ctx, "u1")
	if !storedOnline(t, users, "u1") {
		t.Error("user must stay online while a session remains")
	}

	tracker.Detach(ctx, "u1")
	if tracker.Online("u1") {
		t.Error("tracker must report the user offline after the last detach")
	}
	if storedOnline(t, users, "u1") {
		t.Error("directory flag must be cleared after the last detach")
	}
	if notifier.presenceCount() != 2 {
		t.Errorf("presence change fan-outs = %d, want 2", notifier.presenceCount())
	}
}

func TestDetachWithoutAttach(t *testing.T) {
	tracker, users, _ := newTestTracker(t)

	// Teardown paths can race; a spurious detach must not underflow.
	tracker.Detach(context.Background(), "u1")
	if storedOnline(t, users, "u1") {
		t.Error("user was never attached but is marked online")
	}
	if tracker.Online("u1") {
		t.Error("tracker reports a session that never existed")
	}
}

func TestConcurrentSessionsLeaveFlagConsistent(t *testing.T) {
	tracker, users, _ := newTestTracker(t)
	ctx := context.Background()

	// Fast attach/detach pairs from many connections at once. Whatever the
	// interleaving, the directory flag must agree with the session count
	// once all sessions are gone.
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if err := tracker.Attach(ctx, "u1"); err != nil {
					t.Errorf("Attach failed: %v", err)
					return
				}
				tracker.Detach(ctx, "u1")
			}
		}()
	}
	wg.Wait()

	if tracker.Online("u1") {
		t.Error("tracker holds sessions after every pair completed")
	}
	if storedOnline(t, users, "u1") {
		t.Error("directory flag stuck online with zero sessions")
	}
}

func TestForceOffline(t *testing.T) {
	tracker, users, _ := newTestTracker(t)
	ctx := context.Background()

	if err := tracker.Attach(ctx, "u1"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := tracker.Attach(ctx, "u1"); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Sign-out ends presence even with stray sessions still open.
	tracker.ForceOffline(ctx, "u1")

	if tracker.Online("u1") {
		t.Error("tracker must drop all sessions on force offline")
	}
	if storedOnline(t, users, "u1") {
		t.Error("directory flag must be cleared on force offline")
	}
}
