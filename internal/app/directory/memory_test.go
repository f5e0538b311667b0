package directory

import (
	"context"
	"errors"
	"testing"
)

func seedUser(t *testing.T, s *MemoryStore, id, email, displayName string) {
	t.Helper()
	err := s.Create(context.Background(), &User{ID: id, Email: email, DisplayName: displayName})
	if err != nil {
		t.Fatalf("seed %s failed: %v", id, err)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	seedUser(t, s, "u1", "alice@example.com", "Alice")

	err := s.Create(context.Background(), &User{ID: "u2", Email: "alice@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestEnsureDocumentMerge(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// First ensure creates the document with empty sets.
	if err := s.EnsureDocument(ctx, "u1", "alice@example.com", "Alice"); err != nil {
		t.Fatalf("EnsureDocument create failed: %v", err)
	}
	u, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if u.Friends == nil || u.FriendRequests == nil || u.CustomStickers == nil {
		t.Error("created document must carry empty sets, not nil")
	}

	// Sets survive a re-ensure (session start upsert).
	if err := s.AddSticker(ctx, "u1", "sticker-1"); err != nil {
		t.Fatalf("AddSticker failed: %v", err)
	}
	if err := s.EnsureDocument(ctx, "u1", "alice@example.com", ""); err != nil {
		t.Fatalf("EnsureDocument merge failed: %v", err)
	}
	u, _ = s.Get(ctx, "u1")
	if u.DisplayName != "Alice" {
		t.Errorf("empty display name must not clobber the stored one, got %q", u.DisplayName)
	}
	if len(u.CustomStickers) != 1 {
		t.Errorf("sticker set lost on merge, got %v", u.CustomStickers)
	}
}

func TestAddFriendRequestIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@example.com", "A")
	seedUser(t, s, "u2", "b@example.com", "B")

	for i := 0; i < 3; i++ {
		if err := s.AddFriendRequest(ctx, "u2", "u1"); err != nil {
			t.Fatalf("AddFriendRequest failed: %v", err)
		}
	}

	u2, _ := s.Get(ctx, "u2")
	if len(u2.FriendRequests) != 1 {
		t.Fatalf("repeat requests must leave one pending entry, got %v", u2.FriendRequests)
	}
}

func TestAcceptFriendRequest(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@example.com", "A")
	seedUser(t, s, "u2", "b@example.com", "B")

	if err := s.AddFriendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("AddFriendRequest failed: %v", err)
	}
	if err := s.AcceptFriendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("AcceptFriendRequest failed: %v", err)
	}

	u1, _ := s.Get(ctx, "u1")
	u2, _ := s.Get(ctx, "u2")
	if !u1.IsFriend("u2") || !u2.IsFriend("u1") {
		t.Error("friendship must be bidirectional after accept")
	}
	if len(u2.FriendRequests) != 0 {
		t.Errorf("pending request must be removed, got %v", u2.FriendRequests)
	}

	// A second accept has no pending entry to consume.
	err := s.AcceptFriendRequest(ctx, "u2", "u1")
	if !errors.Is(err, ErrNoPendingRequest) {
		t.Fatalf("got %v, want ErrNoPendingRequest", err)
	}
}

func TestOnlineListing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@example.com", "Alice")
	seedUser(t, s, "u2", "b@example.com", "Bob")
	seedUser(t, s, "u3", "c@example.com", "Carol")

	for _, id := range []string{"u3", "u1"} {
		if err := s.SetPresence(ctx, id, true); err != nil {
			t.Fatalf("SetPresence failed: %v", err)
		}
	}

	online, err := s.Online(ctx)
	if err != nil {
		t.Fatalf("Online failed: %v", err)
	}
	if len(online) != 2 {
		t.Fatalf("online count = %d, want 2", len(online))
	}
	if online[0].ID != "u1" || online[1].ID != "u3" {
		t.Errorf("online listing out of order: %v, %v", online[0].ID, online[1].ID)
	}

	if err := s.SetPresence(ctx, "u1", false); err != nil {
		t.Fatalf("SetPresence failed: %v", err)
	}
	online, _ = s.Online(ctx)
	if len(online) != 1 || online[0].ID != "u3" {
		t.Errorf("offline user still listed: %v", online)
	}
}

func TestGetManyPreservesOrderAndSkipsMissing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@example.com", "A")
	seedUser(t, s, "u2", "b@example.com", "B")

	users, err := s.GetMany(ctx, []string{"u2", "missing", "u1"})
	if err != nil {
		t.Fatalf("GetMany failed: %v", err)
	}
	if len(users) != 2 || users[0].ID != "u2" || users[1].ID != "u1" {
		t.Errorf("GetMany = %v, want [u2, u1]", users)
	}
}

func TestUserName(t *testing.T) {
	u := User{Email: "alice@example.com"}
	if u.Name() != "alice@example.com" {
		t.Errorf("Name() without display name = %q", u.Name())
	}
	u.DisplayName = "Alice"
	if u.Name() != "Alice" {
		t.Errorf("Name() with display name = %q", u.Name())
	}
}
