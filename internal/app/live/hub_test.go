package live

import (
	"sync"
	"testing"
	"time"
)

func recvSnapshot(t *testing.T, sub *Subscription) []byte {
	t.Helper()
	select {
	case snap, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription channel closed unexpectedly")
		}
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return nil
}

func TestTopicNames(t *testing.T) {
	if UserTopic("u1") != "user:u1" {
		t.Errorf("UserTopic = %q", UserTopic("u1"))
	}
	if ChannelTopic("a_b") != "chan:a_b" {
		t.Errorf("ChannelTopic = %q", ChannelTopic("a_b"))
	}

	id, ok := ParseChannelTopic("chan:a_b")
	if !ok || id != "a_b" {
		t.Errorf("ParseChannelTopic(chan:a_b) = (%q, %v)", id, ok)
	}
	if _, ok := ParseChannelTopic("user:u1"); ok {
		t.Error("user topic must not parse as a channel topic")
	}
	if _, ok := ParseChannelTopic("chan:"); ok {
		t.Error("empty channel id must not parse")
	}
}

func TestPublishDelivers(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicRoom)
	defer sub.Cancel()

	if n := h.Publish(TopicRoom, []byte("v1")); n != 1 {
		t.Fatalf("delivered = %d, want 1", n)
	}
	if got := string(recvSnapshot(t, sub)); got != "v1" {
		t.Fatalf("snapshot = %q, want v1", got)
	}
}

func TestPublishReplacesStaleSnapshot(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicRoom)
	defer sub.Cancel()

	// The subscriber never reads between publishes: only the newest snapshot
	// may survive in the buffer.
	h.Publish(TopicRoom, []byte("v1"))
	h.Publish(TopicRoom, []byte("v2"))
	h.Publish(TopicRoom, []byte("v3"))

	if got := string(recvSnapshot(t, sub)); got != "v3" {
		t.Fatalf("snapshot = %q, want v3", got)
	}
	select {
	case extra := <-sub.C:
		t.Fatalf("unexpected extra snapshot %q", extra)
	default:
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	h := NewHub()
	roomSub := h.Subscribe(TopicRoom)
	defer roomSub.Cancel()
	presenceSub := h.Subscribe(TopicPresence)
	defer presenceSub.Cancel()

	h.Publish(TopicRoom, []byte("room-snap"))

	if got := string(recvSnapshot(t, roomSub)); got != "room-snap" {
		t.Fatalf("room snapshot = %q", got)
	}
	select {
	case snap := <-presenceSub.C:
		t.Fatalf("presence subscriber received foreign snapshot %q", snap)
	default:
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicRoom)

	sub.Cancel()

	if h.HasSubscribers(TopicRoom) {
		t.Error("topic still has subscribers after cancel")
	}
	if n := h.Publish(TopicRoom, []byte("late")); n != 0 {
		t.Errorf("delivered = %d after cancel, want 0", n)
	}
	if _, ok := <-sub.C; ok {
		t.Error("channel must be closed after cancel")
	}

	// Second cancel is a no-op.
	sub.Cancel()
}

func TestHasSubscribers(t *testing.T) {
	h := NewHub()
	if h.HasSubscribers(TopicRoom) {
		t.Error("fresh hub must have no subscribers")
	}
	sub := h.Subscribe(TopicRoom)
	if !h.HasSubscribers(TopicRoom) {
		t.Error("subscriber not visible")
	}
	sub.Cancel()
	if h.HasSubscribers(TopicRoom) {
		t.Error("cancelled subscriber still visible")
	}
}

func TestShutdown(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicRoom)

	h.Shutdown()

	if _, ok := <-sub.C; ok {
		t.Error("channel must be closed after shutdown")
	}
	// Cancelling afterwards must not panic on the already-closed channel.
	sub.Cancel()

	late := h.Subscribe(TopicPresence)
	if _, ok := <-late.C; ok {
		t.Error("post-shutdown subscription must arrive closed")
	}
	if n := h.Publish(TopicRoom, []byte("late")); n != 0 {
		t.Errorf("delivered = %d after shutdown, want 0", n)
	}
}

func TestShutdownRacesCancel(t *testing.T) {
	// Connection teardown cancels subscriptions while the server's graceful
	// shutdown tears down the hub. Both paths must finish no matter how they
	// interleave.
	for i := 0; i < 200; i++ {
		h := NewHub()

		subs := make([]*Subscription, 64)
		for j := range subs {
			subs[j] = h.Subscribe(TopicRoom)
		}

		var wg sync.WaitGroup
		for _, sub := range subs {
			wg.Add(1)
			go func(sub *Subscription) {
				defer wg.Done()
				sub.Cancel()
			}(sub)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Shutdown()
		}()

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("iteration %d: shutdown and cancel wedged against each other", i)
		}

		for j, sub := range subs {
			if _, ok := <-sub.C; ok {
				t.Fatalf("iteration %d: subscription %d left open", i, j)
			}
		}
	}
}

func TestSeedReplacesBufferedEmission(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicRoom)
	defer sub.Cancel()

	// A publish lands before the subscriber seeds its opening snapshot. The
	// seed must win: whatever the subscriber reads first reflects state at
	// least as new as the seed.
	h.Publish(TopicRoom, []byte("older"))
	if !sub.Seed([]byte("opening")) {
		t.Fatal("seed rejected for a live subscription")
	}

	if got := string(recvSnapshot(t, sub)); got != "opening" {
		t.Fatalf("snapshot = %q, want opening", got)
	}
	select {
	case extra := <-sub.C:
		t.Fatalf("unexpected extra snapshot %q", extra)
	default:
	}
}

func TestSeedDeliversWhenBufferEmpty(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicPresence)
	defer sub.Cancel()

	if !sub.Seed([]byte("opening")) {
		t.Fatal("seed rejected for a live subscription")
	}
	if got := string(recvSnapshot(t, sub)); got != "opening" {
		t.Fatalf("snapshot = %q, want opening", got)
	}

	// Later publishes flow normally after the seed.
	h.Publish(TopicPresence, []byte("next"))
	if got := string(recvSnapshot(t, sub)); got != "next" {
		t.Fatalf("snapshot = %q, want next", got)
	}
}

func TestSeedAfterCancelIsNoOp(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe(TopicRoom)
	sub.Cancel()

	if sub.Seed([]byte("late")) {
		t.Error("seed must report failure after cancel")
	}

	h.Shutdown()
	other := h.Subscribe(TopicRoom)
	if other.Seed([]byte("late")) {
		t.Error("seed must report failure after shutdown")
	}
}
