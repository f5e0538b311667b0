/*
Package live implements the in-process live subscription hub.

A subscription is a push-based feed over a named topic. Every emission carries
the full current snapshot of the topic's query result, never a delta; a
subscriber that falls behind has its stale buffered snapshot dropped and
replaced with the newest one. Each subscription returns an explicit
cancellation handle, and topics are independent of one another: there is no
ordering guarantee across topics, only within one.
*/
package live

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"awesomechat/internal/pkg/logx"
)

// Well-known topic names and prefixes.
const (
	// TopicRoom carries the capped room feed snapshot.
	TopicRoom = "room"

	// TopicPresence carries the set of currently online users.
	TopicPresence = "presence"

	// userTopicPrefix scopes a user's own directory document.
	userTopicPrefix = "user:"

	// channelTopicPrefix scopes one private pair channel.
	channelTopicPrefix = "chan:"
)

// UserTopic returns the topic carrying the given user's own document.
func UserTopic(userID string) string {
	return userTopicPrefix + userID
}

// ChannelTopic returns the topic carrying the given pair channel's log.
func ChannelTopic(channelID string) string {
	return channelTopicPrefix + channelID
}

// ParseChannelTopic extracts the channel id from a channel topic name.
func ParseChannelTopic(topic string) (string, bool) {
	channelID, ok := strings.CutPrefix(topic, channelTopicPrefix)
	if !ok || channelID == "" {
		return "", false
	}
	return channelID, true
}

// Subscription is a live feed over one topic. Snapshots arrive on C until
// Cancel is called, after which C is closed and no further emissions leak
// into the subscriber.
type Subscription struct {
	// C delivers full topic snapshots, newest wins.
	C <-chan []byte

	topic string
	ch    chan []byte
	hub   *Hub
	once  sync.Once
}

// Topic returns the topic this subscription observes.
func (s *Subscription) Topic() string {
	return s.topic
}

// Cancel detaches the subscription from the hub and closes C. Safe to call
// more than once and safe to call concurrently with Publish.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.detach(s)
	})
}

// Hub fans topic snapshots out to subscribers.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	closed bool
	logger zerolog.Logger
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*Subscription]struct{}),
		logger: logx.Logger().With().Str("component", "LiveHub").Logger(),
	}
}

// Subscribe attaches a new subscription to the topic. The caller owns the
// returned handle and must Cancel it when its owning scope is torn down or
// when it switches to a different topic key.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan []byte, 1), hub: h}
	sub.C = sub.ch

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.ch)
		return sub
	}

	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// HasSubscribers reports whether anyone currently observes the topic. Snapshot
// producers use it to skip recomputing feeds nobody is watching.
func (h *Hub) HasSubscribers(topic string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic]) > 0
}

// Publish delivers a snapshot to every subscriber of the topic. A subscriber
// whose buffer still holds an unconsumed snapshot has it replaced: stale full
// snapshots carry no information once a newer one exists.
func (h *Hub) Publish(topic string, snapshot []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0
	}

	delivered := 0
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- snapshot:
			delivered++
		default:
			// Buffer full: drop the stale snapshot, then retry with the new
			// one. A concurrent reader may win either race; both outcomes
			// leave the subscriber holding a current snapshot.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snapshot:
				delivered++
			default:
			}
		}
	}
	return delivered
}

// Seed delivers a snapshot to this subscription alone, through the same
// coalescing buffer Publish uses. Subscribers use it for the first emission
// after attaching: going through the buffer means a snapshot published
// between Subscribe and Seed gets replaced instead of being delivered after
// the newer one. No-op once the subscription is cancelled or the hub is
// shut down.
func (s *Subscription) Seed(snapshot []byte) bool {
	return s.hub.seed(s, snapshot)
}

func (h *Hub) seed(sub *Subscription, snapshot []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return false
	}
	if _, ok := h.topics[sub.topic][sub]; !ok {
		return false
	}

	select {
	case sub.ch <- snapshot:
	default:
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snapshot:
		default:
		}
	}
	return true
}

// detach removes the subscription and closes its channel.
func (h *Hub) detach(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[sub.topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, sub.topic)
		}
	}
	close(sub.ch)
}

// Shutdown cancels every subscription and rejects further ones. Cancellation
// happens outside the hub lock: a subscriber's own Cancel may already hold its
// once and be waiting in detach for the lock, so touching the once while
// locked would wedge both sides.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true

	var subs []*Subscription
	for _, topicSubs := range h.topics {
		for sub := range topicSubs {
			subs = append(subs, sub)
		}
	}
	h.topics = make(map[string]map[*Subscription]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}

	h.logger.Info().Int("subscriptions", len(subs)).Msg("Live hub shut down.")
}
