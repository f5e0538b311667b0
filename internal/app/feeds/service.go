/*
Package feeds binds store queries to live hub topics.

After every mutation the affected topic's full snapshot is recomputed from the
store and published; subscribers never receive deltas. Publish failures are
logged and swallowed: a missed emission is repaired by the next mutation or by
the initial snapshot of a fresh subscription, and no mutation is rolled back
because its fan-out failed.
*/
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/app/live"
	"awesomechat/internal/app/private"
	"awesomechat/internal/app/room"
	"awesomechat/internal/pkg/logx"
)

// UserRef is the id/name projection used when the user document snapshot
// resolves friend and request ids to names.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserSnapshot is the push projection of a user's own directory document.
type UserSnapshot struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"displayName"`
	Online         bool      `json:"online"`
	Friends        []UserRef `json:"friends"`
	FriendRequests []UserRef `json:"friendRequests"`
	CustomStickers []string  `json:"customStickers"`
}

// Service recomputes and publishes topic snapshots.
type Service struct {
	hub     *live.Hub
	users   directory.UserStore
	rooms   *room.Service
	private *private.Service
	logger  zerolog.Logger
}

// NewService returns a feeds service publishing into the given hub.
func NewService(hub *live.Hub, users directory.UserStore, rooms *room.Service, priv *private.Service) *Service {
	return &Service{
		hub:     hub,
		users:   users,
		rooms:   rooms,
		private: priv,
		logger:  logx.Logger().With().Str("component", "Feeds").Logger(),
	}
}

// Hub exposes the underlying hub for subscription management.
func (s *Service) Hub() *live.Hub {
	return s.hub
}

// Snapshot builds the full current snapshot for a topic. Used both for the
// initial emission of a new subscription and for post-mutation publishes.
func (s *Service) Snapshot(ctx context.Context, topic string) ([]byte, error) {
	switch {
	case topic == live.TopicRoom:
		messages, err := s.rooms.Recent(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(messages)

	case topic == live.TopicPresence:
		online, err := s.users.Online(ctx)
		if err != nil {
			return nil, err
		}
		refs := make([]directory.OnlineUser, 0, len(online))
		for _, u := range online {
			refs = append(refs, directory.OnlineUser{ID: u.ID, Username: u.Name()})
		}
		return json.Marshal(refs)

	case strings.HasPrefix(topic, live.UserTopic("")):
		id := strings.TrimPrefix(topic, live.UserTopic(""))
		snap, err := s.userSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(snap)

	case strings.HasPrefix(topic, live.ChannelTopic("")):
		channelID := strings.TrimPrefix(topic, live.ChannelTopic(""))
		messages, err := s.private.ChannelHistory(ctx, channelID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(messages)

	default:
		return nil, fmt.Errorf("feeds: unknown topic %q", topic)
	}
}

// userSnapshot projects a user document, resolving friend and pending request
// ids to display names in one batched directory read.
func (s *Service) userSnapshot(ctx context.Context, id string) (*UserSnapshot, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resolve := func(ids []string) ([]UserRef, error) {
		users, err := s.users.GetMany(ctx, ids)
		if err != nil {
			return nil, err
		}
		refs := make([]UserRef, 0, len(users))
		for _, ref := range users {
			refs = append(refs, UserRef{ID: ref.ID, Username: ref.Name()})
		}
		return refs, nil
	}

	friends, err := resolve(u.Friends)
	if err != nil {
		return nil, err
	}
	requests, err := resolve(u.FriendRequests)
	if err != nil {
		return nil, err
	}

	return &UserSnapshot{
		ID:             u.ID,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Online:         u.Online,
		Friends:        friends,
		FriendRequests: requests,
		CustomStickers: u.CustomStickers,
	}, nil
}

// publish recomputes and emits one topic. Skips topics nobody observes.
func (s *Service) publish(ctx context.Context, topic string) {
	if !s.hub.HasSubscribers(topic) {
		return
	}

	snapshot, err := s.Snapshot(ctx, topic)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", topic).Msg("Failed to build feed snapshot.")
		return
	}
	s.hub.Publish(topic, snapshot)
}

// RoomChanged re-emits the capped room feed.
func (s *Service) RoomChanged(ctx context.Context) {
	s.publish(ctx, live.TopicRoom)
}

// PresenceChanged re-emits the online user set.
func (s *Service) PresenceChanged(ctx context.Context) {
	s.publish(ctx, live.TopicPresence)
}

// UserChanged re-emits one user's own document feed.
func (s *Service) UserChanged(ctx context.Context, userID string) {
	s.publish(ctx, live.UserTopic(userID))
}

// ChannelChanged re-emits one pair channel's log.
func (s *Service) ChannelChanged(ctx context.Context, channelID string) {
	s.publish(ctx, live.ChannelTopic(channelID))
}
