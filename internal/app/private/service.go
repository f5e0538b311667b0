package private

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/logx"
	"awesomechat/internal/pkg/randx"
)

// Service writes and reads pair channels. Sends are restricted to confirmed
// friends; the friend list is consulted on the sender's own document.
type Service struct {
	store  Store
	users  directory.UserStore
	logger zerolog.Logger
}

// NewService returns a private message service over the given stores.
func NewService(store Store, users directory.UserStore) *Service {
	return &Service{
		store:  store,
		users:  users,
		logger: logx.Logger().With().Str("component", "PrivateService").Logger(),
	}
}

// Send writes a message into the channel derived from the two participant ids.
// The store assigns the timestamp. Returns the channel id alongside the message
// so callers can refresh the matching live feed.
func (s *Service) Send(ctx context.Context, senderID, receiverID, text string) (*Message, *errs.CustomError) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.NewError(errs.ErrMessageEmpty)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, errs.NewError(errs.ErrMessageContentTooLong)
	}

	sender, err := s.users.Get(ctx, senderID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("sender_id", senderID).Msg("Failed to load sender document.")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	if !sender.IsFriend(receiverID) {
		return nil, errs.NewError(errs.ErrNotFriends)
	}

	m := &Message{
		ID:        randx.DocumentID(),
		ChannelID: ChannelID(senderID, receiverID),
		SenderID:  senderID,
		Text:      text,
	}

	if err := s.store.Append(ctx, m); err != nil {
		s.logger.Error().Err(err).
			Str("channel_id", m.ChannelID).
			Str("sender_id", senderID).
			Msg("Failed to append private message.")
		return nil, errs.NewError(errs.ErrWriteFailed)
	}
	return m, nil
}

// History returns the pair channel between the two users, oldest to newest.
func (s *Service) History(ctx context.Context, userA, userB string) ([]Message, error) {
	return s.store.History(ctx, ChannelID(userA, userB))
}

// ChannelHistory returns the log of an already-derived channel id.
func (s *Service) ChannelHistory(ctx context.Context, channelID string) ([]Message, error) {
	return s.store.History(ctx, channelID)
}
