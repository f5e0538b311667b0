package room

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/logx"
	"awesomechat/internal/pkg/randx"
)

// Service validates and posts room messages and assembles the capped live view.
type Service struct {
	store  Store
	limit  int
	logger zerolog.Logger
}

// NewService returns a room service over the given store. A non-positive feed
// limit falls back to DefaultFeedLimit.
func NewService(store Store, limit int) *Service {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &Service{
		store:  store,
		limit:  limit,
		logger: logx.Logger().With().Str("component", "RoomService").Logger(),
	}
}

// FeedLimit returns the configured cap of the live room view.
func (s *Service) FeedLimit() int {
	return s.limit
}

// Post appends a message to the room log with a server-assigned timestamp.
// Either text or sticker must be present; sticker-only posts carry empty text.
func (s *Service) Post(ctx context.Context, senderID, senderName, text, sticker string) (*Message, *errs.CustomError) {
	text = strings.TrimSpace(text)
	if text == "" && sticker == "" {
		return nil, errs.NewError(errs.ErrMessageEmpty)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, errs.NewError(errs.ErrMessageContentTooLong)
	}

	m := &Message{
		ID:         randx.DocumentID(),
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		Sticker:    sticker,
	}

	if err := s.store.Insert(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("sender_id", senderID).Msg("Failed to append room message.")
		return nil, errs.NewError(errs.ErrWriteFailed)
	}
	return m, nil
}

// Recent returns the capped live view, oldest to newest. The store delivers
// newest-first; the reversal happens here on every call because each feed
// emission is a full snapshot replace.
func (s *Service) Recent(ctx context.Context) ([]Message, error) {
	newestFirst, err := s.store.Recent(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	oldestFirst := make([]Message, len(newestFirst))
	for i, m := range newestFirst {
		oldestFirst[len(newestFirst)-1-i] = m
	}
	return oldestFirst, nil
}
