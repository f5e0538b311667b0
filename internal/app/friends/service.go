/*
Package friends implements the friend graph controller.

The graph is a state machine per ordered pair (A, B): None transitions to
RequestSent when A asks, and RequestSent transitions to Friends when B
accepts. There is no decline and no unfriend; a pending request is accepted
or ignored forever. Acceptance commits both halves of the bidirectional edge
as one atomic store operation, so the graph is never observed asymmetric.
*/
package friends

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/logx"
)

// Service drives friend graph transitions on top of the user directory.
type Service struct {
	users  directory.UserStore
	logger zerolog.Logger
}

// NewService returns a friend graph controller over the given directory.
func NewService(users directory.UserStore) *Service {
	return &Service{
		users:  users,
		logger: logx.Logger().With().Str("component", "FriendService").Logger(),
	}
}

// SendRequest adds `from` to `to`'s pending request set. Idempotent: a repeat
// request leaves exactly one pending entry. Requests to oneself or to an
// existing friend are rejected.
func (s *Service) SendRequest(ctx context.Context, from, to string) *errs.CustomError {
	if from == to {
		return errs.NewError(errs.ErrSelfFriendRequest)
	}

	target, err := s.users.Get(ctx, to)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to load request target.")
		return errs.NewError(errs.ErrUnknown)
	}
	if target.IsFriend(from) {
		return errs.NewError(errs.ErrAlreadyFriends)
	}

	if err := s.users.AddFriendRequest(ctx, to, from); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return errs.NewError(errs.ErrUserNotFound)
		}
		s.logger.Error().Err(err).Str("from", from).Str("to", to).Msg("Failed to record friend request.")
		return errs.NewError(errs.ErrWriteFailed)
	}
	return nil
}

// AcceptRequest turns a pending request from `requester` into a confirmed
// friendship: requester joins accepter's friends, the pending entry is
// removed, and accepter joins requester's friends — all in one atomic commit.
func (s *Service) AcceptRequest(ctx context.Context, accepter, requester string) *errs.CustomError {
	if err := s.users.AcceptFriendRequest(ctx, accepter, requester); err != nil {
		switch {
		case errors.Is(err, directory.ErrNoPendingRequest):
			return errs.NewError(errs.ErrRequestNotFound)
		case errors.Is(err, directory.ErrNotFound):
			return errs.NewError(errs.ErrUserNotFound)
		default:
			s.logger.Error().Err(err).
				Str("accepter", accepter).
				Str("requester", requester).
				Msg("Failed to commit friend edge.")
			return errs.NewError(errs.ErrWriteFailed)
		}
	}
	return nil
}
