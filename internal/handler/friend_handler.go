/*
Package handler provides HTTP handler functions for the friend graph:
sending friend requests and accepting pending ones.
*/
package handler

import (
	"net/http"

	"awesomechat/internal/pkg/auth/jwt"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/req"
	"awesomechat/internal/pkg/resp"
)

type FriendRequestInput struct {
	UserID string `json:"userId"`
}

// HandleSendFriendRequest records a pending friend request on the target user
// and pushes a fresh snapshot to the target's live feed.
func HandleSendFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input FriendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.UserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Friends.SendRequest(r.Context(), identity.ID, input.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Feeds.UserChanged(r.Context(), input.UserID)

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleAcceptFriendRequest turns a pending request into a mutual friendship.
// Both sides of the edge change in one store operation, so both user feeds
// get a snapshot push.
func HandleAcceptFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input FriendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.UserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Friends.AcceptRequest(r.Context(), identity.ID, input.UserID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Feeds.UserChanged(r.Context(), identity.ID)
		deps.Feeds.UserChanged(r.Context(), input.UserID)

		resp.RespondSuccess(w, r, nil)
	}
}
