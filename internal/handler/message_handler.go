/*
Package handler provides HTTP handler functions for the shared room log and
private pair channels.
*/
package handler

import (
	"net/http"

	"awesomechat/internal/pkg/auth/jwt"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/logx"
	"awesomechat/internal/pkg/req"
	"awesomechat/internal/pkg/resp"
)

type RoomMessageInput struct {
	Text    string `json:"text"`
	Sticker string `json:"sticker"`
}

// HandlePostRoomMessage appends a message to the shared room log and refreshes
// the room feed for all live subscribers.
func HandlePostRoomMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input RoomMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		senderName := identity.DisplayName
		if senderName == "" {
			senderName = identity.Email
		}

		m, customErr := deps.Rooms.Post(r.Context(), identity.ID, senderName, input.Text, input.Sticker)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Feeds.RoomChanged(r.Context())

		resp.RespondSuccess(w, r, map[string]any{"message": m})
	}
}

// HandleRecentMessages returns the capped room view, oldest to newest.
func HandleRecentMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		messages, err := deps.Rooms.Recent(r.Context())
		if err != nil {
			logx.Error(err, "Failed to load room messages")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": messages})
	}
}

type PrivateMessageInput struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// HandleSendPrivateMessage writes a message into the sender/receiver pair
// channel and refreshes that channel's live feed.
func HandleSendPrivateMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PrivateMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.ReceiverID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		m, customErr := deps.Private.Send(r.Context(), identity.ID, input.ReceiverID, input.Text)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		deps.Feeds.ChannelChanged(r.Context(), m.ChannelID)

		resp.RespondSuccess(w, r, map[string]any{
			"message":   m,
			"channelId": m.ChannelID,
		})
	}
}

// HandlePrivateHistory returns the full pair channel between the session user
// and the user named by the `with` query parameter, oldest to newest.
func HandlePrivateHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		withID := r.URL.Query().Get("with")
		if withID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.Private.History(r.Context(), identity.ID, withID)
		if err != nil {
			logx.Error(err, "Failed to load private history", "user_id", identity.ID, "with", withID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": messages})
	}
}
