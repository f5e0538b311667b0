/*
Package handler provides HTTP handler functions for user profiles, presence listing,
and the custom sticker set.
*/
package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/pkg/auth/jwt"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/logx"
	"awesomechat/internal/pkg/randx"
	"awesomechat/internal/pkg/req"
	"awesomechat/internal/pkg/resp"
)

const avatarPresignDuration = 15 * time.Minute

// HandleGetProfile returns the session user's directory document projection.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		u, err := deps.Users.Get(r.Context(), identity.ID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "Failed to load profile", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		avatarURL := ""
		if u.AvatarKey != "" && deps.StorageService != nil {
			avatarURL, err = deps.StorageService.PresignDownload(r.Context(), u.AvatarKey, avatarPresignDuration)
			if err != nil {
				logx.Error(err, "Failed to presign avatar download", "user_id", identity.ID)
				avatarURL = ""
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": map[string]any{
				"id":             u.ID,
				"email":          u.Email,
				"displayName":    u.DisplayName,
				"online":         u.Online,
				"friends":        u.Friends,
				"friendRequests": u.FriendRequests,
				"customStickers": u.CustomStickers,
				"avatar":         avatarURL,
			},
		})
	}
}

// HandleOnlineUsers returns all currently online users except the session user.
// The exclusion happens here, at the consumer boundary, not in the store query.
func HandleOnlineUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		online, err := deps.Users.Online(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list online users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		users := make([]directory.OnlineUser, 0, len(online))
		for _, u := range online {
			if u.ID == identity.ID {
				continue
			}
			users = append(users, directory.OnlineUser{ID: u.ID, Username: u.Name()})
		}

		resp.RespondSuccess(w, r, map[string]any{"users": users})
	}
}

// HandleUploadSticker accepts a multipart image upload, encodes it into a
// self-contained inline data URL, and appends it to the user's sticker set.
// The payload lives inside the user document; there is no object storage for
// stickers, so the size cap guards the document against unbounded growth.
func HandleUploadSticker(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("sticker")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}
		defer file.Close()

		if header.Size > int64(deps.Config.MaxStickerBytes) {
			resp.RespondError(w, r, errs.NewError(errs.ErrStickerTooLarge))
			return
		}

		imageBytes, err := io.ReadAll(io.LimitReader(file, int64(deps.Config.MaxStickerBytes)+1))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}
		if len(imageBytes) > deps.Config.MaxStickerBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrStickerTooLarge))
			return
		}

		mimeType := http.DetectContentType(imageBytes)
		if !strings.HasPrefix(mimeType, "image/") {
			resp.RespondError(w, r, errs.NewError(errs.ErrStickerInvalid))
			return
		}

		u, err := deps.Users.Get(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "Failed to load user for sticker upload", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if len(u.CustomStickers) >= deps.Config.MaxStickerCount {
			resp.RespondError(w, r, errs.NewError(errs.ErrStickerLimitReached))
			return
		}

		payload := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))

		if err := deps.Users.AddSticker(r.Context(), identity.ID, payload); err != nil {
			logx.Error(err, "Failed to append sticker", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrWriteFailed))
			return
		}

		deps.Feeds.UserChanged(r.Context(), identity.ID)

		resp.RespondSuccess(w, r, map[string]any{"sticker": payload})
	}
}

type PresignAvatarInput struct {
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatarURL issues a presigned upload URL for the user's avatar
// and records the new object key on the profile.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.StorageService == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !strings.HasPrefix(input.MimeType, "image/") || input.FileSize <= 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		u, err := deps.Users.Get(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "Failed to load user for avatar presign", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		key := fmt.Sprintf("avatars/%s/%s", identity.ID, randx.DocumentID())

		uploadURL, err := deps.StorageService.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, avatarPresignDuration)
		if err != nil {
			logx.Error(err, "Failed to presign avatar upload", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.Users.SetAvatarKey(r.Context(), identity.ID, key); err != nil {
			logx.Error(err, "Failed to record avatar key", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrWriteFailed))
			return
		}

		// Best effort: the replaced object is unreachable once the key changes.
		if u.AvatarKey != "" && u.AvatarKey != key {
			if err := deps.StorageService.Delete(r.Context(), u.AvatarKey); err != nil {
				logx.Warn("Failed to delete replaced avatar object", "key", u.AvatarKey)
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": uploadURL,
			"key":       key,
		})
	}
}
