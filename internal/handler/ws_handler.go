/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
authenticating the session token, upgrading the HTTP connection to WebSocket, attaching
the presence session, and initiating the live client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"awesomechat/internal/pkg/auth/jwt"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/limiter"
	"awesomechat/internal/pkg/logx"
	"awesomechat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process live feed connection requests.
// The session token travels in the `token` query parameter because browser WebSocket
// clients cannot set an Authorization header on the upgrade request.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			logx.Warn("WebSocket request rejected: Missing session token")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		payload, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
		if err != nil {
			logx.Warn("WebSocket request rejected: Invalid session token", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		// Session start: the user document is upserted with merge semantics on
		// every attach, mirroring the document-ensure the chat view performs.
		if err := deps.Users.EnsureDocument(r.Context(), payload.ID, payload.Email, payload.DisplayName); err != nil {
			logx.Error(err, "Failed to ensure user document on session start", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := newLiveClient(conn, payload.ID, deps)

		if err := deps.Presence.Attach(r.Context(), payload.ID); err != nil {
			conn.Close()
			return
		}

		go client.writePump()

		logx.Info("Live connection established", "client_id", payload.ID)

		client.readPump()
	}
}
