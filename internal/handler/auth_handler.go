/*
Package handler provides HTTP handler functions for authentication and session management.
*/
package handler

import (
	"net/http"

	"awesomechat/internal/pkg/auth/jwt"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/req"
	"awesomechat/internal/pkg/resp"
)

type SignUpInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// sessionResponse shapes the payload returned by every successful auth call.
func sessionResponse(token string, id, email, displayName string) map[string]any {
	return map[string]any{
		"token": token,
		"user": map[string]any{
			"id":          id,
			"email":       email,
			"displayName": displayName,
		},
	}
}

// HandleSignUp processes the request to create a new account with email, password, and display name.
func HandleSignUp(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input SignUpInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		session, customErr := deps.Auth.SignUp(r.Context(), input.Email, input.Password, input.DisplayName)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u := session.User
		resp.RespondSuccess(w, r, sessionResponse(session.Token, u.ID, u.Email, u.DisplayName))
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies an email/password pair and issues a session token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		session, customErr := deps.Auth.SignInWithPassword(r.Context(), input.Email, input.Password)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u := session.User
		resp.RespondSuccess(w, r, sessionResponse(session.Token, u.ID, u.Email, u.DisplayName))
	}
}

type OAuthInput struct {
	AccessToken string `json:"accessToken"`
}

// HandleOAuthLogin exchanges a provider access token for a session. The browser
// completes the provider popup flow and posts the resulting token here.
func HandleOAuthLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input OAuthInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.AccessToken == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		session, customErr := deps.Auth.SignInWithOAuth(r.Context(), input.AccessToken)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u := session.User
		resp.RespondSuccess(w, r, sessionResponse(session.Token, u.ID, u.Email, u.DisplayName))
	}
}

// HandleLogout ends the user's presence. The token itself is stateless; the
// client discards it after this call.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		deps.Presence.ForceOffline(r.Context(), identity.ID)

		resp.RespondSuccess(w, r, nil)
	}
}
