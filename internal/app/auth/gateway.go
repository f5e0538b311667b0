/*
Package auth implements the authentication gateway.

It wraps password sign-in, OAuth sign-in, sign-up, and sign-out, and issues the
session tokens the rest of the API authenticates with. Every successful sign-up
or first OAuth sign-in upserts the user's directory document with merge
semantics so pre-existing friend data is never clobbered.
*/
package auth

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"awesomechat/internal/app/directory"
	"awesomechat/internal/pkg/auth/jwt"
	"awesomechat/internal/pkg/auth/oauth"
	"awesomechat/internal/pkg/errs"
	"awesomechat/internal/pkg/logx"
	"awesomechat/internal/pkg/randx"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Session is the result of a successful sign-in or sign-up.
type Session struct {
	// Token is the signed JWT the client presents on subsequent requests.
	Token string

	// User is the directory document of the signed-in account.
	User *directory.User
}

// Gateway authenticates users against the directory and an OAuth provider.
type Gateway struct {
	users    directory.UserStore
	verifier oauth.Verifier
	secret   string
	logger   zerolog.Logger
}

// NewGateway returns an auth gateway over the given directory store.
func NewGateway(users directory.UserStore, verifier oauth.Verifier, jwtSecret string) *Gateway {
	return &Gateway{
		users:    users,
		verifier: verifier,
		secret:   jwtSecret,
		logger:   logx.Logger().With().Str("component", "AuthGateway").Logger(),
	}
}

func (g *Gateway) issueSession(u *directory.User) (*Session, *errs.CustomError) {
	payload := &jwt.Payload{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}

	token, err := jwt.GenerateToken(payload, g.secret, jwt.SessionExpiration)
	if err != nil {
		g.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to sign session token.")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	return &Session{Token: token, User: u}, nil
}

// SignUp creates a password account and its directory document, then issues a
// session. The document starts with empty friend data.
func (g *Gateway) SignUp(ctx context.Context, email, password, displayName string) (*Session, *errs.CustomError) {
	if !emailRegex.MatchString(email) {
		return nil, errs.NewError(errs.ErrInvalidEmail)
	}

	passwordLen := utf8.RuneCountInString(password)
	if passwordLen < 6 || passwordLen > 50 {
		return nil, errs.NewError(errs.ErrInvalidPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		g.logger.Error().Err(err).Msg("Failed to hash password.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	u := &directory.User{
		ID:             randx.DocumentID(),
		Email:          email,
		DisplayName:    displayName,
		PasswordHash:   string(hash),
		Friends:        []string{},
		FriendRequests: []string{},
		CustomStickers: []string{},
	}

	if err := g.users.Create(ctx, u); err != nil {
		if errors.Is(err, directory.ErrDuplicateEmail) {
			logx.Warn("Sign-up conflict: email already registered.", "email", email)
			return nil, errs.NewError(errs.ErrEmailInUse)
		}
		g.logger.Error().Err(err).Msg("Failed to create user document.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return g.issueSession(u)
}

// SignInWithPassword verifies an email/password pair and issues a session.
// A missing account and a wrong password are indistinguishable to the caller.
func (g *Gateway) SignInWithPassword(ctx context.Context, email, password string) (*Session, *errs.CustomError) {
	u, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			logx.Warn("Sign-in failed: unknown email.", "email", email)
			return nil, errs.NewError(errs.ErrInvalidCredentials)
		}
		g.logger.Error().Err(err).Msg("Failed to load account for sign-in.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if u.PasswordHash == "" {
		// OAuth-only account; there is no password to match.
		return nil, errs.NewError(errs.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logx.Warn("Sign-in failed: password mismatch.", "email", email)
		return nil, errs.NewError(errs.ErrInvalidCredentials)
	}

	return g.issueSession(u)
}

// SignInWithOAuth validates a provider access token and issues a session. The
// first OAuth sign-in creates the directory document; later ones merge into it
// without touching friend data. Providers that report no profile name get a
// random fallback display name.
func (g *Gateway) SignInWithOAuth(ctx context.Context, accessToken string) (*Session, *errs.CustomError) {
	info, err := g.verifier.Verify(ctx, accessToken)
	if err != nil {
		if errors.Is(err, oauth.ErrCancelled) {
			return nil, errs.NewError(errs.ErrSignInCancelled)
		}
		g.logger.Error().Err(err).Msg("OAuth token verification failed.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	u, err := g.users.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		// Existing account: merge the provider profile into the document.
		if err := g.users.EnsureDocument(ctx, u.ID, info.Email, info.Name); err != nil {
			g.logger.Error().Err(err).Str("user_id", u.ID).Msg("Failed to merge OAuth profile.")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		if info.Name != "" {
			u.DisplayName = info.Name
		}

	case errors.Is(err, directory.ErrNotFound):
		name := info.Name
		if name == "" {
			if name, err = randx.DisplayName(); err != nil {
				name = "Chatter"
			}
		}

		u = &directory.User{
			ID:             randx.DocumentID(),
			Email:          info.Email,
			DisplayName:    name,
			Friends:        []string{},
			FriendRequests: []string{},
			CustomStickers: []string{},
		}
		if err := g.users.Create(ctx, u); err != nil {
			g.logger.Error().Err(err).Msg("Failed to create OAuth user document.")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		g.logger.Info().Str("user_id", u.ID).Msg("Created account from OAuth sign-in.")

	default:
		g.logger.Error().Err(err).Msg("Failed to load account for OAuth sign-in.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return g.issueSession(u)
}
