/*
Package oauth validates provider-issued access tokens.

The server-side counterpart of the provider popup flow: the browser completes
the provider handshake and hands the resulting access token to this backend,
which validates it against the provider's userinfo endpoint and extracts the
signed-in user's profile.
*/
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrCancelled indicates the provider rejected the token: the sign-in flow was
// abandoned, revoked, or never completed.
var ErrCancelled = errors.New("oauth: sign-in cancelled or rejected by provider")

// UserInfo is the profile the provider reports for a valid token.
type UserInfo struct {
	// Subject is the provider's stable identifier for the account.
	Subject string `json:"sub"`

	// Email is the verified account email.
	Email string `json:"email"`

	// Name is the profile display name. May be empty.
	Name string `json:"name"`
}

// Verifier resolves an access token to the provider profile behind it.
type Verifier interface {
	Verify(ctx context.Context, accessToken string) (*UserInfo, error)
}

// HTTPVerifier implements Verifier against an OpenID Connect userinfo endpoint.
type HTTPVerifier struct {
	// Endpoint is the provider's userinfo URL.
	Endpoint string

	// Client is the HTTP client used for the userinfo call. Defaults to a
	// client with a 10 second timeout.
	Client *http.Client
}

// NewHTTPVerifier returns a Verifier for the given userinfo endpoint.
func NewHTTPVerifier(endpoint string) *HTTPVerifier {
	return &HTTPVerifier{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := v.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrCancelled
	default:
		return nil, fmt.Errorf("userinfo request: unexpected status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}
	return &info, nil
}
