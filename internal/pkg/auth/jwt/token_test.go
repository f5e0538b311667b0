package jwt

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	payload := &Payload{
		ID:          "u1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}

	token, err := GenerateToken(payload, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	parsed, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if parsed.ID != "u1" || parsed.Email != "alice@example.com" || parsed.DisplayName != "Alice" {
		t.Errorf("parsed payload = %+v", parsed)
	}
	if parsed.Issuer != TokenIssuer {
		t.Errorf("issuer = %q, want %q", parsed.Issuer, TokenIssuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(&Payload{ID: "u1"}, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Error("token signed with a different secret must not validate")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{ID: "u1"}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ParseToken(token, "secret"); err == nil {
		t.Error("expired token must not validate")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-token", "secret"); err == nil {
		t.Error("malformed token must not validate")
	}
}
