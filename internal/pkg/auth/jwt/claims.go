package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for Awesome Chat.
// It includes standard claims required by the JWT specification and the custom claims
// necessary for identifying the session user within the chat system.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the stable user identifier issued by the auth gateway at sign-up.
	ID string `json:"id"`

	// Email is the account email the session was established with.
	Email string `json:"email"`

	// DisplayName is the user's display name at token issue time. It is denormalized
	// into the token for cheap access; the directory document stays authoritative.
	DisplayName string `json:"display_name"`
}
