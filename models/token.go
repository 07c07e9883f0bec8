package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT session token with convenience accessors for
// authentication flows.
//
// It embeds [jwt.RegisteredClaims] so the type satisfies [jwt.Claims] and can
// be passed directly to jwt.ParseWithClaims. The user's numeric ID travels in
// the "sub" claim; the authorization role travels in a custom "role" claim.
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers.
// UserID is a cached, parsed copy of the subject claim.
type Token struct {
	jwt.RegisteredClaims

	Role Role `json:"role,omitempty"`

	SignedString string `json:"-"`
	UserID       int64  `json:"-"`
}

// Principal converts the parsed token into the explicit caller identity
// passed to service operations.
func (t Token) Principal() Principal {
	return Principal{UserID: t.UserID, Role: t.Role}
}
