package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   int64    `json:"userId"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	jwt.RegisteredClaims
}

// Caller projects the claims onto the identity used by report providers.
func (c *JWTClaims) Caller() Caller {
	if c == nil {
		return Caller{}
	}
	return Caller{UserID: c.UserID, Role: c.Role}
}
