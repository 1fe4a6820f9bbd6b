package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id both as "sub" and as "id"; the browser client
// reads the latter.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func NewClaims(userID, jti string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// Who returns the user id, preferring "sub".
func (c *Claims) Who() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
