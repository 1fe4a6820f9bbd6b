package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Signer struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl, leeway time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, leeway: leeway, now: time.Now}
}

// Sign returns an HS256 token for userID that expires after the signer's TTL.
func (s *Signer) Sign(userID string) (string, error) {
	claims := NewClaims(userID, uuid.NewString(), s.now(), s.ttl)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies the HS256 signature and expiry (with leeway) and returns
// the claims.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(s.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Who() == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
