package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/haku19602/beetlefactory-back/apperr"
)

// TokenTTL is the validity window of every issued token.
const TokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Signer mints and parses the signed bearer tokens. A token alone never grants
// access; SessionManager additionally requires it to be present in the owning
// account's token rows.
type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Sign issues a token bound to userID, valid for TokenTTL.
func (s *Signer) Sign(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Unknown(err)
	}
	return signed, nil
}

// Parse verifies the signature and returns the claims along with whether the
// token is past its expiry. An expired but well-signed token still returns
// claims: expiry-exempt endpoints (extend, logout) need the identity inside it.
func (s *Signer) Parse(tokenString string) (*Claims, bool, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err == nil {
		return claims, false, nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) && claims.UserID != "" {
		return claims, true, nil
	}
	return nil, false, apperr.ErrInvalidToken
}
