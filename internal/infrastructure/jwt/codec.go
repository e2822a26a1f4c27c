package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// Verification outcomes. ErrExpired is the only one the caller may recover
// from, because the signature was checked before expiry was evaluated.
var (
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 access tokens. It performs no I/O.
type Codec struct {
	secret []byte
	expiry time.Duration
}

func NewCodec(secret string, expiry time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("invalid access token expiry %s", expiry)
	}
	return &Codec{secret: []byte(secret), expiry: expiry}, nil
}

// Expiry is the lifetime given to newly signed tokens.
func (c *Codec) Expiry() time.Duration { return c.expiry }

func (c *Codec) Sign(userID string, now time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("sign token: empty user id")
	}
	claims := Claims{
		UserID: userID,
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the token against now. On ErrExpired the returned claims are
// populated and trustworthy; on any other error they are nil.
func (c *Codec) Verify(tokenStr string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		if claims.UserID == "" || claims.Type != accessTokenType {
			return nil, ErrMalformed
		}
		return claims, ErrExpired
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.UserID == "" || claims.Type != accessTokenType {
		return nil, ErrMalformed
	}
	return claims, nil
}
