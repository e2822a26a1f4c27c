// Package authorizer decides, per request and without in-process session
// state, whether a caller's bearer token admits them. An expired token may be
// exchanged once for a fresh one when the caller also presents the refresh
// token stored for that user.
package authorizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-notes-nosql/internal/domain"
	jwtinfra "github.com/go-notes-nosql/internal/infrastructure/jwt"
	pkgtoken "github.com/go-notes-nosql/internal/pkg/token"
)

type Effect int

const (
	Deny Effect = iota
	Allow
	AllowWithRefresh
)

func (e Effect) String() string {
	switch e {
	case Allow:
		return "allow"
	case AllowWithRefresh:
		return "allow_with_refresh"
	default:
		return "deny"
	}
}

// Deny reasons. They are for logs only; callers see a uniform unauthorized.
var (
	ErrAuthInvalid     = errors.New("access token invalid")
	ErrRefreshMissing  = errors.New("no refresh token")
	ErrRefreshMismatch = errors.New("refresh token mismatch")
	ErrRefreshExpired  = errors.New("refresh token expired")
)

// TokenCodec signs and verifies access tokens.
type TokenCodec interface {
	Sign(userID string, now time.Time) (string, error)
	Verify(token string, now time.Time) (*jwtinfra.Claims, error)
}

// SessionStore holds the single active refresh token of each user.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string, expiry int64) error
}

// Decision is the outcome of one Authorize call.
type Decision struct {
	Effect          Effect
	UserID          string
	NewAccessToken  string
	NewRefreshToken string
	Reason          error
}

// Err is nil for allowed requests and wraps domain.ErrUnauthorized otherwise.
func (d Decision) Err() error {
	if d.Effect != Deny {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrUnauthorized, d.Reason)
}

func deny(reason error) Decision {
	return Decision{Effect: Deny, Reason: reason}
}

type Options struct {
	// RotateRefresh issues a new refresh token on every successful refresh.
	RotateRefresh      bool
	RefreshTokenExpiry time.Duration
}

type Engine struct {
	codec      TokenCodec
	sessions   SessionStore
	opts       Options
	newRefresh func() (string, error)
}

func NewEngine(codec TokenCodec, sessions SessionStore, opts Options) *Engine {
	return &Engine{
		codec:      codec,
		sessions:   sessions,
		opts:       opts,
		newRefresh: pkgtoken.NewRefreshToken,
	}
}

// Authorize evaluates an Authorization header value and the refresh token the
// caller presented alongside it.
func (e *Engine) Authorize(ctx context.Context, authHeader, presentedRefresh string, now time.Time) Decision {
	raw, ok := BearerToken(authHeader)
	if !ok {
		return deny(fmt.Errorf("%w: missing bearer", ErrAuthInvalid))
	}

	claims, err := e.codec.Verify(raw, now)
	switch {
	case err == nil:
		return Decision{Effect: Allow, UserID: claims.UserID}
	case errors.Is(err, jwtinfra.ErrExpired):
		// The signature was valid, so the embedded user_id can be trusted.
		return e.refresh(ctx, claims.UserID, presentedRefresh, now)
	default:
		return deny(fmt.Errorf("%w: %w", ErrAuthInvalid, err))
	}
}

// refresh runs at most once per request. The access token it mints is handed
// back without being verified again.
func (e *Engine) refresh(ctx context.Context, userID, presented string, now time.Time) Decision {
	if presented == "" {
		return deny(ErrRefreshMissing)
	}

	u, err := e.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return deny(ErrRefreshMissing)
		}
		slog.Warn("session lookup failed during refresh", "user_id", userID, "err", err)
		return deny(fmt.Errorf("load session: %w", err))
	}
	if u.RefreshToken == "" {
		return deny(ErrRefreshMissing)
	}
	if !pkgtoken.Equal(presented, u.RefreshToken) {
		return deny(ErrRefreshMismatch)
	}
	if now.Unix() >= u.RefreshTokenExpiry {
		return deny(ErrRefreshExpired)
	}

	access, err := e.codec.Sign(userID, now)
	if err != nil {
		slog.Error("sign refreshed access token", "user_id", userID, "err", err)
		return deny(fmt.Errorf("sign access token: %w", err))
	}
	d := Decision{Effect: AllowWithRefresh, UserID: userID, NewAccessToken: access}

	if e.opts.RotateRefresh {
		d.NewRefreshToken = e.rotate(ctx, userID, now)
	}
	return d
}

// rotate replaces the stored refresh token with last-writer-wins semantics.
// On failure the old token stays valid and "" is returned.
func (e *Engine) rotate(ctx context.Context, userID string, now time.Time) string {
	rt, err := e.newRefresh()
	if err != nil {
		slog.Error("generate refresh token", "user_id", userID, "err", err)
		return ""
	}
	expiry := now.Add(e.opts.RefreshTokenExpiry).Unix()
	if err := e.sessions.UpdateRefreshToken(ctx, userID, rt, expiry); err != nil {
		slog.Warn("refresh token rotation not persisted", "user_id", userID, "err", err)
		return ""
	}
	return rt
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	if tok == "" || strings.ContainsAny(tok, " \t") {
		return "", false
	}
	return tok, true
}
