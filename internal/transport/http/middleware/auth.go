package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-notes-nosql/internal/application/authorizer"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Headers of the refresh protocol. The client sends its refresh token with
// every request; a refreshed access token comes back on the response.
const (
	HeaderRefreshToken    = "X-Refresh-Token"
	HeaderNewAccessToken  = "X-New-Access-Token"
	HeaderNewRefreshToken = "X-New-Refresh-Token"
)

type Authorizer interface {
	Authorize(ctx context.Context, authHeader, presentedRefresh string, now time.Time) authorizer.Decision
}

// Auth returns middleware that runs the authorizer and injects the caller's
// user id into the context. Every denial is a plain 401.
func Auth(a Authorizer, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := a.Authorize(r.Context(), r.Header.Get("Authorization"), r.Header.Get(HeaderRefreshToken), now())
			if d.Effect == authorizer.Deny {
				slog.Debug("request denied", "path", r.URL.Path, "reason", d.Reason)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if d.NewAccessToken != "" {
				w.Header().Set(HeaderNewAccessToken, d.NewAccessToken)
			}
			if d.NewRefreshToken != "" {
				w.Header().Set(HeaderNewRefreshToken, d.NewRefreshToken)
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), d.UserID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext extracts the authenticated user id from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
