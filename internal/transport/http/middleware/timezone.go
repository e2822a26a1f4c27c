package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-notes-nosql/internal/pkg/timebucket"
)

const offsetKey contextKey = "tz_offset"

// HeaderTimezone carries the caller's zone: minutes east of UTC or an IANA name.
const HeaderTimezone = "X-User-Timezone"

// Timezone resolves X-User-Timezone once per request. Bad values fall back to UTC.
func Timezone(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			off := timebucket.ParseOffset(r.Header.Get(HeaderTimezone), now())
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), offsetKey, off)))
		})
	}
}

// OffsetFromContext returns the caller's offset in minutes, 0 when unset.
func OffsetFromContext(ctx context.Context) int {
	off, _ := ctx.Value(offsetKey).(int)
	return off
}
