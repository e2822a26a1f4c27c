// Package timebucket partitions note dates into past, present and future
// relative to the caller's local day.
package timebucket

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-notes-nosql/internal/domain"
)

// Bucket is a note's position relative to the caller's current local day.
type Bucket string

const (
	Past    Bucket = "past"
	Present Bucket = "present"
	Future  Bucket = "future"
)

// SecondsPerDay is fixed; offsets are plain deltas with no DST rules applied.
const SecondsPerDay int64 = 86400

// MaxOffsetMinutes bounds accepted offsets to the real-world range (UTC-14..UTC+14).
const MaxOffsetMinutes = 14 * 60

func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case Past, Present, Future:
		return b, nil
	}
	return "", fmt.Errorf("unknown time bucket %q: %w", s, domain.ErrValidation)
}

// DayStart returns the unix second at which the local day containing now begins,
// for a zone offsetMinutes east of UTC.
func DayStart(now time.Time, offsetMinutes int) int64 {
	off := int64(offsetMinutes) * 60
	return floorDiv(now.Unix()+off, SecondsPerDay)*SecondsPerDay - off
}

// Classify places noteDate (unix seconds) into a bucket. The present day is
// the half-open interval [dayStart, dayStart+86400).
func Classify(noteDate int64, offsetMinutes int, now time.Time) Bucket {
	start := DayStart(now, offsetMinutes)
	switch {
	case noteDate < start:
		return Past
	case noteDate < start+SecondsPerDay:
		return Present
	default:
		return Future
	}
}

// Range returns the note_date interval covered by b. It agrees with Classify:
// Range(b).Contains(d) iff Classify(d) == b.
func Range(b Bucket, offsetMinutes int, now time.Time) domain.DateRange {
	start := DayStart(now, offsetMinutes)
	end := start + SecondsPerDay
	switch b {
	case Past:
		return domain.DateRange{To: &start}
	case Present:
		return domain.DateRange{From: &start, To: &end}
	default:
		return domain.DateRange{From: &end}
	}
}

// ParseOffset reads a caller-supplied timezone. It accepts an integer minute
// offset east of UTC or an IANA zone name, resolved to its offset at now.
// Anything else, including an empty value, yields 0 (UTC).
func ParseOffset(raw string, now time.Time) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < -MaxOffsetMinutes || n > MaxOffsetMinutes {
			return 0
		}
		return n
	}
	if strings.EqualFold(raw, "local") {
		return 0
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return 0
	}
	_, secs := now.In(loc).Zone()
	return secs / 60
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
