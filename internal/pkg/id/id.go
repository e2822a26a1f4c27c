package id

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, so notes scanned in key order come back oldest first.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Short returns an 8-character random hex fragment for object key suffixes.
func Short() string {
	return uuid.NewString()[:8]
}
