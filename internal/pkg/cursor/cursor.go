// Package cursor encodes the opaque resume tokens returned with paged note listings.
//
// A cursor names the last item a page returned, as its index key. The next
// page starts strictly after that key. Cursors are forward-only and carry no
// offsets, so they stay exact as long as the index order of already-emitted
// keys does not change.
package cursor

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-notes-nosql/internal/domain"
)

const (
	version = 1
	// maxLen caps what Decode will look at. Real cursors are well under this.
	maxLen = 2048
)

// Kind tags which index a cursor resumes.
type Kind string

const (
	// KindDate resumes the (user_id, note_date) secondary index. The key carries
	// note_id too, since DynamoDB needs the full item key to resume.
	KindDate Kind = "date"
	// KindOwner resumes the base table partition, ordered by note_id.
	KindOwner Kind = "owner"
)

// Key is a decoded resume position. Scope identifies the predicate the cursor
// was issued for; callers compare it before trusting the rest of the key.
type Key struct {
	Kind     Kind
	Scope    string
	UserID   string
	NoteDate int64
	NoteID   string
}

// NoteKey converts the cursor position to a store key.
func (k Key) NoteKey() domain.NoteKey {
	return domain.NoteKey{UserID: k.UserID, NoteDate: k.NoteDate, NoteID: k.NoteID}
}

type wire struct {
	V int    `json:"v"`
	K Kind   `json:"k"`
	S string `json:"s,omitempty"`
	U string `json:"u"`
	D int64  `json:"d,omitempty"`
	N string `json:"n"`
}

var enc = base64.RawURLEncoding.Strict()

// Encode serializes k. Owner cursors drop NoteDate since that index ignores it.
func Encode(k Key) string {
	w := wire{V: version, K: k.Kind, S: k.Scope, U: k.UserID, D: k.NoteDate, N: k.NoteID}
	if k.Kind == KindOwner {
		w.D = 0
	}
	var buf bytes.Buffer
	je := json.NewEncoder(&buf)
	je.SetEscapeHTML(false)
	_ = je.Encode(w) // fixed struct of strings and ints; cannot fail
	return enc.EncodeToString(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// Decode parses a cursor produced by Encode. An empty string means "start of
// sequence" and yields (nil, nil). Anything that does not parse back into a
// complete key yields an error wrapping domain.ErrInvalidCursor.
func Decode(s string) (*Key, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) > maxLen {
		return nil, invalid("too long")
	}
	raw, err := enc.DecodeString(s)
	if err != nil {
		return nil, invalid("bad encoding")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var w wire
	if err := dec.Decode(&w); err != nil {
		return nil, invalid("bad payload")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("trailing data")
	}
	if w.V != version {
		return nil, invalid("unsupported version")
	}
	switch w.K {
	case KindDate:
	case KindOwner:
		if w.D != 0 {
			return nil, invalid("owner cursor carries a date")
		}
	default:
		return nil, invalid("unknown kind")
	}
	if w.U == "" || w.N == "" {
		return nil, invalid("incomplete key")
	}
	return &Key{Kind: w.K, Scope: w.S, UserID: w.U, NoteDate: w.D, NoteID: w.N}, nil
}

func invalid(reason string) error {
	return fmt.Errorf("%s: %w", reason, domain.ErrInvalidCursor)
}
