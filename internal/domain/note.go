package domain

import "time"

// MaxNoteDate is the latest accepted note_date (2100-01-01T00:00:00Z).
const MaxNoteDate int64 = 4102444800

// Note is a user's dated note. Notes are never physically removed; IsDeleted hides them.
type Note struct {
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	NoteID        string    `json:"note_id" dynamodbav:"note_id"`
	Title         string    `json:"title" dynamodbav:"title"`
	Content       string    `json:"content" dynamodbav:"content"`
	NoteDate      int64     `json:"note_date" dynamodbav:"note_date"` // unix seconds
	AttachmentKey *string   `json:"attachment_key,omitempty" dynamodbav:"attachment_key,omitempty"`
	AttachmentURL *string   `json:"attachment_url,omitempty" dynamodbav:"-"`
	IsDeleted     bool      `json:"is_deleted" dynamodbav:"is_deleted"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// Key returns the note's position in the date index.
func (n *Note) Key() NoteKey {
	return NoteKey{UserID: n.UserID, NoteDate: n.NoteDate, NoteID: n.NoteID}
}

// NoteKey identifies a row in the notes table and its date index.
// NoteDate is ignored by scans over the base table.
type NoteKey struct {
	UserID   string
	NoteDate int64
	NoteID   string
}

// DateRange bounds a date-index query. From is inclusive, To is exclusive;
// a nil bound is open.
type DateRange struct {
	From *int64
	To   *int64
}

// Contains reports whether ts lies inside the range.
func (r DateRange) Contains(ts int64) bool {
	if r.From != nil && ts < *r.From {
		return false
	}
	if r.To != nil && ts >= *r.To {
		return false
	}
	return true
}

type CreateNoteRequest struct {
	Title         string  `json:"title" validate:"required"`
	Content       string  `json:"content"`
	NoteDate      *int64  `json:"note_date" validate:"required,min=0,max=4102444800"`
	AttachmentKey *string `json:"attachment_key" validate:"omitempty,max=1024"`
}

// UpdateNoteRequest carries optional fields. note_date cannot be changed.
type UpdateNoteRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1"`
	Content       *string `json:"content"`
	AttachmentKey *string `json:"attachment_key" validate:"omitempty,max=1024"`
}

type UploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}
