package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/pkg/id"
	"github.com/go-notes-nosql/internal/pkg/timebucket"
	"github.com/go-notes-nosql/internal/pkg/validate"
)

// Store is the notes table plus its date index.
type Store interface {
	Index
	Put(ctx context.Context, n *domain.Note) error
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID string, updates map[string]interface{}) (*domain.Note, error)
	MarkDeleted(ctx context.Context, userID, noteID string) error
}

// Presigner issues read URLs for attachments.
type Presigner interface {
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateNoteRequest) (*domain.Note, error)
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
	ListBucket(ctx context.Context, userID string, b timebucket.Bucket, offsetMinutes int, cursor string, limit int) (*Page, error)
	Search(ctx context.Context, userID, query, cursor string, limit int) (*Page, error)
}

type ServiceDeps struct {
	Notes             Store
	Attachments       Presigner
	DownloadURLExpiry time.Duration
	MaxRounds         int
	Now               func() time.Time
}

type service struct {
	notes       Store
	attachments Presigner
	urlTTL      time.Duration
	planner     *Planner
	now         func() time.Time
}

func NewService(d ServiceDeps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		notes:       d.Notes,
		attachments: d.Attachments,
		urlTTL:      d.DownloadURLExpiry,
		planner:     NewPlanner(d.Notes, d.MaxRounds),
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateNoteRequest) (*domain.Note, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.AttachmentKey != nil && *req.AttachmentKey == "" {
		req.AttachmentKey = nil
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := checkAttachmentKey(userID, req.AttachmentKey); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	n := &domain.Note{
		UserID:        userID,
		NoteID:        id.New(),
		Title:         req.Title,
		Content:       req.Content,
		NoteDate:      *req.NoteDate,
		AttachmentKey: req.AttachmentKey,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.notes.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Get returns a live note with a short-lived attachment_url when it has an attachment.
func (s *service) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	n, err := s.notes.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	s.attachURL(ctx, n)
	return n, nil
}

func (s *service) Update(ctx context.Context, userID, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error) {
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.AttachmentKey != nil {
		if *req.AttachmentKey == "" {
			updates["attachment_key"] = nil
		} else {
			if err := checkAttachmentKey(userID, req.AttachmentKey); err != nil {
				return nil, err
			}
			updates["attachment_key"] = *req.AttachmentKey
		}
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrValidation)
	}
	n, err := s.notes.Update(ctx, userID, noteID, updates)
	if err != nil {
		return nil, err
	}
	s.attachURL(ctx, n)
	return n, nil
}

func (s *service) Delete(ctx context.Context, userID, noteID string) error {
	return s.notes.MarkDeleted(ctx, userID, noteID)
}

func (s *service) ListBucket(ctx context.Context, userID string, b timebucket.Bucket, offsetMinutes int, cursor string, limit int) (*Page, error) {
	rng := timebucket.Range(b, offsetMinutes, s.now())
	return s.planner.Page(ctx, userID, BucketPredicate(b, rng), cursor, limit)
}

func (s *service) Search(ctx context.Context, userID, query, cursor string, limit int) (*Page, error) {
	pred, err := TitleContains(query)
	if err != nil {
		return nil, err
	}
	return s.planner.Page(ctx, userID, pred, cursor, limit)
}

// attachURL is best effort; a note is still returned if presigning fails.
func (s *service) attachURL(ctx context.Context, n *domain.Note) {
	if n.AttachmentKey == nil || *n.AttachmentKey == "" || s.attachments == nil {
		return
	}
	url, err := s.attachments.PresignDownload(ctx, *n.AttachmentKey, s.urlTTL)
	if err != nil {
		slog.Warn("presign attachment", "note_id", n.NoteID, "err", err)
		return
	}
	n.AttachmentURL = &url
}

// checkAttachmentKey keeps users from linking objects under another user's prefix.
func checkAttachmentKey(userID string, key *string) error {
	if key == nil || *key == "" {
		return nil
	}
	if !strings.HasPrefix(*key, userID+"/") || strings.Contains(*key, "..") {
		return fmt.Errorf("attachment_key does not belong to caller: %w", domain.ErrValidation)
	}
	return nil
}
