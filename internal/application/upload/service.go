package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/pkg/id"
	"github.com/go-notes-nosql/internal/pkg/validate"
)

var imageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/bmp":     true,
	"image/svg+xml": true,
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true, ".svg": true,
}

type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// Ticket tells the client where to PUT the file and which key to attach to a note.
type Ticket struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int64  `json:"expires_in"`
}

type Service interface {
	Presign(ctx context.Context, userID string, req domain.UploadRequest) (*Ticket, error)
}

type service struct {
	store  Presigner
	expiry time.Duration
	now    func() time.Time
	suffix func() string
}

func NewService(store Presigner, expiry time.Duration) Service {
	return &service{store: store, expiry: expiry, now: time.Now, suffix: id.Short}
}

func (s *service) Presign(ctx context.Context, userID string, req domain.UploadRequest) (*Ticket, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if strings.ContainsAny(req.Filename, "/\\\x00") || strings.Contains(req.Filename, "..") {
		return nil, fmt.Errorf("filename contains invalid characters: %w", domain.ErrValidation)
	}
	ext := path.Ext(req.Filename)
	if !imageExts[strings.ToLower(ext)] {
		return nil, fmt.Errorf("filename must have an image extension: %w", domain.ErrValidation)
	}
	if !imageTypes[strings.ToLower(req.ContentType)] {
		return nil, fmt.Errorf("image type %q is not supported: %w", req.ContentType, domain.ErrValidation)
	}

	key := fmt.Sprintf("%s/%d/%s%s", userID, s.now().Unix(), s.suffix(), ext)
	url, err := s.store.PresignUpload(ctx, key, req.ContentType, s.expiry)
	if err != nil {
		return nil, err
	}
	return &Ticket{UploadURL: url, ObjectKey: key, ExpiresIn: int64(s.expiry / time.Second)}, nil
}
