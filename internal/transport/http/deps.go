package http

import (
	"context"
	"time"

	"github.com/go-notes-nosql/internal/application/note"
	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/transport/http/handler"
	jwtinfra "github.com/go-notes-nosql/internal/infrastructure/jwt"
)

// UserRepository is the minimal interface the router requires from a user store.
// It backs both the account service and the refresh lookup in the authorizer.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string, expiry int64) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Users   UserRepository
	Notes   note.Store
	Objects ObjectStore
	Tokens  *jwtinfra.Codec

	// Health backs /health-check/ready; nil reports ready.
	Health handler.ReadinessChecker

	// Now defaults to time.Now.
	Now func() time.Time
}
