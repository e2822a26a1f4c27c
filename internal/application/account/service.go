package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/pkg/id"
	pkgtoken "github.com/go-notes-nosql/internal/pkg/token"
	"github.com/go-notes-nosql/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string, expiry int64) error
}

type TokenSigner interface {
	Sign(userID string, now time.Time) (string, error)
}

// AuthResult is the token pair handed out at signup and login.
type AuthResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error)
}

type ServiceDeps struct {
	Users              UserStore
	Tokens             TokenSigner
	RefreshTokenExpiry time.Duration
	BcryptCost         int
	Now                func() time.Time
}

type service struct {
	users      UserStore
	tokens     TokenSigner
	refreshTTL time.Duration
	cost       int
	now        func() time.Time
	newRefresh func() (string, error)
}

func NewService(d ServiceDeps) Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	cost := d.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &service{
		users:      d.Users,
		tokens:     d.Tokens,
		refreshTTL: d.RefreshTokenExpiry,
		cost:       cost,
		now:        now,
		newRefresh: pkgtoken.NewRefreshToken,
	}
}

// Signup creates an account and its first token pair. Email uniqueness is
// checked against the email index before the write.
func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	refresh, err := s.newRefresh()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:             id.New(),
		Email:              req.Email,
		PasswordHash:       string(hash),
		RefreshToken:       refresh,
		RefreshTokenExpiry: now.Add(s.refreshTTL).Unix(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	access, err := s.tokens.Sign(u.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh, UserID: u.UserID}, nil
}

// Login checks credentials and replaces the stored refresh token.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}

	refresh, err := s.newRefresh()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.users.UpdateRefreshToken(ctx, u.UserID, refresh, now.Add(s.refreshTTL).Unix()); err != nil {
		return nil, err
	}
	access, err := s.tokens.Sign(u.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh, UserID: u.UserID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
