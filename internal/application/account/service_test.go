package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-notes-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) UpdateRefreshToken(ctx context.Context, userID, token string, expiry int64) error {
	return m.Called(ctx, userID, token, expiry).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID string, now time.Time) (string, error) {
	args := m.Called(userID, now)
	return args.String(0), args.Error(1)
}

// --- builder ---

var clock = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newService(us *mockUserStore, sg *mockSigner) *service {
	svc := NewService(ServiceDeps{
		Users:              us,
		Tokens:             sg,
		RefreshTokenExpiry: 48 * time.Hour,
		BcryptCost:         bcrypt.MinCost,
		Now:                func() time.Time { return clock },
	}).(*service)
	svc.newRefresh = func() (string, error) { return "refresh-1", nil }
	return svc
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Signup ---

func TestSignup_Success(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	var created *domain.User
	us.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.User)
	}).Return(nil)
	sg := &mockSigner{}
	sg.On("Sign", mock.Anything, clock).Return("access-1", nil)

	res, err := newService(us, sg).Signup(context.Background(), domain.SignupRequest{
		Email:    "  Alice@Example.com ",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "access-1", res.AccessToken)
	assert.Equal(t, "refresh-1", res.RefreshToken)
	require.NotNil(t, created)
	assert.Equal(t, res.UserID, created.UserID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, clock.Add(48*time.Hour).Unix(), created.RefreshTokenExpiry)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")))
	sg.AssertCalled(t, "Sign", created.UserID, clock)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "bob@example.com").Return(&domain.User{UserID: "u1"}, nil)

	_, err := newService(us, &mockSigner{}).Signup(context.Background(), domain.SignupRequest{
		Email:    "bob@example.com",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	us.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_Validation(t *testing.T) {
	tests := []domain.SignupRequest{
		{Email: "not-an-email", Password: "secret1"},
		{Email: "a@b.co", Password: "12345"},
		{Email: "", Password: "secret1"},
	}
	for _, req := range tests {
		us := &mockUserStore{}
		_, err := newService(us, &mockSigner{}).Signup(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation, req.Email)
		us.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	}
}

func TestSignup_StoreUnavailable(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrUnavailable)

	_, err := newService(us, &mockSigner{}).Signup(context.Background(), domain.SignupRequest{Email: "a@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// --- Login ---

func TestLogin_Success_RotatesRefreshToken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "carol@example.com").Return(&domain.User{
		UserID:       "u7",
		PasswordHash: hashOf(t, "hunter22"),
		RefreshToken: "old",
	}, nil)
	us.On("UpdateRefreshToken", mock.Anything, "u7", "refresh-1", clock.Add(48*time.Hour).Unix()).Return(nil)
	sg := &mockSigner{}
	sg.On("Sign", "u7", clock).Return("access-7", nil)

	res, err := newService(us, sg).Login(context.Background(), domain.LoginRequest{
		Email:    "CAROL@example.com",
		Password: "hunter22",
	})

	require.NoError(t, err)
	assert.Equal(t, &AuthResult{AccessToken: "access-7", RefreshToken: "refresh-1", UserID: "u7"}, res)
	us.AssertExpectations(t)
}

func TestLogin_BadCredentialsLookTheSame(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "known@example.com").Return(&domain.User{UserID: "u1", PasswordHash: hashOf(t, "right-pw")}, nil)
	us.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)
	svc := newService(us, &mockSigner{})

	_, wrongPw := svc.Login(context.Background(), domain.LoginRequest{Email: "known@example.com", Password: "wrong-pw"})
	_, unknown := svc.Login(context.Background(), domain.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	assert.ErrorIs(t, wrongPw, domain.ErrUnauthorized)
	assert.ErrorIs(t, unknown, domain.ErrUnauthorized)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
	us.AssertNotCalled(t, "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_PersistFailure(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, mock.Anything).Return(&domain.User{UserID: "u1", PasswordHash: hashOf(t, "secret1")}, nil)
	us.On("UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom"))

	_, err := newService(us, &mockSigner{}).Login(context.Background(), domain.LoginRequest{Email: "a@b.co", Password: "secret1"})
	assert.EqualError(t, err, "boom")
}
