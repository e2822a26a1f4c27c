package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/go-notes-nosql/internal/application/account"
	"github.com/go-notes-nosql/internal/application/note"
	"github.com/go-notes-nosql/internal/application/upload"
	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/pkg/timebucket"
	"github.com/go-notes-nosql/internal/transport/http/middleware"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockNoteSvc struct{ mock.Mock }

func (m *mockNoteSvc) Create(ctx context.Context, userID string, req domain.CreateNoteRequest) (*domain.Note, error) {
	args := m.Called(ctx, userID, req)
	if n, _ := args.Get(0).(*domain.Note); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoteSvc) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if n, _ := args.Get(0).(*domain.Note); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoteSvc) Update(ctx context.Context, userID, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error) {
	args := m.Called(ctx, userID, noteID, req)
	if n, _ := args.Get(0).(*domain.Note); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoteSvc) Delete(ctx context.Context, userID, noteID string) error {
	return m.Called(ctx, userID, noteID).Error(0)
}
func (m *mockNoteSvc) ListBucket(ctx context.Context, userID string, b timebucket.Bucket, offsetMinutes int, cursor string, limit int) (*note.Page, error) {
	args := m.Called(ctx, userID, b, offsetMinutes, cursor, limit)
	if p, _ := args.Get(0).(*note.Page); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoteSvc) Search(ctx context.Context, userID, query, cursor string, limit int) (*note.Page, error) {
	args := m.Called(ctx, userID, query, cursor, limit)
	if p, _ := args.Get(0).(*note.Page); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAccountSvc struct{ mock.Mock }

func (m *mockAccountSvc) Signup(ctx context.Context, req domain.SignupRequest) (*account.AuthResult, error) {
	args := m.Called(ctx, req)
	if res, _ := args.Get(0).(*account.AuthResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountSvc) Login(ctx context.Context, req domain.LoginRequest) (*account.AuthResult, error) {
	args := m.Called(ctx, req)
	if res, _ := args.Get(0).(*account.AuthResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUploadSvc struct{ mock.Mock }

func (m *mockUploadSvc) Presign(ctx context.Context, userID string, req domain.UploadRequest) (*upload.Ticket, error) {
	args := m.Called(ctx, userID, req)
	if t, _ := args.Get(0).(*upload.Ticket); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

// authedReq builds a request as if middleware.Auth had admitted userID.
func authedReq(method, target, userID string, body interface{}) *http.Request {
	var r *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		r = httptest.NewRequest(method, target, bytes.NewReader(b))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

// withChiParam injects a chi URL param into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withChiID(r *http.Request, id string) *http.Request { return withChiParam(r, "id", id) }
