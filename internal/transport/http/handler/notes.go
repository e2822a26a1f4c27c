package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-notes-nosql/internal/application/note"
	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/pkg/timebucket"
	"github.com/go-notes-nosql/internal/transport/http/middleware"
)

// NoteHandler handles note CRUD and the paged listings.
type NoteHandler struct {
	svc          note.Service
	defaultLimit int
	maxLimit     int
}

func NewNoteHandler(svc note.Service, defaultLimit, maxLimit int) *NoteHandler {
	return &NoteHandler{svc: svc, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	n, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	n, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	n, err := h.svc.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "note deleted"})
}

// List serves one time bucket, using the offset resolved by middleware.Timezone.
func (h *NoteHandler) List(b timebucket.Bucket) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, err := parseLimit(r, h.defaultLimit, h.maxLimit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		off := middleware.OffsetFromContext(r.Context())
		page, err := h.svc.ListBucket(r.Context(), userID, b, off, r.URL.Query().Get("cursor"), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, err := parseLimit(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	page, err := h.svc.Search(r.Context(), userID, q.Get("q"), q.Get("cursor"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
