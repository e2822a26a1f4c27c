package handler

import (
	"net/http"

	"github.com/go-notes-nosql/internal/application/upload"
	"github.com/go-notes-nosql/internal/domain"
	"github.com/go-notes-nosql/internal/transport/http/middleware"
)

// UploadHandler issues presigned attachment uploads.
type UploadHandler struct {
	svc upload.Service
}

func NewUploadHandler(svc upload.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	ticket, err := h.svc.Presign(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
