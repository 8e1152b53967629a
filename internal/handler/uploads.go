package handler

import (
	"log/slog"
	"net/http"

	"studyvault/internal/httputil"
	"studyvault/internal/service"
)

// UploadHandler handles upload session HTTP requests
type UploadHandler struct {
	uploads *service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		logger:  logger,
	}
}

// CreateSession provisions a Drive upload session for the caller
// POST /api/uploads
func (h *UploadHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req service.CreateUploadSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = claims.GetUserID()

	session, err := h.uploads.CreateSession(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, session)
}

// ListAcceptedTypes lists the MIME types the upload policy allows
// GET /api/uploads/types
func (h *UploadHandler) ListAcceptedTypes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.uploads.AcceptedTypes())
}
