package handler

import (
	"log/slog"
	"net/http"

	"studyvault/internal/domain/models"
	"studyvault/internal/httputil"
	"studyvault/internal/service"
)

// MaterialHandler handles material HTTP requests
type MaterialHandler struct {
	lifecycle *service.LifecycleService
	uploads   *service.UploadService
	logger    *slog.Logger
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(lifecycle *service.LifecycleService, uploads *service.UploadService, logger *slog.Logger) *MaterialHandler {
	return &MaterialHandler{
		lifecycle: lifecycle,
		uploads:   uploads,
		logger:    logger,
	}
}

// HealthCheck responds 200 for load balancer probes
// GET /health
func (h *MaterialHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Submit creates a new material in the moderation queue
// POST /api/materials
func (h *MaterialHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req service.SubmitMaterialRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = claims.GetUserID()
	req.OwnerName = claims.Name

	m, err := h.lifecycle.Submit(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, m)
}

// ListPublished lists published materials
// GET /api/materials?category={id}
func (h *MaterialHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	materials, err := h.lifecycle.ListPublished(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, materials)
}

// ListMine lists the caller's own materials in every moderation state,
// including the grace hours remaining on rejected ones
// GET /api/materials/mine
func (h *MaterialHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	materials, err := h.lifecycle.ListByOwner(r.Context(), claims.GetUserID())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toMaterialResponses(h.lifecycle, materials))
}

// Get retrieves a single material
// GET /api/materials/{id}
func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	m, err := h.lifecycle.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	// Unpublished materials are visible only to their owner and moderators;
	// everyone else gets the same 404 as for an unknown id.
	if m.Visibility != models.VisibilityPublished &&
		m.OwnerID != claims.GetUserID() && !claims.IsAdmin() {
		httputil.RespondError(w, http.StatusNotFound, "material "+id+": not found")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toMaterialResponse(h.lifecycle, m))
}

// downloadResponse carries the updated count and, when the remote file still
// exists, a direct link to it.
type downloadResponse struct {
	Material    materialResponse `json:"material"`
	DownloadURL string           `json:"download_url,omitempty"`
}

// Download counts a download and returns the direct file link
// POST /api/materials/{id}/download
func (h *MaterialHandler) Download(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireClaims(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	m, err := h.lifecycle.RegisterDownload(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := downloadResponse{Material: toMaterialResponse(h.lifecycle, m)}

	// The remote file may be gone independently of our record; a missing
	// link is not an error, the response just carries no URL.
	if m.DriveFileID != nil {
		meta, err := h.uploads.FileLink(r.Context(), *m.DriveFileID)
		if err != nil {
			h.logger.Warn("file link unavailable",
				"material_id", m.ID,
				"file_id", *m.DriveFileID,
				"error", err,
			)
		} else {
			resp.DownloadURL = meta.WebContentLink
		}
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// ListCategories lists the categories materials can be filed under
// GET /api/categories
func (h *MaterialHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.lifecycle.ListCategories(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, categories)
}
