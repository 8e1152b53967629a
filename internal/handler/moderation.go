package handler

import (
	"context"
	"log/slog"
	"net/http"

	"studyvault/internal/domain/models"
	"studyvault/internal/httputil"
	"studyvault/internal/service"
)

// ModerationHandler handles the moderator-facing HTTP surface. Role
// enforcement happens here; the lifecycle service trusts its callers.
type ModerationHandler struct {
	lifecycle *service.LifecycleService
	logger    *slog.Logger
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(lifecycle *service.LifecycleService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// ListPending lists the moderation queue, oldest first
// GET /api/moderation/pending
func (h *ModerationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	materials, err := h.lifecycle.ListPending(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, materials)
}

// Approve publishes a pending material
// POST /api/moderation/{id}/approve
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.Approve)
}

// Reject starts the grace window on a pending material
// POST /api/moderation/{id}/reject
func (h *ModerationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.Reject)
}

// Restore returns a rejected material to the queue
// POST /api/moderation/{id}/restore
func (h *ModerationHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.Restore)
}

// Publish publishes a rejected material directly
// POST /api/moderation/{id}/publish
func (h *ModerationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.lifecycle.PublishDirectly)
}

func (h *ModerationHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*models.Material, error)) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	m, err := op(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toMaterialResponse(h.lifecycle, m))
}
