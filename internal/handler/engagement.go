package handler

import (
	"log/slog"
	"net/http"

	"studyvault/internal/httputil"
	"studyvault/internal/service"
)

// EngagementHandler handles like and comment HTTP requests
type EngagementHandler struct {
	engagement *service.EngagementService
	logger     *slog.Logger
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagement *service.EngagementService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{
		engagement: engagement,
		logger:     logger,
	}
}

// Like records the caller's like; liking twice is a no-op
// PUT /api/materials/{id}/like
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	if err := h.engagement.Like(r.Context(), r.PathValue("id"), claims.GetUserID()); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unlike removes the caller's like; removing an absent like is a no-op
// DELETE /api/materials/{id}/like
func (h *EngagementHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	if err := h.engagement.Unlike(r.Context(), r.PathValue("id"), claims.GetUserID()); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CountLikes returns the like count for a material
// GET /api/materials/{id}/likes
func (h *EngagementHandler) CountLikes(w http.ResponseWriter, r *http.Request) {
	count, err := h.engagement.CountLikes(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"likes": count})
}

type createCommentRequest struct {
	Body string `json:"body"`
}

// Comment adds a comment to a published material
// POST /api/materials/{id}/comments
func (h *EngagementHandler) Comment(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.engagement.Comment(r.Context(), r.PathValue("id"), claims.GetUserID(), claims.Name, req.Body)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// ListComments lists a material's comments, oldest first
// GET /api/materials/{id}/comments
func (h *EngagementHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.engagement.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, comments)
}
