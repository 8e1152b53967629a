package handler

import (
	"log/slog"
	"net/http"

	"studyvault/internal/httputil"
	"studyvault/internal/service"
)

// ArchiveHandler exposes the purge audit trail to moderators
type ArchiveHandler struct {
	archive *service.ArchiveService
	logger  *slog.Logger
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(archive *service.ArchiveService, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archive: archive,
		logger:  logger,
	}
}

// List lists archive entries, most recently purged first
// GET /api/archive
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	entries, err := h.archive.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

// Get retrieves one archive entry by the purged material's id
// GET /api/archive/{id}
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	entry, err := h.archive.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}
