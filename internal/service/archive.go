package service

import (
	"context"
	"log/slog"

	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
)

// ArchiveService exposes read access to the audit trail of purged materials.
// Writes belong to the sweeper alone.
type ArchiveService struct {
	archive repositories.ArchiveRepository
	logger  *slog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(archive repositories.ArchiveRepository, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{
		archive: archive,
		logger:  logger,
	}
}

// List lists all archive entries, most recently deleted first.
func (s *ArchiveService) List(ctx context.Context) ([]models.ArchivedMaterial, error) {
	return s.archive.List(ctx)
}

// Get retrieves one archive entry by the purged material's id.
func (s *ArchiveService) Get(ctx context.Context, id string) (*models.ArchivedMaterial, error) {
	return s.archive.GetByID(ctx, id)
}
