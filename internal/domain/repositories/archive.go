package repositories

import (
	"context"

	"studyvault/internal/domain/models"
)

// ArchiveRepository defines data access operations for archive entries.
// Entries are keyed by the purged material's id, so an interrupted sweep that
// re-processes the same material must be able to write the snapshot again
// without tripping over a duplicate key - hence Upsert rather than Create.
type ArchiveRepository interface {
	// Upsert writes an archive entry, replacing any existing entry with the
	// same id
	Upsert(ctx context.Context, a *models.ArchivedMaterial) error

	// GetByID retrieves an archive entry by ID
	GetByID(ctx context.Context, id string) (*models.ArchivedMaterial, error)

	// List lists all archive entries, most recently deleted first
	List(ctx context.Context) ([]models.ArchivedMaterial, error)
}
