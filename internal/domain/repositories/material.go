package repositories

import (
	"context"
	"time"

	"studyvault/internal/domain/models"
)

// MaterialRepository defines data access operations for materials.
type MaterialRepository interface {
	// Create inserts a new material
	Create(ctx context.Context, m *models.Material) error

	// GetByID retrieves a material by ID
	GetByID(ctx context.Context, id string) (*models.Material, error)

	// ListByOwner lists all of a user's materials regardless of visibility,
	// newest first
	ListByOwner(ctx context.Context, ownerID string) ([]models.Material, error)

	// ListPublished lists published materials, newest first. An empty
	// categoryID means all categories.
	ListPublished(ctx context.Context, categoryID string) ([]models.Material, error)

	// ListByVisibility lists materials in a given moderation state, oldest
	// first (moderation queue order)
	ListByVisibility(ctx context.Context, v models.Visibility) ([]models.Material, error)

	// ListExpiredRejected lists rejected materials whose rejection timestamp
	// is at or before the cutoff
	ListExpiredRejected(ctx context.Context, cutoff time.Time) ([]models.Material, error)

	// TransitionVisibility moves a material from one visibility to another as
	// a single compare-and-swap, setting rejected_at to the given value (nil
	// clears it). Returns false when no row matched id+from, which the caller
	// resolves to NotFound or InvalidTransition by re-reading.
	TransitionVisibility(ctx context.Context, id string, from, to models.Visibility, rejectedAt *time.Time) (bool, error)

	// IncrementDownloadCount atomically bumps the download counter and
	// returns the new value
	IncrementDownloadCount(ctx context.Context, id string) (int64, error)

	// Delete removes a material row
	Delete(ctx context.Context, id string) error
}
