package repositories

import (
	"context"

	"studyvault/internal/domain/models"
)

// CategoryRepository defines read access to categories. Category management
// lives outside this service; materials only reference and snapshot them.
type CategoryRepository interface {
	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id string) (*models.Category, error)

	// List lists all categories by name
	List(ctx context.Context) ([]models.Category, error)
}
