package repositories

import (
	"context"

	"studyvault/internal/domain/models"
)

// EngagementRepository defines data access for likes and comments. Both are
// dependent rows: they never outlive the material they reference, and the
// sweeper removes them through DeleteByMaterial before deleting the material.
type EngagementRepository interface {
	// AddLike inserts a like; returns ErrConflict if the user already liked
	// the material
	AddLike(ctx context.Context, l *models.Like) error

	// RemoveLike deletes a user's like; no error if none exists
	RemoveLike(ctx context.Context, materialID, userID string) error

	// CountLikes returns the number of likes on a material
	CountLikes(ctx context.Context, materialID string) (int64, error)

	// AddComment inserts a comment
	AddComment(ctx context.Context, c *models.Comment) error

	// ListComments lists a material's comments, oldest first
	ListComments(ctx context.Context, materialID string) ([]models.Comment, error)

	// DeleteByMaterial removes all likes and comments referencing a material
	DeleteByMaterial(ctx context.Context, materialID string) error
}
