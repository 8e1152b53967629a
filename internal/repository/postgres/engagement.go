package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
)

// PostgresEngagementRepository implements the EngagementRepository interface
type PostgresEngagementRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(config *RepositoryConfig) repositories.EngagementRepository {
	return &PostgresEngagementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// AddLike inserts a like; a repeat like from the same user is a conflict
func (r *PostgresEngagementRepository) AddLike(ctx context.Context, l *models.Like) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, material_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Likes)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, l.ID, l.MaterialID, l.UserID, l.CreatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("like on material %s by %s: %w", l.MaterialID, l.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("add like: %w", err)
	}

	return nil
}

// RemoveLike deletes a user's like; removing a like that does not exist is a no-op
func (r *PostgresEngagementRepository) RemoveLike(ctx context.Context, materialID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE material_id = $1 AND user_id = $2
	`, r.tables.Likes)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, materialID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}

	return nil
}

// CountLikes returns the number of likes on a material
func (r *PostgresEngagementRepository) CountLikes(ctx context.Context, materialID string) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE material_id = $1
	`, r.tables.Likes)

	var count int64
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, materialID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// AddComment inserts a comment
func (r *PostgresEngagementRepository) AddComment(ctx context.Context, c *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, material_id, user_id, user_name, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Comments)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		c.ID, c.MaterialID, c.UserID, c.UserName, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	return nil
}

// ListComments lists a material's comments, oldest first
func (r *PostgresEngagementRepository) ListComments(ctx context.Context, materialID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, material_id, user_id, user_name, body, created_at
		FROM %s
		WHERE material_id = $1
		ORDER BY created_at ASC
	`, r.tables.Comments)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.MaterialID, &c.UserID, &c.UserName, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// DeleteByMaterial removes all likes and comments referencing a material.
// Both deletes are idempotent; running inside the sweeper's transaction when
// one is present in the context.
func (r *PostgresEngagementRepository) DeleteByMaterial(ctx context.Context, materialID string) error {
	exec := GetExecutor(ctx, r.pool)

	likeQuery := fmt.Sprintf(`DELETE FROM %s WHERE material_id = $1`, r.tables.Likes)
	if _, err := exec.Exec(ctx, likeQuery, materialID); err != nil {
		return fmt.Errorf("delete likes for material: %w", err)
	}

	commentQuery := fmt.Sprintf(`DELETE FROM %s WHERE material_id = $1`, r.tables.Comments)
	if _, err := exec.Exec(ctx, commentQuery, materialID); err != nil {
		return fmt.Errorf("delete comments for material: %w", err)
	}

	return nil
}
