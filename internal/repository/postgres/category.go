package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_at FROM %s WHERE id = $1
	`, r.tables.Categories)

	var c models.Category
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

// List lists all categories by name
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := fmt.Sprintf(`
		SELECT id, name, created_at FROM %s ORDER BY name ASC
	`, r.tables.Categories)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}
