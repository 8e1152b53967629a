package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
)

// PostgresArchiveRepository implements the ArchiveRepository interface
type PostgresArchiveRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(config *RepositoryConfig) repositories.ArchiveRepository {
	return &PostgresArchiveRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert writes an archive entry keyed by the purged material's id. A sweep
// interrupted between archiving and deleting re-archives the same material on
// its next run; ON CONFLICT makes that a refresh instead of a duplicate-key
// failure.
func (r *PostgresArchiveRepository) Upsert(ctx context.Context, a *models.ArchivedMaterial) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, material_id, owner_id, owner_name, title,
			category_id, category_name, rejected_at, deleted_at, drive_file_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			owner_name = EXCLUDED.owner_name,
			title = EXCLUDED.title,
			category_name = EXCLUDED.category_name,
			rejected_at = EXCLUDED.rejected_at,
			deleted_at = EXCLUDED.deleted_at,
			drive_file_id = EXCLUDED.drive_file_id
	`, r.tables.Archive)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		a.ID,
		a.MaterialID,
		a.OwnerID,
		a.OwnerName,
		a.Title,
		a.CategoryID,
		a.CategoryName,
		a.RejectedAt,
		a.DeletedAt,
		a.DriveFileID,
	)
	if err != nil {
		return fmt.Errorf("upsert archive entry: %w", err)
	}

	return nil
}

// GetByID retrieves an archive entry by ID
func (r *PostgresArchiveRepository) GetByID(ctx context.Context, id string) (*models.ArchivedMaterial, error) {
	query := fmt.Sprintf(`
		SELECT id, material_id, owner_id, owner_name, title,
			category_id, category_name, rejected_at, deleted_at, drive_file_id
		FROM %s
		WHERE id = $1
	`, r.tables.Archive)

	var a models.ArchivedMaterial
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.MaterialID,
		&a.OwnerID,
		&a.OwnerName,
		&a.Title,
		&a.CategoryID,
		&a.CategoryName,
		&a.RejectedAt,
		&a.DeletedAt,
		&a.DriveFileID,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("archive entry %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get archive entry: %w", err)
	}

	return &a, nil
}

// List lists all archive entries, most recently deleted first
func (r *PostgresArchiveRepository) List(ctx context.Context) ([]models.ArchivedMaterial, error) {
	query := fmt.Sprintf(`
		SELECT id, material_id, owner_id, owner_name, title,
			category_id, category_name, rejected_at, deleted_at, drive_file_id
		FROM %s
		ORDER BY deleted_at DESC
	`, r.tables.Archive)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list archive entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ArchivedMaterial
	for rows.Next() {
		var a models.ArchivedMaterial
		err := rows.Scan(
			&a.ID,
			&a.MaterialID,
			&a.OwnerID,
			&a.OwnerName,
			&a.Title,
			&a.CategoryID,
			&a.CategoryName,
			&a.RejectedAt,
			&a.DeletedAt,
			&a.DriveFileID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan archive entry: %w", err)
		}
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive entries: %w", err)
	}

	return entries, nil
}
