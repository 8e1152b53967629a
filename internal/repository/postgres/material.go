package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
)

// PostgresMaterialRepository implements the MaterialRepository interface
type PostgresMaterialRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(config *RepositoryConfig) repositories.MaterialRepository {
	return &PostgresMaterialRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const materialColumns = `id, owner_id, owner_name, category_id, title, description,
		drive_file_id, file_name, mime_type, visibility, rejected_at,
		download_count, created_at, updated_at`

// Create inserts a new material
func (r *PostgresMaterialRepository) Create(ctx context.Context, m *models.Material) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, owner_name, category_id, title, description,
			drive_file_id, file_name, mime_type, visibility, rejected_at,
			download_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.Materials)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		m.ID,
		m.OwnerID,
		m.OwnerName,
		m.CategoryID,
		m.Title,
		m.Description,
		m.DriveFileID,
		m.FileName,
		m.MimeType,
		m.Visibility,
		m.RejectedAt,
		m.DownloadCount,
		m.CreatedAt,
		m.UpdatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("material %s: %w", m.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create material: %w", err)
	}

	return nil
}

// GetByID retrieves a material by ID
func (r *PostgresMaterialRepository) GetByID(ctx context.Context, id string) (*models.Material, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, materialColumns, r.tables.Materials)

	m, err := scanMaterial(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get material: %w", err)
	}

	return m, nil
}

// ListByOwner lists all of a user's materials, newest first
func (r *PostgresMaterialRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Material, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, materialColumns, r.tables.Materials)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list materials by owner: %w", err)
	}
	defer rows.Close()

	return collectMaterials(rows)
}

// ListPublished lists published materials, newest first. An empty categoryID
// means all categories.
func (r *PostgresMaterialRepository) ListPublished(ctx context.Context, categoryID string) ([]models.Material, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE visibility = $1 AND ($2 = '' OR category_id = $2)
		ORDER BY created_at DESC
	`, materialColumns, r.tables.Materials)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, models.VisibilityPublished, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list published materials: %w", err)
	}
	defer rows.Close()

	return collectMaterials(rows)
}

// ListByVisibility lists materials in a moderation state, oldest first
func (r *PostgresMaterialRepository) ListByVisibility(ctx context.Context, v models.Visibility) ([]models.Material, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE visibility = $1
		ORDER BY created_at ASC
	`, materialColumns, r.tables.Materials)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, v)
	if err != nil {
		return nil, fmt.Errorf("list materials by visibility: %w", err)
	}
	defer rows.Close()

	return collectMaterials(rows)
}

// ListExpiredRejected lists rejected materials with rejected_at at or before
// the cutoff, oldest rejection first
func (r *PostgresMaterialRepository) ListExpiredRejected(ctx context.Context, cutoff time.Time) ([]models.Material, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE visibility = $1 AND rejected_at <= $2
		ORDER BY rejected_at ASC
	`, materialColumns, r.tables.Materials)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, models.VisibilityRejected, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expired rejected materials: %w", err)
	}
	defer rows.Close()

	return collectMaterials(rows)
}

// TransitionVisibility performs the state change as a single compare-and-swap
// so concurrent transitions on the same row cannot both win. Returns false
// when no row matched id+from.
func (r *PostgresMaterialRepository) TransitionVisibility(ctx context.Context, id string, from, to models.Visibility, rejectedAt *time.Time) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET visibility = $1, rejected_at = $2, updated_at = NOW()
		WHERE id = $3 AND visibility = $4
	`, r.tables.Materials)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, to, rejectedAt, id, from)
	if err != nil {
		return false, fmt.Errorf("transition material visibility: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// IncrementDownloadCount atomically bumps the download counter
func (r *PostgresMaterialRepository) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET download_count = download_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING download_count
	`, r.tables.Materials)

	var count int64
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if IsPgNoRowsError(err) {
			return 0, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("increment download count: %w", err)
	}

	return count, nil
}

// Delete deletes a material
func (r *PostgresMaterialRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Materials)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanMaterial(row pgx.Row) (*models.Material, error) {
	var m models.Material
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.OwnerName,
		&m.CategoryID,
		&m.Title,
		&m.Description,
		&m.DriveFileID,
		&m.FileName,
		&m.MimeType,
		&m.Visibility,
		&m.RejectedAt,
		&m.DownloadCount,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMaterials(rows pgx.Rows) ([]models.Material, error) {
	var materials []models.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}
	return materials, nil
}
