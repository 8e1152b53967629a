package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"studyvault/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Materials  string
	Archive    string
	Categories string
	Likes      string
	Comments   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Materials:  fmt.Sprintf("%smaterials", prefix),
		Archive:    fmt.Sprintf("%sarchived_materials", prefix),
		Categories: fmt.Sprintf("%scategories", prefix),
		Likes:      fmt.Sprintf("%slikes", prefix),
		Comments:   fmt.Sprintf("%scomments", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// When the database sits behind a transaction-pooling PgBouncer (port 6543 on
// most managed Postgres offerings), prepared statements break with "prepared
// statement already exists" errors. If that port is detected and the user has
// not set default_query_exec_mode explicitly in the connection string, the
// pool is switched to QueryExecModeCacheDescribe, which keeps the extended
// protocol but caches statement descriptions instead of prepared statements.
//
// Note on dynamic table names: the fmt.Sprintf interpolation of table
// prefixes (dev_, test_, prod_) happens before the SQL is sent, so each
// environment simply gets its own statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
// This enables repositories to automatically participate in transactions when they exist.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
