package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
	"studyvault/internal/storage"
)

// Sweeper permanently purges rejected materials whose grace window has
// elapsed. Per material it archives a snapshot, best-effort deletes the Drive
// file, and removes the material with its likes and comments.
//
// Every step is safe to repeat: the archive write is an upsert, the Drive
// delete treats not-found as success, and the cascade tolerates an
// already-deleted row. A sweep interrupted mid-material therefore finishes the
// job on its next run, and two overlapping runs degrade to no-ops rather than
// double-processing errors.
type Sweeper struct {
	materials  repositories.MaterialRepository
	archive    repositories.ArchiveRepository
	engagement repositories.EngagementRepository
	categories repositories.CategoryRepository
	store      storage.ObjectStore
	txManager  repositories.TransactionManager

	graceWindow time.Duration
	logger      *slog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewSweeper creates a new sweeper
func NewSweeper(
	materials repositories.MaterialRepository,
	archive repositories.ArchiveRepository,
	engagement repositories.EngagementRepository,
	categories repositories.CategoryRepository,
	store storage.ObjectStore,
	txManager repositories.TransactionManager,
	graceWindow time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		materials:   materials,
		archive:     archive,
		engagement:  engagement,
		categories:  categories,
		store:       store,
		txManager:   txManager,
		graceWindow: graceWindow,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one sweep and returns the number of materials purged. A
// failure on one material never aborts the others; failed materials stay
// rejected and are retried on the next run.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.graceWindow)

	expired, err := s.materials.ListExpiredRejected(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list expired materials: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	processed := 0
	for i := range expired {
		m := &expired[i]
		if err := s.purge(ctx, m); err != nil {
			s.logger.Error("purge failed, will retry next sweep",
				"material_id", m.ID,
				"error", err,
			)
			continue
		}
		processed++
	}

	s.logger.Info("sweep completed",
		"eligible", len(expired),
		"purged", processed,
	)

	return processed, nil
}

// purge runs the per-material step sequence. Order matters: the archive entry
// must be durable before anything is destroyed, and the Drive deletion must
// never block local cleanup - the archive entry already records that the file
// belonged to a now-deleted material.
func (s *Sweeper) purge(ctx context.Context, m *models.Material) error {
	if m.RejectedAt == nil {
		// Should be unreachable given the expiry query; skip rather than
		// archive a bogus timestamp.
		return fmt.Errorf("material %s has no rejection timestamp", m.ID)
	}

	entry, err := s.snapshot(ctx, m)
	if err != nil {
		return err
	}

	if err := s.archive.Upsert(ctx, entry); err != nil {
		// Without a durable archive entry nothing may be deleted.
		return fmt.Errorf("archive material: %w", err)
	}

	if m.DriveFileID != nil {
		if err := s.store.Delete(ctx, *m.DriveFileID); err != nil {
			s.logger.Warn("drive deletion failed, continuing with local cleanup",
				"material_id", m.ID,
				"file_id", *m.DriveFileID,
				"error", err,
			)
		}
	}

	// Dependent rows and the material go in one transaction so a crash can
	// not leave orphaned likes or comments behind.
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.engagement.DeleteByMaterial(txCtx, m.ID); err != nil {
			return err
		}
		if err := s.materials.Delete(txCtx, m.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cascade delete: %w", err)
	}

	s.logger.Info("material purged",
		"material_id", m.ID,
		"owner_id", m.OwnerID,
		"rejected_at", m.RejectedAt,
	)

	return nil
}

// snapshot builds the archive entry from the material's current fields and
// the current category name. A category that has since vanished yields an
// empty name rather than a failed purge.
func (s *Sweeper) snapshot(ctx context.Context, m *models.Material) (*models.ArchivedMaterial, error) {
	categoryName := ""
	cat, err := s.categories.GetByID(ctx, m.CategoryID)
	switch {
	case err == nil:
		categoryName = cat.Name
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("category missing at archive time",
			"material_id", m.ID,
			"category_id", m.CategoryID,
		)
	default:
		return nil, fmt.Errorf("load category for snapshot: %w", err)
	}

	return &models.ArchivedMaterial{
		ID:           m.ID,
		MaterialID:   m.ID,
		OwnerID:      m.OwnerID,
		OwnerName:    m.OwnerName,
		Title:        m.Title,
		CategoryID:   m.CategoryID,
		CategoryName: categoryName,
		RejectedAt:   *m.RejectedAt,
		DeletedAt:    s.now(),
		DriveFileID:  m.DriveFileID,
	}, nil
}

// Start runs the sweeper on a ticker until the context is cancelled. The
// server launches this in a goroutine; cron deployments call Run through
// cmd/sweep instead.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started",
		"interval", interval,
		"grace_window", s.graceWindow,
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.logger.Error("sweep run failed", "error", err)
			}
		}
	}
}
