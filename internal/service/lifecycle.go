package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"studyvault/internal/config"
	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SubmitMaterialRequest carries a student's submission. Owner identity fields
// come from the authentication layer, never from the request body.
type SubmitMaterialRequest struct {
	OwnerID     string `json:"-"`
	OwnerName   string `json:"-"`
	CategoryID  string `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DriveFileID string `json:"drive_file_id"`
	FileName    string `json:"file_name"`
	MimeType    string `json:"mime_type"`
}

// LifecycleService owns the moderation state machine. It is the only
// component that mutates a material's visibility, and every transition runs as
// a compare-and-swap on the current state so concurrent moderators cannot
// corrupt a record.
//
// States: pending (initial) -> published (by Approve, permanent) or
// rejected (by Reject, starts the grace window). A rejected material can be
// restored to pending or published directly; once the grace window elapses the
// sweeper purges it.
type LifecycleService struct {
	materials   repositories.MaterialRepository
	categories  repositories.CategoryRepository
	graceWindow time.Duration
	logger      *slog.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(
	materials repositories.MaterialRepository,
	categories repositories.CategoryRepository,
	graceWindow time.Duration,
	logger *slog.Logger,
) *LifecycleService {
	return &LifecycleService{
		materials:   materials,
		categories:  categories,
		graceWindow: graceWindow,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit validates a submission and creates the material in pending state.
func (s *LifecycleService) Submit(ctx context.Context, req *SubmitMaterialRequest) (*models.Material, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.OwnerName, validation.Required),
		validation.Field(&req.CategoryID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.DriveFileID, validation.Required),
		validation.Field(&req.FileName, validation.Required, validation.Length(1, config.MaxFileNameLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The referenced category must exist; its name is snapshotted into the
	// archive entry if this material is ever purged.
	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category %s", domain.ErrValidation, req.CategoryID)
		}
		return nil, err
	}

	now := s.now()
	driveFileID := req.DriveFileID
	m := &models.Material{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		OwnerName:   req.OwnerName,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		DriveFileID: &driveFileID,
		FileName:    req.FileName,
		MimeType:    req.MimeType,
		Visibility:  models.VisibilityPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.materials.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("material submitted",
		"material_id", m.ID,
		"owner_id", m.OwnerID,
		"category_id", m.CategoryID,
	)

	return m, nil
}

// Approve publishes a pending material.
func (s *LifecycleService) Approve(ctx context.Context, id string) (*models.Material, error) {
	return s.transition(ctx, id, "approve", models.VisibilityPending, models.VisibilityPublished, nil)
}

// Reject moves a pending material into the grace window.
func (s *LifecycleService) Reject(ctx context.Context, id string) (*models.Material, error) {
	rejectedAt := s.now()
	return s.transition(ctx, id, "reject", models.VisibilityPending, models.VisibilityRejected, &rejectedAt)
}

// Restore returns a rejected material to the moderation queue, clearing its
// rejection timestamp.
func (s *LifecycleService) Restore(ctx context.Context, id string) (*models.Material, error) {
	return s.transition(ctx, id, "restore", models.VisibilityRejected, models.VisibilityPending, nil)
}

// PublishDirectly publishes a rejected material without another pass through
// the queue, clearing its rejection timestamp.
func (s *LifecycleService) PublishDirectly(ctx context.Context, id string) (*models.Material, error) {
	return s.transition(ctx, id, "publish", models.VisibilityRejected, models.VisibilityPublished, nil)
}

// transition performs one state change. The repository's compare-and-swap
// guarantees at most one of any set of concurrent transitions wins; the losers
// re-read the row to report NotFound or InvalidTransition accurately.
func (s *LifecycleService) transition(ctx context.Context, id, op string, from, to models.Visibility, rejectedAt *time.Time) (*models.Material, error) {
	ok, err := s.materials.TransitionVisibility(ctx, id, from, to, rejectedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		m, err := s.materials.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &domain.InvalidTransitionError{
			MaterialID: id,
			From:       string(m.Visibility),
			Operation:  op,
		}
	}

	s.logger.Info("material transitioned",
		"material_id", id,
		"operation", op,
		"from", from,
		"to", to,
	)

	return s.materials.GetByID(ctx, id)
}

// RemainingGraceHours reports how many whole hours a rejected material has
// left before the sweeper may purge it, rounding partial hours up. Zero for
// any non-rejected material and from the deadline onwards.
func (s *LifecycleService) RemainingGraceHours(m *models.Material) int {
	if m.Visibility != models.VisibilityRejected || m.RejectedAt == nil {
		return 0
	}
	remaining := m.RejectedAt.Add(s.graceWindow).Sub(s.now())
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours()))
}

// Get retrieves a material by id.
func (s *LifecycleService) Get(ctx context.Context, id string) (*models.Material, error) {
	return s.materials.GetByID(ctx, id)
}

// ListPublished lists published materials, optionally filtered by category.
func (s *LifecycleService) ListPublished(ctx context.Context, categoryID string) ([]models.Material, error) {
	return s.materials.ListPublished(ctx, categoryID)
}

// ListByOwner lists a user's own materials in every state.
func (s *LifecycleService) ListByOwner(ctx context.Context, ownerID string) ([]models.Material, error) {
	return s.materials.ListByOwner(ctx, ownerID)
}

// ListPending lists the moderation queue, oldest submission first.
func (s *LifecycleService) ListPending(ctx context.Context) ([]models.Material, error) {
	return s.materials.ListByVisibility(ctx, models.VisibilityPending)
}

// ListCategories lists the categories materials can be filed under.
func (s *LifecycleService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// RegisterDownload counts a download of a published material and returns the
// updated record. Unpublished materials are not downloadable.
func (s *LifecycleService) RegisterDownload(ctx context.Context, id string) (*models.Material, error) {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Visibility != models.VisibilityPublished {
		return nil, &domain.InvalidTransitionError{
			MaterialID: id,
			From:       string(m.Visibility),
			Operation:  "download",
		}
	}

	count, err := s.materials.IncrementDownloadCount(ctx, id)
	if err != nil {
		return nil, err
	}
	m.DownloadCount = count

	return m, nil
}
