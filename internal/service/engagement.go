package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studyvault/internal/config"
	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"

	"github.com/google/uuid"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EngagementService is CRUD glue around likes and comments on published
// materials. It never touches moderation state.
type EngagementService struct {
	engagement repositories.EngagementRepository
	materials  repositories.MaterialRepository
	logger     *slog.Logger
}

// NewEngagementService creates a new engagement service
func NewEngagementService(
	engagement repositories.EngagementRepository,
	materials repositories.MaterialRepository,
	logger *slog.Logger,
) *EngagementService {
	return &EngagementService{
		engagement: engagement,
		materials:  materials,
		logger:     logger,
	}
}

// Like records a user's like on a published material. Liking twice is a
// no-op rather than an error.
func (s *EngagementService) Like(ctx context.Context, materialID, userID string) error {
	if err := s.requirePublished(ctx, materialID); err != nil {
		return err
	}

	like := &models.Like{
		ID:         uuid.NewString(),
		MaterialID: materialID,
		UserID:     userID,
		CreatedAt:  time.Now(),
	}
	if err := s.engagement.AddLike(ctx, like); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil
		}
		return err
	}
	return nil
}

// Unlike removes a user's like; removing a like that was never given is a
// no-op.
func (s *EngagementService) Unlike(ctx context.Context, materialID, userID string) error {
	return s.engagement.RemoveLike(ctx, materialID, userID)
}

// CountLikes returns the number of likes on a material.
func (s *EngagementService) CountLikes(ctx context.Context, materialID string) (int64, error) {
	return s.engagement.CountLikes(ctx, materialID)
}

// Comment adds a comment to a published material.
func (s *EngagementService) Comment(ctx context.Context, materialID, userID, userName, body string) (*models.Comment, error) {
	err := validation.Validate(body, validation.Required, validation.Length(1, config.MaxCommentLength))
	if err != nil {
		return nil, fmt.Errorf("%w: comment body: %v", domain.ErrValidation, err)
	}

	if err := s.requirePublished(ctx, materialID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:         uuid.NewString(),
		MaterialID: materialID,
		UserID:     userID,
		UserName:   userName,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := s.engagement.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments lists a material's comments, oldest first.
func (s *EngagementService) ListComments(ctx context.Context, materialID string) ([]models.Comment, error) {
	return s.engagement.ListComments(ctx, materialID)
}

// requirePublished rejects engagement on anything still in (or past) the
// moderation pipeline.
func (s *EngagementService) requirePublished(ctx context.Context, materialID string) error {
	m, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		return err
	}
	if m.Visibility != models.VisibilityPublished {
		return fmt.Errorf("%w: material %s is not published", domain.ErrValidation, materialID)
	}
	return nil
}
