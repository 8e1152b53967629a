package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
)

func newEngagementFixture(t *testing.T) (*EngagementService, *fakeMaterialRepo, *fakeEngagementRepo) {
	t.Helper()
	materials := newFakeMaterialRepo()
	engagement := newFakeEngagementRepo()
	svc := NewEngagementService(engagement, materials, testLogger())
	return svc, materials, engagement
}

func TestLikeIsIdempotent(t *testing.T) {
	svc, materials, engagement := newEngagementFixture(t)
	seedMaterial(t, materials, "m-1", models.VisibilityPublished, nil)

	if err := svc.Like(context.Background(), "m-1", "user-2"); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if err := svc.Like(context.Background(), "m-1", "user-2"); err != nil {
		t.Fatalf("second Like() error = %v", err)
	}

	count, err := svc.CountLikes(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("CountLikes() error = %v", err)
	}
	if count != 1 {
		t.Errorf("likes = %d, want 1", count)
	}
	if len(engagement.likes) != 1 {
		t.Errorf("stored likes = %d, want 1", len(engagement.likes))
	}
}

func TestLikeRequiresPublishedMaterial(t *testing.T) {
	svc, materials, _ := newEngagementFixture(t)
	seedMaterial(t, materials, "m-pending", models.VisibilityPending, nil)

	err := svc.Like(context.Background(), "m-pending", "user-2")
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Like() error = %v, want ErrValidation", err)
	}

	err = svc.Like(context.Background(), "missing", "user-2")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Like(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUnlikeAbsentLikeIsNoop(t *testing.T) {
	svc, materials, _ := newEngagementFixture(t)
	seedMaterial(t, materials, "m-1", models.VisibilityPublished, nil)

	if err := svc.Unlike(context.Background(), "m-1", "user-2"); err != nil {
		t.Errorf("Unlike() error = %v, want nil", err)
	}
}

func TestComment(t *testing.T) {
	svc, materials, _ := newEngagementFixture(t)
	seedMaterial(t, materials, "m-1", models.VisibilityPublished, nil)

	c, err := svc.Comment(context.Background(), "m-1", "user-2", "Grace", "very helpful, thanks")
	if err != nil {
		t.Fatalf("Comment() error = %v", err)
	}
	if c.ID == "" || c.UserName != "Grace" || c.Body != "very helpful, thanks" {
		t.Errorf("comment = %+v", c)
	}

	comments, err := svc.ListComments(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("comments = %d, want 1", len(comments))
	}
}

func TestCommentValidation(t *testing.T) {
	svc, materials, _ := newEngagementFixture(t)
	seedMaterial(t, materials, "m-1", models.VisibilityPublished, nil)
	seedMaterial(t, materials, "m-pending", models.VisibilityPending, nil)

	tests := []struct {
		name       string
		materialID string
		body       string
	}{
		{"empty body", "m-1", ""},
		{"body too long", "m-1", strings.Repeat("x", 2001)},
		{"unpublished material", "m-pending", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Comment(context.Background(), tt.materialID, "user-2", "Grace", tt.body)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Comment() error = %v, want ErrValidation", err)
			}
		})
	}
}
