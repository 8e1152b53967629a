package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"studyvault/internal/domain"
	"studyvault/internal/domain/models"
	"studyvault/internal/domain/repositories"
	"studyvault/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMaterialRepo is an in-memory MaterialRepository with the same
// compare-and-swap semantics as the postgres implementation.
type fakeMaterialRepo struct {
	mu        sync.Mutex
	materials map[string]*models.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[string]*models.Material)}
}

func (r *fakeMaterialRepo) Create(ctx context.Context, m *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.materials[m.ID]; exists {
		return fmt.Errorf("material %s: %w", m.ID, domain.ErrConflict)
	}
	cp := *m
	r.materials[m.ID] = &cp
	return nil
}

func (r *fakeMaterialRepo) GetByID(ctx context.Context, id string) (*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaterialRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Material
	for _, m := range r.materials {
		if m.OwnerID == ownerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) ListPublished(ctx context.Context, categoryID string) ([]models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Material
	for _, m := range r.materials {
		if m.Visibility != models.VisibilityPublished {
			continue
		}
		if categoryID != "" && m.CategoryID != categoryID {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMaterialRepo) ListByVisibility(ctx context.Context, v models.Visibility) ([]models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Material
	for _, m := range r.materials {
		if m.Visibility == v {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) ListExpiredRejected(ctx context.Context, cutoff time.Time) ([]models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Material
	for _, m := range r.materials {
		if m.Visibility == models.VisibilityRejected && m.RejectedAt != nil && !m.RejectedAt.After(cutoff) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) TransitionVisibility(ctx context.Context, id string, from, to models.Visibility, rejectedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok || m.Visibility != from {
		return false, nil
	}
	m.Visibility = to
	if rejectedAt != nil {
		t := *rejectedAt
		m.RejectedAt = &t
	} else {
		m.RejectedAt = nil
	}
	m.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeMaterialRepo) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return 0, fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
	}
	m.DownloadCount++
	return m.DownloadCount, nil
}

func (r *fakeMaterialRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[id]; !ok {
		return fmt.Errorf("material %s: %w", id, domain.ErrNotFound)
	}
	delete(r.materials, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]models.Category
}

func newFakeCategoryRepo(categories ...models.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[string]models.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

type fakeArchiveRepo struct {
	mu      sync.Mutex
	entries map[string]models.ArchivedMaterial

	// failIDs makes Upsert fail for specific material ids
	failIDs map[string]bool
}

func newFakeArchiveRepo() *fakeArchiveRepo {
	return &fakeArchiveRepo{
		entries: make(map[string]models.ArchivedMaterial),
		failIDs: make(map[string]bool),
	}
}

func (r *fakeArchiveRepo) Upsert(ctx context.Context, a *models.ArchivedMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIDs[a.ID] {
		return fmt.Errorf("upsert archive entry: connection refused")
	}
	r.entries[a.ID] = *a
	return nil
}

func (r *fakeArchiveRepo) GetByID(ctx context.Context, id string) (*models.ArchivedMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("archive entry %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (r *fakeArchiveRepo) List(ctx context.Context) ([]models.ArchivedMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ArchivedMaterial, 0, len(r.entries))
	for _, a := range r.entries {
		out = append(out, a)
	}
	return out, nil
}

type fakeEngagementRepo struct {
	mu       sync.Mutex
	likes    []models.Like
	comments []models.Comment

	// deletedMaterials records DeleteByMaterial calls in order
	deletedMaterials []string
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{}
}

func (r *fakeEngagementRepo) AddLike(ctx context.Context, l *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.likes {
		if existing.MaterialID == l.MaterialID && existing.UserID == l.UserID {
			return fmt.Errorf("like: %w", domain.ErrConflict)
		}
	}
	r.likes = append(r.likes, *l)
	return nil
}

func (r *fakeEngagementRepo) RemoveLike(ctx context.Context, materialID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.likes {
		if l.MaterialID == materialID && l.UserID == userID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeEngagementRepo) CountLikes(ctx context.Context, materialID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.likes {
		if l.MaterialID == materialID {
			n++
		}
	}
	return n, nil
}

func (r *fakeEngagementRepo) AddComment(ctx context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, *c)
	return nil
}

func (r *fakeEngagementRepo) ListComments(ctx context.Context, materialID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.MaterialID == materialID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeEngagementRepo) DeleteByMaterial(ctx context.Context, materialID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var likes []models.Like
	for _, l := range r.likes {
		if l.MaterialID != materialID {
			likes = append(likes, l)
		}
	}
	r.likes = likes
	var comments []models.Comment
	for _, c := range r.comments {
		if c.MaterialID != materialID {
			comments = append(comments, c)
		}
	}
	r.comments = comments
	r.deletedMaterials = append(r.deletedMaterials, materialID)
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	files   map[string]*storage.FileMetadata
	deleted []string

	deleteErr  error
	sessionErr error
	sessions   int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{files: make(map[string]*storage.FileMetadata)}
}

func (s *fakeObjectStore) CreateUploadSession(ctx context.Context, ownerID, fileName, mimeType string) (*storage.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	s.sessions++
	fileID := fmt.Sprintf("file-%d", s.sessions)
	s.files[fileID] = &storage.FileMetadata{
		ID:       fileID,
		Name:     fileName,
		MimeType: mimeType,
	}
	return &storage.UploadSession{
		SessionURL: "https://upload.example.com/session/" + fileID,
		FileID:     fileID,
	}, nil
}

func (s *fakeObjectStore) GetFileMetadata(ctx context.Context, fileID string) (*storage.FileMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.files[fileID]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	cp := *meta
	return &cp, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.files, fileID)
	s.deleted = append(s.deleted, fileID)
	return nil
}

type fakeTxManager struct {
	execErr error
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if m.execErr != nil {
		return m.execErr
	}
	return fn(ctx)
}
