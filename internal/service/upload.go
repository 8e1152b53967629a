package service

import (
	"context"
	"fmt"
	"log/slog"

	"studyvault/internal/config"
	"studyvault/internal/domain"
	"studyvault/internal/storage"
	"studyvault/internal/uploadpolicy"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateUploadSessionRequest asks for a Drive upload session. The owner
// identity comes from the authentication layer.
type CreateUploadSessionRequest struct {
	OwnerID  string `json:"-"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

// UploadSessionResponse is the session handle plus the size ceiling the
// client must respect for this MIME type.
type UploadSessionResponse struct {
	SessionURL   string `json:"session_url"`
	FileID       string `json:"file_id"`
	MaxSizeBytes int64  `json:"max_size_bytes"`
}

// UploadService is the thin gateway between upload-facing callers and the
// object store: it checks the request against the upload policy, provisions
// the remote object tagged with the owner's id, and hands back the session.
// It holds no state of its own.
type UploadService struct {
	store  storage.ObjectStore
	policy *uploadpolicy.Registry
	logger *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(store storage.ObjectStore, policy *uploadpolicy.Registry, logger *slog.Logger) *UploadService {
	return &UploadService{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// CreateSession validates the request and provisions an upload session. The
// caller uploads the bytes directly to the returned URL and then submits the
// material with the returned file id.
func (s *UploadService) CreateSession(ctx context.Context, req *CreateUploadSessionRequest) (*UploadSessionResponse, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.FileName, validation.Required, validation.Length(1, config.MaxFileNameLength)),
		validation.Field(&req.MimeType, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !s.policy.Allowed(req.MimeType) {
		return nil, fmt.Errorf("%w: file type %s is not accepted", domain.ErrValidation, req.MimeType)
	}

	session, err := s.store.CreateUploadSession(ctx, req.OwnerID, req.FileName, req.MimeType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("upload session issued",
		"owner_id", req.OwnerID,
		"file_id", session.FileID,
		"mime_type", req.MimeType,
	)

	return &UploadSessionResponse{
		SessionURL:   session.SessionURL,
		FileID:       session.FileID,
		MaxSizeBytes: s.policy.MaxSizeBytes(req.MimeType),
	}, nil
}

// FileLink fetches the remote object's metadata, including its direct-access
// links. Callers must tolerate domain.ErrNotFound - the provider owns the
// file and may have lost it independently of our records.
func (s *UploadService) FileLink(ctx context.Context, fileID string) (*storage.FileMetadata, error) {
	return s.store.GetFileMetadata(ctx, fileID)
}

// AcceptedTypes lists the upload types the policy allows.
func (s *UploadService) AcceptedTypes() []uploadpolicy.UploadType {
	return s.policy.ListTypes()
}
