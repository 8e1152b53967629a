package storage

import (
	"context"
)

// UploadSession is the handle returned when a remote object has been
// provisioned. The caller uploads the file bytes directly to SessionURL; this
// service never relays them.
type UploadSession struct {
	// SessionURL is the resumable upload URL the client PUTs the bytes to.
	SessionURL string `json:"session_url"`
	// FileID identifies the provisioned object at the storage provider. It is
	// what a material stores as its drive_file_id.
	FileID string `json:"file_id"`
}

// FileMetadata describes a remote object.
type FileMetadata struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MimeType        string `json:"mimeType"`
	Size            int64  `json:"size,string"`
	WebViewLink     string `json:"webViewLink"`
	WebContentLink  string `json:"webContentLink"`
}

// ObjectStore is the remote object storage boundary. The production
// implementation talks to Google Drive; tests substitute an in-memory fake.
//
// Implementations must treat Delete of a missing object as success - the
// sweeper relies on deletion being idempotent.
type ObjectStore interface {
	// CreateUploadSession provisions a remote object tagged with the owner's
	// id, grants it public-read permission, and returns the upload handle.
	CreateUploadSession(ctx context.Context, ownerID, fileName, mimeType string) (*UploadSession, error)

	// GetFileMetadata fetches a remote object's metadata. Returns
	// domain.ErrNotFound when the object no longer exists.
	GetFileMetadata(ctx context.Context, fileID string) (*FileMetadata, error)

	// Delete removes a remote object. A "not found" response from the
	// provider is success.
	Delete(ctx context.Context, fileID string) error
}
