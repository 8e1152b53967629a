package models

import (
	"time"
)

// Visibility is the moderation state of a material.
type Visibility string

const (
	// VisibilityPending is the initial state of every submitted material.
	VisibilityPending Visibility = "pending"
	// VisibilityPublished is reached by moderator approval and is permanent.
	VisibilityPublished Visibility = "published"
	// VisibilityRejected starts the grace window; the material is purged by
	// the sweeper once the window elapses unless it is restored first.
	VisibilityRejected Visibility = "rejected"
)

// Valid reports whether v is one of the known visibility states.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPending, VisibilityPublished, VisibilityRejected:
		return true
	}
	return false
}

// Material is a study document submitted by a student. The file bytes live in
// Google Drive; DriveFileID correlates this row with the remote object and may
// be nil if the upload never completed.
//
// Invariant: RejectedAt is non-nil exactly when Visibility is rejected.
type Material struct {
	ID            string     `json:"id" db:"id"`
	OwnerID       string     `json:"owner_id" db:"owner_id"`
	OwnerName     string     `json:"owner_name" db:"owner_name"`
	CategoryID    string     `json:"category_id" db:"category_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	DriveFileID   *string    `json:"drive_file_id" db:"drive_file_id"`
	FileName      string     `json:"file_name" db:"file_name"`
	MimeType      string     `json:"mime_type" db:"mime_type"`
	Visibility    Visibility `json:"visibility" db:"visibility"`
	RejectedAt    *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	DownloadCount int64      `json:"download_count" db:"download_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
