package models

import (
	"time"
)

// ArchivedMaterial is the write-once audit entry the sweeper creates
// immediately before it removes a purged material. It reuses the material's id
// as primary key and snapshots the owner and category names at deletion time,
// so the entry stays meaningful after the source rows are gone.
//
// Only the sweeper writes these rows; they are never mutated afterwards except
// when an interrupted sweep re-archives the same material, which refreshes
// DeletedAt through the upsert.
type ArchivedMaterial struct {
	ID           string     `json:"id" db:"id"`
	MaterialID   string     `json:"material_id" db:"material_id"`
	OwnerID      string     `json:"owner_id" db:"owner_id"`
	OwnerName    string     `json:"owner_name" db:"owner_name"`
	Title        string     `json:"title" db:"title"`
	CategoryID   string     `json:"category_id" db:"category_id"`
	CategoryName string     `json:"category_name" db:"category_name"`
	RejectedAt   time.Time  `json:"rejected_at" db:"rejected_at"`
	DeletedAt    time.Time  `json:"deleted_at" db:"deleted_at"`
	DriveFileID  *string    `json:"drive_file_id" db:"drive_file_id"`
}
