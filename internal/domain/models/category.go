package models

import (
	"time"
)

// Category is the subject a material is filed under. Category management is
// handled elsewhere; this core only reads categories and snapshots their names
// into archive entries.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
