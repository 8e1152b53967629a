package models

import (
	"time"
)

// Like is a per-user like on a material. Likes have no lifecycle of their own:
// the sweeper removes them together with the material they reference.
type Like struct {
	ID         string    `json:"id" db:"id"`
	MaterialID string    `json:"material_id" db:"material_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Comment is a flat comment on a material, removed alongside it by the sweeper.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	MaterialID string    `json:"material_id" db:"material_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	UserName   string    `json:"user_name" db:"user_name"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
