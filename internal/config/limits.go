package config

const (
	// MaxTitleLength is the maximum length for material titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// MaxDescriptionLength is the maximum length for material descriptions.
	MaxDescriptionLength = 4000

	// MaxFileNameLength is the maximum length for uploaded file names.
	// Same ceiling as titles for consistency.
	MaxFileNameLength = 255

	// MaxCommentLength is the maximum length for a comment body.
	MaxCommentLength = 2000
)
