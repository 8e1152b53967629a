package uploadpolicy

// UploadType describes one accepted upload MIME type.
type UploadType struct {
	// MimeType identifier (set during YAML unmarshaling)
	MimeType string `yaml:"-" json:"mime_type"`

	// Display information
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Extensions accepted for this type (informational, shown to clients)
	Extensions []string `yaml:"extensions" json:"extensions"`

	// MaxSizeMB overrides the policy-wide upload limit when set
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb,omitempty"`
}

// Policy is the full upload policy document.
type Policy struct {
	// MaxUploadMB is the default size ceiling for any upload
	MaxUploadMB int `yaml:"max_upload_mb" json:"max_upload_mb"`

	// Types maps MIME type -> accepted upload type
	Types map[string]UploadType `yaml:"types" json:"types"`
}
