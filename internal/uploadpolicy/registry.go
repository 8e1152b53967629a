package uploadpolicy

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry answers which MIME types may be uploaded and how large they may
// be. The policy ships embedded in the binary, so a misconfigured deployment
// cannot accidentally accept everything.
type Registry struct {
	policy Policy
	mu     sync.RWMutex
}

// NewRegistry creates a new policy registry and loads the embedded YAML file
func NewRegistry() (*Registry, error) {
	r := &Registry{}

	data, err := configFiles.ReadFile("config/policy.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read upload policy: %w", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal upload policy: %w", err)
	}

	if policy.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("upload policy: max_upload_mb must be positive")
	}
	if len(policy.Types) == 0 {
		return nil, fmt.Errorf("upload policy: no accepted types configured")
	}

	// Fill in the map keys as MimeType identifiers
	for mime, t := range policy.Types {
		t.MimeType = mime
		policy.Types[mime] = t
	}

	r.mu.Lock()
	r.policy = policy
	r.mu.Unlock()

	return r, nil
}

// Lookup returns the upload type for a MIME type
func (r *Registry) Lookup(mimeType string) (*UploadType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.policy.Types[mimeType]
	if !ok {
		return nil, fmt.Errorf("upload type %s is not accepted", mimeType)
	}
	return &t, nil
}

// Allowed reports whether a MIME type may be uploaded
func (r *Registry) Allowed(mimeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.policy.Types[mimeType]
	return ok
}

// MaxSizeBytes returns the size ceiling for a MIME type, falling back to the
// policy-wide default when the type carries no override
func (r *Registry) MaxSizeBytes(mimeType string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.policy.Types[mimeType]; ok && t.MaxSizeMB > 0 {
		return int64(t.MaxSizeMB) << 20
	}
	return int64(r.policy.MaxUploadMB) << 20
}

// ListTypes returns all accepted upload types ordered by MIME type
func (r *Registry) ListTypes() []UploadType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]UploadType, 0, len(r.policy.Types))
	for _, t := range r.policy.Types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].MimeType < types[j].MimeType })
	return types
}
