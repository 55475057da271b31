package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out output paths within one batch. The first input
// to request a path owns it; later inputs requesting the same path get a
// " - dupN" variant. Safe for concurrent use.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // output path → owning input
}

// NewCollisionResolver returns an empty resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners: make(map[string]string),
	}
}

// Resolve returns the output path input should write. Asking again for the
// same input returns the path it already owns.
func (r *CollisionResolver) Resolve(input, requested string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.owners[requested]; !ok || owner == input {
		r.owners[requested] = input
		return requested
	}

	dir, base := filepath.Split(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		if owner, ok := r.owners[candidate]; !ok || owner == input {
			r.owners[candidate] = input
			return candidate
		}
	}
}

// Owner returns the input that owns path, if any.
func (r *CollisionResolver) Owner(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[path]
	return owner, ok
}
