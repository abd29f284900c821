package module

import (
	"strings"
	"sync"
)

// LookupFunc resolves a dotted module name to its built-in implementation.
// It returns false when no implementation is known for the name.
type LookupFunc func(name string) (Module, bool)

// Registry materializes the ordered built-in module list from a manifest.
//
// The manifest is a line-based list of dotted module names. Blank lines and
// lines starting with '#' are ignored. Manifest order is significant: it
// defines the default enable order and the order of every registry-derived
// listing.
//
// Discovery runs at most once per Registry. The result, success or failure,
// is cached for the lifetime of the value; concurrent first callers all
// observe the same completed pass.
type Registry struct {
	once     sync.Once
	manifest string
	lookup   LookupFunc

	mods []Descriptor
	err  error
}

// NewRegistry creates a registry over the given manifest text and lookup
// table. No discovery happens until the first Modules call.
func NewRegistry(manifest string, lookup LookupFunc) *Registry {
	return &Registry{manifest: manifest, lookup: lookup}
}

// Modules returns the ordered built-in module descriptors. The first call
// performs discovery; a manifest entry with no implementation fails with a
// ResolutionError wrapping ErrModuleResolution, and the failure is cached.
func (r *Registry) Modules() ([]Descriptor, error) {
	r.once.Do(r.discover)
	return r.mods, r.err
}

// discover parses the manifest and resolves each entry.
func (r *Registry) discover() {
	var mods []Descriptor
	for _, line := range strings.Split(r.manifest, "\n") {
		name := strings.TrimRight(line, "\r")
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		mod, ok := r.lookup(name)
		if !ok {
			r.err = &ResolutionError{Name: name, Err: ErrModuleResolution}
			return
		}
		mods = append(mods, Descriptor{Name: name, Module: mod})
	}
	r.mods = mods
}
