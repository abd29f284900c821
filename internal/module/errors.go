package module

import (
	"errors"
	"fmt"
)

// ErrModuleResolution indicates a manifest entry could not be resolved to a
// built-in implementation. Registry discovery is foundational, so this is
// fatal: the registry caches the failure and every subsequent call observes
// it.
var ErrModuleResolution = errors.New("module resolution failed")

// ResolutionError reports which manifest entry failed to resolve.
type ResolutionError struct {
	Name string // dotted module name from the manifest
	Err  error  // underlying cause
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve module %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
