package project

import (
	"errors"
	"fmt"
)

// Standard errors returned by the project package.
var (
	// ErrUnknownROMType indicates an attempt to create a project without a
	// concrete ROM type.
	ErrUnknownROMType = errors.New("cannot create a project of unknown ROM type")

	// ErrResourceNotFound indicates an unknown (module, resource) key.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrUpgradeConflict indicates a pre-modules-era descriptor whose
	// module configuration differs from the freshly derived defaults. The
	// on-disk state is inconsistent; the upgrade cannot proceed.
	ErrUpgradeConflict = errors.New("module configuration does not match defaults")

	// ErrUnsupportedUpgrade indicates an upgrade path that is not
	// implemented yet. This is a placeholder for future schema evolution,
	// not a bug.
	ErrUnsupportedUpgrade = errors.New("unsupported upgrade")
)

// ResourceError reports an error for one (module, resource) pair.
type ResourceError struct {
	Module   string // module name
	Resource string // resource name
	Err      error  // underlying error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s/%s: %v", e.Module, e.Resource, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// UpgradeError reports a failed descriptor upgrade between two format
// versions.
type UpgradeError struct {
	From int   // version the descriptor was written by
	To   int   // requested version
	Err  error // underlying error
}

// Error implements the error interface.
func (e *UpgradeError) Error() string {
	return fmt.Sprintf("upgrade from version %d to %d: %v", e.From, e.To, e.Err)
}

// Unwrap returns the underlying error.
func (e *UpgradeError) Unwrap() error {
	return e.Err
}
