package luamod

import (
	"errors"
	"fmt"
)

// Standard errors returned by the resolver.
var (
	// ErrModuleNotFound indicates no Lua file exists for the identifier.
	ErrModuleNotFound = errors.New("module not found")

	// ErrMalformedModule indicates the Lua file loaded but did not define
	// the global table named by the identifier's final component.
	ErrMalformedModule = errors.New("malformed module")
)

// ResolveError reports a failure to resolve one project-specific module.
type ResolveError struct {
	Identifier string // dotted module identifier
	Err        error  // underlying error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Identifier, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}
