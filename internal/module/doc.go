// Package module defines the editing-module model for rompack.
//
// An editing module owns one slice of a ROM: it knows how to pull that data
// out of a ROM image and project it into editable resource files, and how to
// write the edited resources back. This package does not contain any module
// implementations; it defines the Module contract, the Descriptor that pairs
// a module with its dotted name, the ROM-type compatibility filter, and the
// Registry that materializes the ordered built-in module list from a static
// manifest.
//
// The Registry is the only process-wide shared state in the project core.
// Its discovery pass runs at most once per Registry value; concurrent first
// callers block until the single pass completes and then all observe the
// same result.
package module
