package module

// ROMType identifies the ROM format a project edits.
//
// The value is an opaque tag agreed on between ROM detection and the module
// implementations; modules declare which types they can operate on.
type ROMType string

// ROMTypeUnknown is the sentinel for a ROM whose format could not be
// detected. Projects can never be created for this type.
const ROMTypeUnknown ROMType = "unknown"

// Module is the contract every editing module satisfies. The registry and
// the project layer only care about compatibility; the actual ROM/resource
// transcoding surface is defined by the host application that runs the
// modules.
type Module interface {
	// CompatibleWith reports whether the module can operate on ROMs of
	// type t.
	CompatibleWith(t ROMType) bool
}

// Descriptor pairs a module implementation with its dotted name. The name
// is unique within a registry and doubles as the key in project descriptor
// files.
type Descriptor struct {
	Name   string
	Module Module
}

// Compatible reports whether the descriptor's module can operate on ROMs of
// type t. It is a pure predicate with no side effects.
func Compatible(t ROMType, d Descriptor) bool {
	return d.Module.CompatibleWith(t)
}

// FilterCompatible returns the descriptors compatible with t, preserving
// input order. The input slice is not modified.
func FilterCompatible(t ROMType, ds []Descriptor) []Descriptor {
	out := make([]Descriptor, 0, len(ds))
	for _, d := range ds {
		if Compatible(t, d) {
			out = append(out, d)
		}
	}
	return out
}

// CompatibleNames returns the names of the descriptors compatible with t,
// preserving input order.
func CompatibleNames(t ROMType, ds []Descriptor) []string {
	names := make([]string, 0, len(ds))
	for _, d := range FilterCompatible(t, ds) {
		names = append(names, d.Name)
	}
	return names
}
