// Package builtin holds the catalog of built-in editing modules and the
// process-wide default registry over them.
//
// The manifest (modulelist.txt) is compiled into the binary and fixes the
// default enable order of the built-in modules. The Registry handle returned
// by Registry is shared, immutable after its first discovery pass, and
// outlives any individual project.
package builtin

import (
	_ "embed"

	"github.com/dshills/rompack/internal/module"
)

//go:embed modulelist.txt
var manifest string

// catalog maps dotted manifest names to their implementations. Every name
// in modulelist.txt must have an entry here; registry discovery fails
// otherwise.
var catalog = map[string]module.Module{
	"generic.HeaderModule":    anyROM{},
	"generic.FreeSpaceModule": anyROM{},
	"snes.PaletteModule":      snesROM{},
	"snes.TilesetModule":      snesROM{},
	"snes.MapModule":          snesROM{},
	"snes.TextModule":         snesROM{},
}

// Lookup resolves a manifest name against the built-in catalog.
func Lookup(name string) (module.Module, bool) {
	m, ok := catalog[name]
	return m, ok
}

var defaultRegistry = module.NewRegistry(manifest, Lookup)

// Registry returns the shared registry of built-in modules.
func Registry() *module.Registry {
	return defaultRegistry
}

// Manifest returns the embedded manifest text. Exposed for the CLI's
// diagnostics output.
func Manifest() string {
	return manifest
}

// anyROM marks a module that operates on every ROM type, such as the header
// and free-space bookkeeping modules.
type anyROM struct{}

func (anyROM) CompatibleWith(module.ROMType) bool { return true }

// snesROM marks a module limited to the SNES mapping modes.
type snesROM struct{}

func (snesROM) CompatibleWith(t module.ROMType) bool {
	return t == "snes-lorom" || t == "snes-hirom"
}
