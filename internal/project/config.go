package project

import (
	"fmt"
	"slices"

	"github.com/dshills/rompack/internal/module"
)

// ModuleSets is the persisted form of a module configuration: three ordered
// name lists. Enabled order is run order. A name never appears in both
// Enabled and Disabled; ProjectSpecific identifiers live in a disjoint
// namespace (they do not exist in the registry).
type ModuleSets struct {
	Enabled         []string `yaml:"enabled"`
	Disabled        []string `yaml:"disabled"`
	ProjectSpecific []string `yaml:"project_specific"`
}

// ModuleConfig tracks which editing modules are active for one project and
// resolves them against the registry, the compatibility filter, and the
// project-specific module resolver.
type ModuleConfig struct {
	romType  module.ROMType
	dir      string
	registry *module.Registry
	resolver module.Resolver

	enabled         []string
	disabled        []string
	projectSpecific []string
}

// NewModuleConfig builds a module configuration for a project rooted at
// dir. If stored is non-nil its three lists are adopted verbatim — persisted
// state is trusted, with compatibility re-checked only at resolution time.
// If stored is nil the enabled list is derived as the compatible subset of
// the registry, in registry order.
func NewModuleConfig(romType module.ROMType, dir string, stored *ModuleSets, registry *module.Registry, resolver module.Resolver) (*ModuleConfig, error) {
	c := &ModuleConfig{
		romType:  romType,
		dir:      dir,
		registry: registry,
		resolver: resolver,
	}

	if stored != nil {
		c.enabled = slices.Clone(stored.Enabled)
		c.disabled = slices.Clone(stored.Disabled)
		c.projectSpecific = slices.Clone(stored.ProjectSpecific)
		return c, nil
	}

	defaults, err := c.compatibleDefaultNames()
	if err != nil {
		return nil, err
	}
	c.enabled = defaults
	return c, nil
}

// ROMType returns the ROM type the configuration was built for.
func (c *ModuleConfig) ROMType() module.ROMType {
	return c.romType
}

// Enabled returns a copy of the enabled module names, in run order.
func (c *ModuleConfig) Enabled() []string {
	return slices.Clone(c.enabled)
}

// Disabled returns a copy of the disabled module names.
func (c *ModuleConfig) Disabled() []string {
	return slices.Clone(c.disabled)
}

// ProjectSpecific returns a copy of the project-specific module
// identifiers.
func (c *ModuleConfig) ProjectSpecific() []string {
	return slices.Clone(c.projectSpecific)
}

// Sets returns the persisted form of the configuration.
func (c *ModuleConfig) Sets() ModuleSets {
	return ModuleSets{
		Enabled:         slices.Clone(c.enabled),
		Disabled:        slices.Clone(c.disabled),
		ProjectSpecific: slices.Clone(c.projectSpecific),
	}
}

// compatibleDefaultNames returns the registry names compatible with the
// configuration's ROM type, in registry order.
func (c *ModuleConfig) compatibleDefaultNames() ([]string, error) {
	mods, err := c.registry.Modules()
	if err != nil {
		return nil, err
	}
	return module.CompatibleNames(c.romType, mods), nil
}

// AddMissingDefaults appends compatible registry modules that appear in
// neither list, in registry order, to the enabled list when enabled is true
// and to the disabled list otherwise. A second call with the same inputs is
// a no-op. This reconciles a project created under an older registry
// against modules introduced since.
func (c *ModuleConfig) AddMissingDefaults(enabled bool) error {
	mods, err := c.registry.Modules()
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(c.enabled)+len(c.disabled))
	for _, name := range c.enabled {
		present[name] = true
	}
	for _, name := range c.disabled {
		present[name] = true
	}

	var missing []string
	for _, d := range module.FilterCompatible(c.romType, mods) {
		if !present[d.Name] {
			missing = append(missing, d.Name)
		}
	}

	if enabled {
		c.enabled = append(c.enabled, missing...)
	} else {
		c.disabled = append(c.disabled, missing...)
	}
	return nil
}

// Enable moves name out of the disabled list and appends it to the enabled
// list if not already there.
func (c *ModuleConfig) Enable(name string) {
	c.disabled = slices.DeleteFunc(c.disabled, func(n string) bool { return n == name })
	if !slices.Contains(c.enabled, name) {
		c.enabled = append(c.enabled, name)
	}
}

// Disable moves name out of the enabled list and appends it to the disabled
// list if not already there.
func (c *ModuleConfig) Disable(name string) {
	c.enabled = slices.DeleteFunc(c.enabled, func(n string) bool { return n == name })
	if !slices.Contains(c.disabled, name) {
		c.disabled = append(c.disabled, name)
	}
}

// ActiveModules resolves the final ordered module list. Registry modules
// come first, in registry order, included only when enabled and compatible
// with the ROM type — compatibility is re-verified here because an enabled
// name may come from a stale save against a type it no longer supports.
// Project-specific identifiers follow, in list order, resolved through the
// configured resolver.
func (c *ModuleConfig) ActiveModules() ([]module.Descriptor, error) {
	mods, err := c.registry.Modules()
	if err != nil {
		return nil, err
	}

	enabled := make(map[string]bool, len(c.enabled))
	for _, name := range c.enabled {
		enabled[name] = true
	}

	active := make([]module.Descriptor, 0, len(c.enabled)+len(c.projectSpecific))
	for _, d := range mods {
		if enabled[d.Name] && module.Compatible(c.romType, d) {
			active = append(active, d)
		}
	}

	for _, name := range c.projectSpecific {
		m, err := c.ResolveProjectSpecific(name)
		if err != nil {
			return nil, err
		}
		active = append(active, module.Descriptor{Name: name, Module: m})
	}

	return active, nil
}

// ResolveProjectSpecific resolves one project-specific identifier through
// the configured resolver. The resolver reports ErrModuleNotFound-class
// failures when the identifier cannot be located and malformed-module
// failures when the located code lacks the expected implementation.
func (c *ModuleConfig) ResolveProjectSpecific(identifier string) (module.Module, error) {
	if c.resolver == nil {
		return nil, fmt.Errorf("module %s: no project-specific resolver configured", identifier)
	}
	return c.resolver.Resolve(c.dir, identifier)
}

// Upgrade migrates the configuration between descriptor format versions.
//
// Descriptors written before the modules block existed carry no module
// configuration, so the freshly derived defaults must already be in place;
// anything else means the on-disk state is inconsistent and the upgrade
// fails with ErrUpgradeConflict. Upgrades from the current epoch to newer
// versions are not implemented yet and fail with ErrUnsupportedUpgrade.
func (c *ModuleConfig) Upgrade(oldVersion, newVersion int) error {
	if oldVersion < moduleConfigVersion {
		defaults, err := c.compatibleDefaultNames()
		if err != nil {
			return err
		}
		if !slices.Equal(c.enabled, defaults) || len(c.disabled) != 0 || len(c.projectSpecific) != 0 {
			return fmt.Errorf("descriptor version %d (%s): %w",
				oldVersion, VersionName(oldVersion), ErrUpgradeConflict)
		}
		// Defaults are already correct by construction; nothing to do.
		return nil
	}
	return &UpgradeError{From: oldVersion, To: newVersion, Err: ErrUnsupportedUpgrade}
}
