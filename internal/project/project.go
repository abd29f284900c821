package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/rompack/internal/module"
	"github.com/dshills/rompack/internal/module/builtin"
	"github.com/dshills/rompack/internal/module/luamod"
)

// Project owns one on-disk project descriptor: the ROM type, the descriptor
// format version, the module configuration, and the resource registry
// mapping (module, resource) pairs to files under the project directory.
type Project struct {
	path    string
	dir     string
	romType module.ROMType
	version int

	resources map[string]map[string]string
	modules   *ModuleConfig

	registry *module.Registry
	resolver module.Resolver

	// set when Open created the resolver itself, so Close can release it
	ownedResolver *luamod.Resolver
}

// Option configures a Project before its descriptor is loaded.
type Option func(*Project)

// WithRegistry overrides the module registry. The default is the shared
// built-in registry.
func WithRegistry(r *module.Registry) Option {
	return func(p *Project) {
		p.registry = r
	}
}

// WithResolver overrides the project-specific module resolver. The default
// is a Lua resolver owned by the project and released by Close.
func WithResolver(r module.Resolver) Option {
	return func(p *Project) {
		p.resolver = r
	}
}

// descriptorHeader is the first block of the descriptor file.
type descriptorHeader struct {
	ROMType string     `yaml:"romtype"`
	Version int        `yaml:"version"`
	Modules ModuleSets `yaml:"modules"`
}

// descriptorResources is the second block of the descriptor file.
type descriptorResources struct {
	Resources map[string]map[string]string `yaml:"resources"`
}

// descriptorDoc is the decoded form of a whole descriptor file. Pointer
// fields distinguish absent from zero for everything introduced after
// format version 1.
type descriptorDoc struct {
	ROMType   string                       `yaml:"romtype"`
	Version   *int                         `yaml:"version"`
	Modules   *ModuleSets                  `yaml:"modules"`
	Resources map[string]map[string]string `yaml:"resources"`
}

// Open loads the descriptor at path, or creates a fresh project when no
// descriptor exists.
//
// romType may be empty to adopt whatever type the descriptor records. When
// it is set and differs from the recorded type, the descriptor is
// re-purposed for the requested type: the decoded resources and module
// configuration are discarded and the project starts from fresh defaults.
// This is deliberate (re-targeting an existing directory) but it drops
// on-disk associations silently — nothing is rewritten until Save.
//
// Creating a project requires a concrete romType; the unknown sentinel
// fails with ErrUnknownROMType. Missing ancestor directories are created.
func Open(path string, romType module.ROMType, opts ...Option) (*Project, error) {
	p := &Project{
		path:      path,
		dir:       filepath.Dir(path),
		romType:   module.ROMTypeUnknown,
		version:   FormatVersion,
		resources: make(map[string]map[string]string),
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = builtin.Registry()
	}
	if p.resolver == nil {
		r := luamod.NewResolver()
		p.resolver = r
		p.ownedResolver = r
	}

	// Release the owned resolver if anything below fails.
	opened := false
	defer func() {
		if !opened {
			p.Close()
		}
	}()

	var stored *ModuleSets

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var doc descriptorDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode descriptor %s: %w", path, err)
		}
		decoded := module.ROMType(doc.ROMType)
		if romType == "" || romType == decoded {
			p.romType = decoded
			if doc.Version != nil {
				p.version = *doc.Version
			} else {
				// Descriptors older than the version field are all
				// format version 1.
				p.version = 1
			}
			if doc.Resources != nil {
				p.resources = doc.Resources
			}
			stored = doc.Modules
		} else {
			p.romType = romType
		}

	case errors.Is(err, fs.ErrNotExist):
		if romType == "" || romType == module.ROMTypeUnknown {
			return nil, ErrUnknownROMType
		}
		p.romType = romType
		if err := os.MkdirAll(p.dir, 0o755); err != nil {
			return nil, fmt.Errorf("create project directory %s: %w", p.dir, err)
		}

	default:
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}

	p.modules, err = NewModuleConfig(p.romType, p.dir, stored, p.registry, p.resolver)
	if err != nil {
		return nil, err
	}
	opened = true
	return p, nil
}

// Close releases resources the project created for itself. Open resource
// file handles are owned by their callers and are not affected.
func (p *Project) Close() {
	if p.ownedResolver != nil {
		p.ownedResolver.Close()
		p.ownedResolver = nil
	}
}

// Path returns the descriptor file path.
func (p *Project) Path() string {
	return p.path
}

// Dir returns the project directory (the descriptor's containing folder).
func (p *Project) Dir() string {
	return p.dir
}

// ROMType returns the ROM type the project edits.
func (p *Project) ROMType() module.ROMType {
	return p.romType
}

// Version returns the descriptor format version the project was loaded
// from. Save always stamps the current version regardless of this value.
func (p *Project) Version() int {
	return p.version
}

// Modules returns the project's module configuration.
func (p *Project) Modules() *ModuleConfig {
	return p.modules
}

// Resources returns a copy of the resource registry.
func (p *Project) Resources() map[string]map[string]string {
	out := make(map[string]map[string]string, len(p.resources))
	for mod, res := range p.resources {
		m := make(map[string]string, len(res))
		for name, rel := range res {
			m[name] = rel
		}
		out[mod] = m
	}
	return out
}

// ResourcePath returns the registered relative path for a (module,
// resource) pair, without registering anything.
func (p *Project) ResourcePath(moduleName, resourceName string) (string, bool) {
	res, ok := p.resources[moduleName]
	if !ok {
		return "", false
	}
	rel, ok := res[resourceName]
	return rel, ok
}

// Save writes the descriptor: first the header block (romtype, version,
// modules), then the resources block, so the metadata stays readable at the
// top of the file. The stored version tag is always the current format
// version; upgrading the content itself is the separate, explicit Upgrade
// step. The file is rewritten in place.
func (p *Project) Save() error {
	head, err := yaml.Marshal(&descriptorHeader{
		ROMType: string(p.romType),
		Version: FormatVersion,
		Modules: p.modules.Sets(),
	})
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}

	res, err := yaml.Marshal(&descriptorResources{Resources: p.resources})
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}

	if err := os.WriteFile(p.path, append(head, res...), 0o644); err != nil {
		return fmt.Errorf("write descriptor %s: %w", p.path, err)
	}
	return nil
}

// resourceOpts collects GetResource options.
type resourceOpts struct {
	ext  string
	flag int
	perm fs.FileMode
}

// ResourceOption configures a GetResource call.
type ResourceOption func(*resourceOpts)

// WithExtension sets the extension used when the resource has no registered
// path yet. The default is "dat".
func WithExtension(ext string) ResourceOption {
	return func(o *resourceOpts) {
		o.ext = ext
	}
}

// WithFlag sets the os.OpenFile flag. The default is os.O_RDWR; pass
// os.O_RDWR|os.O_CREATE (or os.O_WRONLY|os.O_CREATE|os.O_TRUNC) when
// writing a resource that may not exist yet.
func WithFlag(flag int) ResourceOption {
	return func(o *resourceOpts) {
		o.flag = flag
	}
}

// WithPerm sets the permission bits used when the open creates the file.
// The default is 0644.
func WithPerm(perm fs.FileMode) ResourceOption {
	return func(o *resourceOpts) {
		o.perm = perm
	}
}

// GetResource opens the file backing a (module, resource) pair and returns
// the handle; the caller owns it and must close it.
//
// An unregistered pair is registered first with the default relative path
// "<resource>.<ext>", and the registration sticks even when the open fails
// afterwards — registry state and filesystem state are not transactionally
// linked. Merely reading an unregistered resource therefore creates a
// permanent project association, persisted by the next Save. Missing parent
// directories under the project directory are created.
func (p *Project) GetResource(moduleName, resourceName string, opts ...ResourceOption) (*os.File, error) {
	o := resourceOpts{ext: "dat", flag: os.O_RDWR, perm: 0o644}
	for _, opt := range opts {
		opt(&o)
	}

	if p.resources[moduleName] == nil {
		p.resources[moduleName] = make(map[string]string)
	}
	rel, ok := p.resources[moduleName][resourceName]
	if !ok {
		rel = resourceName + "." + o.ext
		p.resources[moduleName][resourceName] = rel
	}

	fname := filepath.Join(p.dir, rel)
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return nil, fmt.Errorf("create resource directory: %w", err)
	}

	f, err := os.OpenFile(fname, o.flag, o.perm)
	if err != nil {
		return nil, &ResourceError{Module: moduleName, Resource: resourceName, Err: err}
	}
	return f, nil
}

// DeleteResource removes a (module, resource) association. The backing file
// is removed when it exists; a registry entry whose file is already gone is
// tolerated and the entry is removed anyway. An unknown module or resource
// key fails with ErrResourceNotFound.
func (p *Project) DeleteResource(moduleName, resourceName string) error {
	res, ok := p.resources[moduleName]
	if !ok {
		return &ResourceError{Module: moduleName, Resource: resourceName, Err: ErrResourceNotFound}
	}
	rel, ok := res[resourceName]
	if !ok {
		return &ResourceError{Module: moduleName, Resource: resourceName, Err: ErrResourceNotFound}
	}

	fname := filepath.Join(p.dir, rel)
	if info, err := os.Stat(fname); err == nil && !info.IsDir() {
		if err := os.Remove(fname); err != nil {
			return &ResourceError{Module: moduleName, Resource: resourceName, Err: err}
		}
	}

	delete(res, resourceName)
	return nil
}

// LoadModules returns the final ordered list of active modules: enabled,
// compatible registry modules in registry order, then project-specific
// modules in list order.
func (p *Project) LoadModules() ([]module.Descriptor, error) {
	return p.modules.ActiveModules()
}

// Upgrade migrates the in-memory project content from oldVersion to
// newVersion and records newVersion as the project's format version. The
// version field is updated even when the delegated migration is a no-op.
func (p *Project) Upgrade(oldVersion, newVersion int) error {
	if err := p.modules.Upgrade(oldVersion, newVersion); err != nil {
		return err
	}
	p.version = newVersion
	return nil
}
