package luamod

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rompack/internal/module"
)

// CustomModulesDir is the project subdirectory searched for
// project-specific module code.
const CustomModulesDir = "CustomModules"

// Resolver loads project-specific modules from Lua source. A single Lua
// state is shared across resolutions and guarded by a mutex; resolved
// modules are cached by identifier so each chunk executes once.
type Resolver struct {
	mu    sync.Mutex
	state *lua.LState
	cache map[string]module.Module
}

// NewResolver creates a Resolver with a fresh Lua state.
func NewResolver() *Resolver {
	return &Resolver{
		state: lua.NewState(),
		cache: make(map[string]module.Module),
	}
}

// Close releases the underlying Lua state. Modules resolved earlier become
// unusable after Close.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		r.state.Close()
		r.state = nil
	}
}

// Resolve implements module.Resolver. It locates the Lua file for the
// identifier under root's CustomModules directory, executes it with a
// scoped package.path extension, and adapts the global table named by the
// identifier's final component.
//
// Failure kinds: ErrModuleNotFound when no file exists for the identifier,
// ErrMalformedModule when the chunk runs but the expected global is missing
// or not a table. Both arrive wrapped in a ResolveError.
func (r *Resolver) Resolve(root, identifier string) (module.Module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == nil {
		return nil, &ResolveError{Identifier: identifier, Err: errors.New("resolver closed")}
	}
	if m, ok := r.cache[identifier]; ok {
		return m, nil
	}

	dir := filepath.Join(root, CustomModulesDir)
	rel := strings.ReplaceAll(identifier, ".", string(filepath.Separator)) + ".lua"
	path := filepath.Join(dir, rel)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ResolveError{Identifier: identifier, Err: ErrModuleNotFound}
		}
		return nil, &ResolveError{Identifier: identifier, Err: err}
	}

	restore := r.extendPackagePath(dir)
	defer restore()

	if err := r.state.DoFile(path); err != nil {
		return nil, &ResolveError{Identifier: identifier, Err: err}
	}

	symbol := identifier
	if i := strings.LastIndex(identifier, "."); i >= 0 {
		symbol = identifier[i+1:]
	}

	tbl, ok := r.state.GetGlobal(symbol).(*lua.LTable)
	if !ok {
		return nil, &ResolveError{Identifier: identifier, Err: ErrMalformedModule}
	}

	m := &luaModule{resolver: r, table: tbl}
	r.cache[identifier] = m
	return m, nil
}

// extendPackagePath prepends dir's Lua search patterns to package.path and
// returns a func that restores the previous value. Callers must hold r.mu.
func (r *Resolver) extendPackagePath(dir string) func() {
	pkg := r.state.GetGlobal("package")
	prev := r.state.GetField(pkg, "path")
	ext := filepath.Join(dir, "?.lua") + ";" + filepath.Join(dir, "?", "init.lua")
	r.state.SetField(pkg, "path", lua.LString(ext+";"+lua.LVAsString(prev)))
	return func() {
		r.state.SetField(pkg, "path", prev)
	}
}

// luaModule adapts a resolved Lua table to the module.Module contract.
type luaModule struct {
	resolver *Resolver
	table    *lua.LTable
}

// CompatibleWith calls the table's compatible_with function with the ROM
// type. A missing function means the module works with every ROM type; a
// Lua error during the call counts as incompatible.
func (m *luaModule) CompatibleWith(t module.ROMType) bool {
	m.resolver.mu.Lock()
	defer m.resolver.mu.Unlock()

	L := m.resolver.state
	if L == nil {
		return false
	}

	v := L.GetField(m.table, "compatible_with")
	if v == lua.LNil {
		return true
	}
	fn, ok := v.(*lua.LFunction)
	if !ok {
		return false
	}

	err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(string(t)))
	if err != nil {
		return false
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret)
}
