package luamod

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

// writeModule writes a Lua source file under root/CustomModules.
func writeModule(t *testing.T, root, rel, src string) {
	t.Helper()
	path := filepath.Join(root, CustomModulesDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, filepath.Join("custom", "MapPatch.lua"), "MapPatch = {}\n")

	r := NewResolver()
	defer r.Close()

	m, err := r.Resolve(root, "custom.MapPatch")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// No compatible_with function means compatible with everything.
	if !m.CompatibleWith("snes-lorom") {
		t.Error("CompatibleWith(snes-lorom) = false, want true")
	}
	if !m.CompatibleWith("gb") {
		t.Error("CompatibleWith(gb) = false, want true")
	}
}

func TestResolveDotlessIdentifier(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Solo.lua", "Solo = {}\n")

	r := NewResolver()
	defer r.Close()

	if _, err := r.Resolve(root, "Solo"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
}

func TestResolveCompatibleWith(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, filepath.Join("custom", "LoROMOnly.lua"), `
LoROMOnly = {
	compatible_with = function(romtype)
		return romtype == "snes-lorom"
	end,
}
`)

	r := NewResolver()
	defer r.Close()

	m, err := r.Resolve(root, "custom.LoROMOnly")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if !m.CompatibleWith("snes-lorom") {
		t.Error("CompatibleWith(snes-lorom) = false, want true")
	}
	if m.CompatibleWith("snes-hirom") {
		t.Error("CompatibleWith(snes-hirom) = true, want false")
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver()
	defer r.Close()

	_, err := r.Resolve(t.TempDir(), "custom.Nowhere")
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrModuleNotFound", err)
	}

	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatal("Resolve() error is not a *ResolveError")
	}
	if re.Identifier != "custom.Nowhere" {
		t.Errorf("ResolveError.Identifier = %q, want %q", re.Identifier, "custom.Nowhere")
	}
}

func TestResolveMalformed(t *testing.T) {
	root := t.TempDir()
	// Defines a global, but not the one the identifier names.
	writeModule(t, root, filepath.Join("custom", "Broken.lua"), "SomethingElse = {}\n")

	r := NewResolver()
	defer r.Close()

	_, err := r.Resolve(root, "custom.Broken")
	if !errors.Is(err, ErrMalformedModule) {
		t.Fatalf("Resolve() error = %v, want ErrMalformedModule", err)
	}
}

func TestResolveCaches(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, filepath.Join("custom", "Counted.lua"), `
runs = (runs or 0) + 1
Counted = {}
`)

	r := NewResolver()
	defer r.Close()

	m1, err := r.Resolve(root, "custom.Counted")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	m2, err := r.Resolve(root, "custom.Counted")
	if err != nil {
		t.Fatalf("Resolve() second call error = %v", err)
	}

	if m1 != m2 {
		t.Error("Resolve() returned different modules for the same identifier")
	}
	if n := lua.LVAsNumber(r.state.GetGlobal("runs")); n != 1 {
		t.Errorf("chunk executed %v times, want 1", n)
	}
}

func TestResolveWithRequire(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "helper.lua", "return { value = 42 }\n")
	writeModule(t, root, filepath.Join("custom", "UsesHelper.lua"), `
local helper = require("helper")
UsesHelper = { value = helper.value }
`)

	r := NewResolver()
	defer r.Close()

	if _, err := r.Resolve(root, "custom.UsesHelper"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	v := r.state.GetField(r.state.GetGlobal("UsesHelper"), "value")
	if lua.LVAsNumber(v) != 42 {
		t.Errorf("UsesHelper.value = %v, want 42", v)
	}
}

func TestPackagePathRestored(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, filepath.Join("custom", "Good.lua"), "Good = {}\n")
	writeModule(t, root, filepath.Join("custom", "Bad.lua"), "WrongGlobal = {}\n")

	r := NewResolver()
	defer r.Close()

	before := r.state.GetField(r.state.GetGlobal("package"), "path").String()

	if _, err := r.Resolve(root, "custom.Good"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := r.state.GetField(r.state.GetGlobal("package"), "path").String(); got != before {
		t.Errorf("package.path after success = %q, want %q", got, before)
	}

	if _, err := r.Resolve(root, "custom.Bad"); !errors.Is(err, ErrMalformedModule) {
		t.Fatalf("Resolve() error = %v, want ErrMalformedModule", err)
	}
	if got := r.state.GetField(r.state.GetGlobal("package"), "path").String(); got != before {
		t.Errorf("package.path after failure = %q, want %q", got, before)
	}
}

func TestResolverClosed(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Solo.lua", "Solo = {}\n")

	r := NewResolver()
	r.Close()

	if _, err := r.Resolve(root, "Solo"); err == nil {
		t.Error("Resolve() after Close succeeded, want error")
	}
}
