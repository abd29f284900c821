package module

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func mapLookup(mods map[string]Module) LookupFunc {
	return func(name string) (Module, bool) {
		m, ok := mods[name]
		return m, ok
	}
}

func TestRegistryModules(t *testing.T) {
	manifest := "# built-in modules\n\na.First\nb.Second\n\n# trailing comment\nc.Third\n"
	reg := NewRegistry(manifest, mapLookup(map[string]Module{
		"a.First":  fakeModule{},
		"b.Second": fakeModule{},
		"c.Third":  fakeModule{},
	}))

	mods, err := reg.Modules()
	if err != nil {
		t.Fatalf("Modules() error = %v", err)
	}

	want := []string{"a.First", "b.Second", "c.Third"}
	if len(mods) != len(want) {
		t.Fatalf("Modules() len = %d, want %d", len(mods), len(want))
	}
	for i, d := range mods {
		if d.Name != want[i] {
			t.Errorf("Modules()[%d] = %q, want %q", i, d.Name, want[i])
		}
	}
}

func TestRegistryModulesUnresolvable(t *testing.T) {
	reg := NewRegistry("a.First\nb.Missing\n", mapLookup(map[string]Module{
		"a.First": fakeModule{},
	}))

	_, err := reg.Modules()
	if !errors.Is(err, ErrModuleResolution) {
		t.Fatalf("Modules() error = %v, want ErrModuleResolution", err)
	}

	var re *ResolutionError
	if !errors.As(err, &re) {
		t.Fatal("Modules() error is not a *ResolutionError")
	}
	if re.Name != "b.Missing" {
		t.Errorf("ResolutionError.Name = %q, want %q", re.Name, "b.Missing")
	}
}

func TestRegistryDiscoversOnce(t *testing.T) {
	var lookups atomic.Int32
	reg := NewRegistry("a.First\n", func(name string) (Module, bool) {
		lookups.Add(1)
		return fakeModule{}, true
	})

	if _, err := reg.Modules(); err != nil {
		t.Fatalf("Modules() error = %v", err)
	}
	if _, err := reg.Modules(); err != nil {
		t.Fatalf("Modules() second call error = %v", err)
	}

	if n := lookups.Load(); n != 1 {
		t.Errorf("lookup called %d times, want 1", n)
	}
}

func TestRegistryCachesFailure(t *testing.T) {
	mods := map[string]Module{}
	reg := NewRegistry("a.First\n", mapLookup(mods))

	if _, err := reg.Modules(); !errors.Is(err, ErrModuleResolution) {
		t.Fatalf("Modules() error = %v, want ErrModuleResolution", err)
	}

	// Discovery failure is fatal and cached; resolving later does not help.
	mods["a.First"] = fakeModule{}
	if _, err := reg.Modules(); !errors.Is(err, ErrModuleResolution) {
		t.Errorf("Modules() after catalog fix error = %v, want cached ErrModuleResolution", err)
	}
}

func TestRegistrySingleFlight(t *testing.T) {
	var lookups atomic.Int32
	reg := NewRegistry("a.First\nb.Second\n", func(name string) (Module, bool) {
		lookups.Add(1)
		return fakeModule{}, true
	})

	const callers = 16
	var wg sync.WaitGroup
	results := make([][]Descriptor, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mods, err := reg.Modules()
			if err != nil {
				t.Errorf("Modules() error = %v", err)
				return
			}
			results[i] = mods
		}(i)
	}
	wg.Wait()

	// One lookup per manifest entry, regardless of caller count.
	if n := lookups.Load(); n != 2 {
		t.Errorf("lookup called %d times, want 2", n)
	}

	for i, mods := range results {
		if len(mods) != 2 {
			t.Errorf("caller %d saw %d modules, want 2", i, len(mods))
		}
	}
}

func TestRegistryEmptyManifest(t *testing.T) {
	reg := NewRegistry("# nothing enabled\n\n", mapLookup(nil))

	mods, err := reg.Modules()
	if err != nil {
		t.Fatalf("Modules() error = %v", err)
	}
	if len(mods) != 0 {
		t.Errorf("Modules() len = %d, want 0", len(mods))
	}
}
