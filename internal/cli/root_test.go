package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/rompack/internal/project"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rompack %s: %v", strings.Join(args, " "), err)
	}
	return buf.String()
}

func TestNewInfoModules(t *testing.T) {
	dir := t.TempDir()

	runCommand(t, "new", "--rom-type", "snes-lorom", dir)

	if _, err := os.Stat(filepath.Join(dir, project.DescriptorFilename)); err != nil {
		t.Fatalf("descriptor not created: %v", err)
	}

	out := runCommand(t, "info", dir)
	if !strings.Contains(out, "romtype:  snes-lorom") {
		t.Errorf("info output missing romtype:\n%s", out)
	}
	if !strings.Contains(out, "snes.MapModule") {
		t.Errorf("info output missing enabled module:\n%s", out)
	}

	out = runCommand(t, "modules", dir)
	if !strings.Contains(out, "generic.HeaderModule") || !strings.Contains(out, "snes.TextModule") {
		t.Errorf("modules output missing built-ins:\n%s", out)
	}
}

func TestDisableEnable(t *testing.T) {
	dir := t.TempDir()
	runCommand(t, "new", "--rom-type", "snes-hirom", dir)

	runCommand(t, "disable", "snes.MapModule", dir)
	out := runCommand(t, "modules", dir)
	if strings.Contains(out, "snes.MapModule") {
		t.Errorf("modules output still lists disabled module:\n%s", out)
	}

	runCommand(t, "enable", "snes.MapModule", dir)
	out = runCommand(t, "modules", dir)
	if !strings.Contains(out, "snes.MapModule") {
		t.Errorf("modules output missing re-enabled module:\n%s", out)
	}
}
