// Package cli implements the rompack command tree.
package cli

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/rompack/internal/module"
	"github.com/dshills/rompack/internal/project"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var rootCmd = &cobra.Command{
	Use:   "rompack",
	Short: "Manage rompack project descriptors",
	Long: `rompack decomposes a ROM into named, per-module resource files and
tracks them in a project descriptor. This command creates, inspects,
and migrates descriptors and toggles the editing modules a project uses.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(syncCmd)
}

// projectDir interprets an optional trailing directory argument.
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[len(args)-1]
	}
	return "."
}

// openProject opens the descriptor in dir with the default registry and
// resolver.
func openProject(dir string, romType module.ROMType) (*project.Project, error) {
	return project.Open(filepath.Join(dir, project.DescriptorFilename), romType)
}
