package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/rompack/internal/module"
	"github.com/dshills/rompack/internal/project"
)

var newROMType string

var newCmd = &cobra.Command{
	Use:   "new [dir]",
	Short: "Create a project descriptor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := projectDir(args)
		path := filepath.Join(dir, project.DescriptorFilename)

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("descriptor already exists: %s", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		p, err := openProject(dir, module.ROMType(newROMType))
		if err != nil {
			return err
		}
		defer p.Close()

		if err := p.Save(); err != nil {
			return err
		}
		logger.Info("created project",
			"path", path,
			"romtype", p.ROMType(),
			"modules", len(p.Modules().Enabled()))
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [dir]",
	Short: "Show the project descriptor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(projectDir(args), "")
		if err != nil {
			return err
		}
		defer p.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "romtype:  %s\n", p.ROMType())
		fmt.Fprintf(out, "version:  %d (%s)\n", p.Version(), project.VersionName(p.Version()))

		printList(out, "enabled", p.Modules().Enabled())
		printList(out, "disabled", p.Modules().Disabled())
		printList(out, "project-specific", p.Modules().ProjectSpecific())

		resources := p.Resources()
		mods := make([]string, 0, len(resources))
		for name := range resources {
			mods = append(mods, name)
		}
		sort.Strings(mods)

		fmt.Fprintln(out, "resources:")
		for _, name := range mods {
			keys := make([]string, 0, len(resources[name]))
			for key := range resources[name] {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(out, "  %s/%s: %s\n", name, key, resources[name][key])
			}
		}
		return nil
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [dir]",
	Short: "Migrate the descriptor to the current format version",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(projectDir(args), "")
		if err != nil {
			return err
		}
		defer p.Close()

		if p.Version() == project.FormatVersion {
			logger.Info("descriptor already current",
				"version", p.Version(),
				"release", project.VersionName(p.Version()))
			return nil
		}

		from := p.Version()
		if err := p.Upgrade(from, project.FormatVersion); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		logger.Info("upgraded descriptor",
			"from", fmt.Sprintf("%d (%s)", from, project.VersionName(from)),
			"to", fmt.Sprintf("%d (%s)", p.Version(), project.VersionName(p.Version())))
		return nil
	},
}

func printList(out io.Writer, label string, names []string) {
	fmt.Fprintf(out, "%s:\n", label)
	for _, name := range names {
		fmt.Fprintf(out, "  - %s\n", name)
	}
}

func init() {
	newCmd.Flags().StringVarP(&newROMType, "rom-type", "t", "", "ROM type of the project (required)")
	_ = newCmd.MarkFlagRequired("rom-type")
}
