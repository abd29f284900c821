package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [dir]",
	Short: "List the active modules, in run order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(projectDir(args), "")
		if err != nil {
			return err
		}
		defer p.Close()

		active, err := p.LoadModules()
		if err != nil {
			return err
		}
		for _, d := range active {
			fmt.Fprintln(cmd.OutOrStdout(), d.Name)
		}
		return nil
	},
}

var enableCmd = &cobra.Command{
	Use:   "enable <module> [dir]",
	Short: "Enable an editing module",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(projectDir(args[1:]), "")
		if err != nil {
			return err
		}
		defer p.Close()

		p.Modules().Enable(args[0])
		if err := p.Save(); err != nil {
			return err
		}
		logger.Info("enabled module", "module", args[0])
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <module> [dir]",
	Short: "Disable an editing module",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(projectDir(args[1:]), "")
		if err != nil {
			return err
		}
		defer p.Close()

		p.Modules().Disable(args[0])
		if err := p.Save(); err != nil {
			return err
		}
		logger.Info("disabled module", "module", args[0])
		return nil
	},
}

var syncDisabled bool

var syncCmd = &cobra.Command{
	Use:   "sync [dir]",
	Short: "Record built-in modules the descriptor does not know about yet",
	Long: `sync reconciles the descriptor against the current built-in module
registry. Compatible modules that appear in neither the enabled nor the
disabled list are appended to the enabled list, or to the disabled list
with --disabled. Running sync twice changes nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(projectDir(args), "")
		if err != nil {
			return err
		}
		defer p.Close()

		before := len(p.Modules().Enabled()) + len(p.Modules().Disabled())
		if err := p.Modules().AddMissingDefaults(!syncDisabled); err != nil {
			return err
		}
		after := len(p.Modules().Enabled()) + len(p.Modules().Disabled())

		if err := p.Save(); err != nil {
			return err
		}
		logger.Info("synchronized modules", "added", after-before)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDisabled, "disabled", false, "record missing modules as disabled")
}
