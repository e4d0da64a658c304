// Package cli — install.go implements the "pylot install" command.
//
// The install command runs the delegated installer unconditionally: the
// manual-heal path the fatal install message points the operator to.
// Unlike the bootstrap's self-heal step, it does not first probe whether
// the dependency is already importable — re-running an installer is the
// operator's way of forcing a repair.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/pylot/internal/launcher"
	"github.com/mmr-tortoise/pylot/internal/logging"
)

// NewInstallCommand creates the "install" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Run the dependency installer without launching",
		Long: `Run the delegated installer program through the discovered Python
interpreter, regardless of whether the dependency is already importable.
The installer's output is streamed to the terminal. The target program
is not launched.

Examples:
  pylot install
  pylot install --config deploy/pylot.yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile()
			if err != nil {
				return err
			}

			logger, err := logging.New(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			l := launcher.New(profile, logger)
			rep, installErr := l.Install(cmd.Context())

			if jsonOutput {
				printReportJSON(rep)
				return installErr
			}

			printReportText(rep)
			if installErr == nil {
				fmt.Printf("Installed dependencies via %s.\n", profile.Installer)
			}
			return installErr
		},
	}

	return cmd
}
