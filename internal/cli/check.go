// Package cli — check.go implements the "pylot check" command.
//
// The check command runs only the probe steps: the runtime check and the
// dependency check. It never installs anything and never launches the
// target, making it safe to run anywhere. The output tells the operator
// what a full run would do.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/pylot/internal/launcher"
	"github.com/mmr-tortoise/pylot/internal/logging"
	"github.com/mmr-tortoise/pylot/internal/model"
)

// NewCheckCommand creates the "check" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the runtime and dependency without launching",
		Long: `Check whether the environment is ready to launch: verify the Python
runtime meets the minimum version and whether the required library is
importable. Nothing is installed and nothing is launched.

Exit code 0 means a full run would launch directly (possibly after a
dependency install, which the output indicates). A missing or outdated
runtime is reported with the usual fatal exit code.

Examples:
  pylot check
  pylot check --json`,

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
			rep, checkErr := l.Check(cmd.Context())

			if jsonOutput {
				printReportJSON(rep)
				return checkErr
			}

			printReportText(rep)
			if checkErr == nil {
				fmt.Println(checkSummary(rep, profile.Module))
			}
			return checkErr
		},
	}

	return cmd
}

// checkSummary states what a full run would do given the probe results.
func checkSummary(rep *model.Report, module string) string {
	dep := rep.StepFor(model.StepDependencyCheck)
	if dep != nil && dep.Failed() {
		return fmt.Sprintf("Ready, but %s is missing: a run would invoke the installer first.", module)
	}
	return "Ready: a run would launch the target directly."
}
