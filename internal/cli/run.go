// Package cli — run.go implements the "pylot run" command, which is also
// what the bare "pylot" invocation executes.
//
// The run command performs the full bootstrap sequence: runtime check,
// dependency check, a single delegated install if the dependency is
// missing, then the target launch with the terminal handed over to the
// server process. The launcher's exit code mirrors the target's.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/pylot/internal/console"
	"github.com/mmr-tortoise/pylot/internal/launcher"
	"github.com/mmr-tortoise/pylot/internal/logging"
	"github.com/mmr-tortoise/pylot/internal/model"
)

// NewRunCommand creates the "run" cobra command, an explicit alias for
// the root command's bare invocation.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full bootstrap and launch the server",
		Long: `Run the complete bootstrap sequence: verify the Python runtime, verify
the required library is importable, install dependencies via the
delegated installer if needed, then launch the target program.

The target program's output is passed through to the terminal verbatim.
pylot's exit code is 0 when the target exits cleanly and mirrors the
target's own exit code when it does not.

Examples:
  pylot
  pylot run
  pylot run --config deploy/pylot.yaml
  pylot run --json --no-pause`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context())
		},
	}

	return cmd
}

// runBootstrap is the main logic function shared by the root command and
// the run subcommand.
func runBootstrap(ctx context.Context) error {
	profile, err := loadProfile()
	if err != nil {
		return err
	}

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Presentation side effect, once, before anything else: name the
	// terminal window so the operator can find it among others.
	// Meaningless (and noisy) in JSON mode.
	if !jsonOutput {
		console.SetTitle(os.Stdout, profile.Title)
	}

	l := launcher.New(profile, logger)
	rep, runErr := l.Run(ctx)

	if jsonOutput {
		printReportJSON(rep)
	}

	return runErr
}

// printReportJSON writes the run report as indented JSON on stdout.
// Reports go to stdout even for failed runs — the error itself is
// printed to stderr separately by Execute.
func printReportJSON(rep *model.Report) {
	data, _ := json.MarshalIndent(rep, "", "  ")
	fmt.Println(string(data))
}

// printReportText writes the per-step outcomes as human-readable lines.
// Used by the check and install subcommands; the run command stays
// silent in text mode so the target owns the terminal.
func printReportText(rep *model.Report) {
	for _, step := range rep.Steps {
		fmt.Printf("  %s\n", step.String())
	}
}
