// Package cli implements the cobra-based CLI commands for pylot.
//
// The root command with no arguments runs the full bootstrap sequence —
// the launcher is built to be double-clicked or invoked bare in a
// terminal window. Subcommands (run, check, install) are defined in
// their own files within this package. This file defines the root
// command, global flags, and the exit-code handling in Execute.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/pylot/internal/config"
	"github.com/mmr-tortoise/pylot/internal/console"
	"github.com/mmr-tortoise/pylot/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// JSON mode implies no interactive pause — it exists for machine
	// consumption where blocking on stdin would hang the caller.
	jsonOutput bool

	// verbose enables debug-level diagnostic logging, including the
	// captured stderr of the suppressed probes.
	verbose bool

	// noPause disables the pause-for-acknowledgment on fatal paths,
	// for non-interactive use (CI, scripts).
	noPause bool

	// configPath is an explicit profile file path. Empty means discover
	// pylot.json / pylot.yaml in the current directory.
	configPath string
)

// activeProfile is the profile of the command currently executing. It is
// set by loadProfile so that Execute can honor the profile's pause
// setting and enrich fatal messages with profile context.
var activeProfile *config.Profile

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// Running the root command bare executes the full bootstrap, preserving
// the original zero-argument launcher contract. The subcommands cover
// the partial flows: check (probes only) and install (force the
// installer).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pylot",
		Short: "Bootstrap and launch a Python server",
		Long: `pylot prepares and launches a Python server process: it verifies the
Python runtime is present, verifies the required library is importable,
self-heals a missing dependency by delegating to an installer script,
and then hands the terminal over to the server.

Fatal conditions are reported with a path-specific message and, when
running interactively, wait for acknowledgment so the terminal window
does not vanish before the diagnostic is read.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The launcher takes no positional arguments.
		Args: cobra.NoArgs,

		// The bare invocation is the full bootstrap.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context())
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (implies --no-pause)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&noPause, "no-pause", false, "Do not wait for acknowledgment on fatal errors")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a launch profile (default: discover pylot.json/pylot.yaml)")

	// Register subcommands. Each subcommand is defined in its own file
	// (run.go, check.go, install.go) and returns a *cobra.Command.
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewInstallCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// Fatal paths print a path-specific diagnostic, optionally block for
// operator acknowledgment (the launcher is meant to run in a terminal
// window that must not vanish before the operator reads the message),
// and exit with the error's code. When the target program itself failed,
// that code is the target's own exit code, mirrored.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(fatalMessage(cliErr), cliErr.Err)
		pauseOnFatal()
		os.Exit(exitStatus(cliErr.Code))
	}

	// Generic error — exit with code 1.
	printError(err.Error(), nil)
	pauseOnFatal()
	os.Exit(int(model.ExitGeneralError))
}

// fatalMessage renders the operator-facing diagnostic for a typed error.
// The runtime-missing and install-failed paths get the full guidance
// text; everything else already carries its message.
func fatalMessage(cliErr *model.CLIError) string {
	if activeProfile == nil {
		return cliErr.Message
	}

	// A mirrored code is the target program's exit code, not one of the
	// launcher's own constants; a target exiting 2 or 3 must not be
	// diagnosed as a missing runtime or a failed install.
	if cliErr.Mirrored {
		return cliErr.Message
	}

	switch cliErr.Code {
	case model.ExitRuntimeMissing:
		return console.RuntimeMissingMessage(activeProfile.MinVersion, cliErr.Message)
	case model.ExitInstallFailed:
		return console.InstallFailedMessage(activeProfile.Installer, cliErr.Message)
	default:
		return cliErr.Message
	}
}

// exitStatus clamps an ExitCode to a valid OS exit status. Sub-processes
// killed by a signal report -1, which would wrap around in os.Exit.
func exitStatus(code model.ExitCode) int {
	if code <= 0 {
		return int(model.ExitGeneralError)
	}
	return int(code)
}

// pauseOnFatal blocks for operator acknowledgment unless pausing is
// disabled by flag, by JSON mode, or by the active profile.
func pauseOnFatal() {
	if noPause || jsonOutput {
		return
	}
	if activeProfile != nil && !activeProfile.Pause {
		return
	}
	console.Pause(os.Stdin, os.Stderr)
}

// loadProfile loads the launch profile per the --config flag (explicit
// path) or discovery in the current directory, and records it as the
// active profile for Execute.
func loadProfile() (*config.Profile, error) {
	var (
		profile *config.Profile
		err     error
	)
	if configPath != "" {
		profile, err = config.LoadFile(configPath)
	} else {
		profile, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	activeProfile = profile
	return profile, nil
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		// JSON errors go to stderr too — stdout is reserved for
		// successful command output.
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
