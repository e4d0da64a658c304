// Package installer delegates dependency installation to an external
// installer program for the pylot CLI.
//
// Unlike the presence probes in internal/python, the installer's output
// is STREAMED through to the operator: installation is slow and
// failure-prone, and a silent installer would leave the operator unable
// to diagnose why it failed. The installer is invoked at most once per
// launcher run and is never retried — on failure the operator is told to
// install manually.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/mmr-tortoise/pylot/internal/model"
)

// Run executes the installer script through the given interpreter command,
// with stdout/stderr wired to the provided writers so progress is visible
// live. It blocks until the installer exits.
//
// Returns the installer's exit code alongside the error so callers can
// record it. A non-zero exit yields a CLIError with ExitInstallFailed
// whose message carries the manual-installation instruction.
func Run(ctx context.Context, logger *zap.Logger, interpCmd, script, dir string, stdout, stderr io.Writer) (int, error) {
	logger.Debug("running installer",
		zap.String("interpreter", interpCmd),
		zap.String("script", script))

	// #nosec G204 — interpreter and script come from the launch profile
	cmd := exec.CommandContext(ctx, interpCmd, script)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		logger.Debug("installer finished", zap.Duration("elapsed", elapsed))
		return 0, nil
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}

	return code, model.WrapCLIError(
		model.ExitInstallFailed,
		fmt.Sprintf("installer %s exited with code %d", script, code),
		err,
	)
}
