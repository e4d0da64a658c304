package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/mmr-tortoise/pylot/internal/config"
	"github.com/mmr-tortoise/pylot/internal/installer"
	"github.com/mmr-tortoise/pylot/internal/model"
	"github.com/mmr-tortoise/pylot/internal/python"
)

// Runner abstracts the four sub-process touchpoints of the bootstrap
// sequence. The production implementation shells out; tests substitute a
// fake to verify sequencing without spawning processes.
type Runner interface {
	// Discover finds a usable interpreter per the profile's candidate
	// list and minimum version. Probe output is suppressed.
	Discover(ctx context.Context) (*python.Interpreter, error)

	// CheckModule probes whether the profile's module is importable.
	// Probe output is suppressed. A false result is the self-heal
	// trigger, not an error.
	CheckModule(ctx context.Context, interp *python.Interpreter) (bool, error)

	// Install runs the delegated installer once, with its output
	// streamed through. Returns the installer's exit code.
	Install(ctx context.Context, interp *python.Interpreter) (int, error)

	// Launch runs the target program with output passed through and
	// returns its exit code. The error is non-nil only when the target
	// could not be started at all.
	Launch(ctx context.Context, interp *python.Interpreter) (int, error)
}

// execRunner is the production Runner. Target and installer output is
// wired to the launcher's pass-through streams; probe output never is.
type execRunner struct {
	profile *config.Profile
	logger  *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *execRunner) Discover(ctx context.Context) (*python.Interpreter, error) {
	return python.Discover(ctx, r.logger, r.profile.Interpreters, r.profile.MinVersion)
}

func (r *execRunner) CheckModule(ctx context.Context, interp *python.Interpreter) (bool, error) {
	return python.CheckModule(ctx, r.logger, interp, r.profile.Module)
}

func (r *execRunner) Install(ctx context.Context, interp *python.Interpreter) (int, error) {
	return installer.Run(ctx, r.logger, interp.Command, r.profile.InstallerPath(), r.profile.Dir, r.stdout, r.stderr)
}

// Launch runs the target program through the interpreter. Stdin, stdout,
// and stderr are all passed through verbatim — the target owns the
// terminal until it exits. The profile's dotenv overlay is appended to
// the target's environment here and nowhere else.
func (r *execRunner) Launch(ctx context.Context, interp *python.Interpreter) (int, error) {
	overlay, err := r.profile.EnvOverlay()
	if err != nil {
		return -1, err
	}

	args := append([]string{r.profile.TargetPath()}, r.profile.TargetArgs...)
	// #nosec G204 — target and args come from the launch profile
	cmd := exec.CommandContext(ctx, interp.Command, args...)
	cmd.Dir = r.profile.Dir
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if len(overlay) > 0 {
		cmd.Env = append(os.Environ(), overlay...)
	}

	r.logger.Debug("launching target",
		zap.String("interpreter", interp.Command),
		zap.Strings("args", args))

	err = cmd.Run()
	if err == nil {
		return 0, nil
	}

	// A non-zero target exit is an outcome to mirror, not a launcher
	// error. Only a target that never started is an error here.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, model.WrapCLIError(
		model.ExitGeneralError,
		fmt.Sprintf("failed to start %s", r.profile.Target),
		err,
	)
}
