package python

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/mmr-tortoise/pylot/internal/model"
)

// Interpreter is a resolved Python interpreter: the command that answered
// the version query and the version it reported.
type Interpreter struct {
	// Command is the interpreter command as found on PATH (e.g. "python3").
	Command string

	// Version is the parsed interpreter version.
	Version model.Version

	// Banner is the raw version string the interpreter printed
	// (e.g. "Python 3.11.4"), kept for operator-facing messages.
	Banner string
}

// Discover probes the candidate commands in order and returns the first
// one that answers a version query, provided it meets the minimum
// version. Probe output is never shown to the operator; captured stderr
// goes to the logger at debug level.
//
// Two failure modes, both fatal with ExitRuntimeMissing:
//   - no candidate answers the version query (runtime absent);
//   - the first candidate that answers is older than min.
//
// The second case deliberately does not fall through to later
// candidates: the operator's PATH order decides which interpreter the
// target would run under, so a too-old first hit must be surfaced, not
// silently bypassed.
func Discover(ctx context.Context, logger *zap.Logger, candidates []string, min model.Version) (*Interpreter, error) {
	for _, cand := range candidates {
		banner, err := queryVersion(ctx, logger, cand)
		if err != nil {
			logger.Debug("interpreter candidate did not answer",
				zap.String("candidate", cand),
				zap.Error(err))
			continue
		}

		version, err := ParseBanner(banner)
		if err != nil {
			// The command ran but its banner is not a Python version
			// line (e.g. a shadowing wrapper script). Treat it like an
			// absent candidate.
			logger.Debug("interpreter candidate printed an unrecognized banner",
				zap.String("candidate", cand),
				zap.String("banner", banner))
			continue
		}

		logger.Debug("interpreter found",
			zap.String("candidate", cand),
			zap.String("version", version.String()))

		if !min.IsZero() && !version.AtLeast(min) {
			return nil, model.NewCLIError(
				model.ExitRuntimeMissing,
				fmt.Sprintf("%s is version %s, minimum is %s", cand, version, min),
			)
		}

		return &Interpreter{Command: cand, Version: version, Banner: banner}, nil
	}

	return nil, model.NewCLIError(
		model.ExitRuntimeMissing,
		fmt.Sprintf("no Python interpreter found (tried %s)", strings.Join(candidates, ", ")),
	)
}

// queryVersion runs `cand --version` with both output streams captured.
// Returns the combined trimmed banner text on exit 0.
func queryVersion(ctx context.Context, logger *zap.Logger, cand string) (string, error) {
	// #nosec G204 — the candidate list comes from the launch profile, not remote input
	cmd := exec.CommandContext(ctx, cand, "--version")

	// Capture stdout and stderr separately. Python 3.4+ prints the
	// version on stdout; older interpreters print it on stderr.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			logger.Debug("version query stderr",
				zap.String("candidate", cand),
				zap.String("stderr", msg))
		}
		return "", err
	}

	banner := strings.TrimSpace(stdout.String())
	if banner == "" {
		banner = strings.TrimSpace(stderr.String())
	}
	return banner, nil
}

// CheckModule probes whether the named module is importable by the
// interpreter. The probe runs `python -c "import <module>"` with output
// suppressed from the operator.
//
// The boolean result distinguishes the two non-error outcomes:
// importable (true) and import failed (false, the self-heal trigger).
// An error is returned only when the probe itself could not run, which
// should not happen once Discover has succeeded.
func CheckModule(ctx context.Context, logger *zap.Logger, interp *Interpreter, module string) (bool, error) {
	// #nosec G204 — module name comes from the launch profile
	cmd := exec.CommandContext(ctx, interp.Command, "-c", "import "+module)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		logger.Debug("module importable",
			zap.String("module", module),
			zap.String("interpreter", interp.Command))
		return true, nil
	}

	// A non-zero exit means the probe ran and the import failed — the
	// expected "dependency missing" outcome, not an error. Anything else
	// (the interpreter vanished between probes) is a real failure.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("module not importable",
			zap.String("module", module),
			zap.Int("exitCode", exitErr.ExitCode()),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
		return false, nil
	}

	return false, model.WrapCLIError(
		model.ExitGeneralError,
		fmt.Sprintf("import probe for %q could not run", module),
		err,
	)
}
