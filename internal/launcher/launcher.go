package launcher

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mmr-tortoise/pylot/internal/config"
	"github.com/mmr-tortoise/pylot/internal/console"
	"github.com/mmr-tortoise/pylot/internal/model"
	"github.com/mmr-tortoise/pylot/internal/python"
)

// Launcher sequences the bootstrap steps for one run and records their
// typed outcomes into a model.Report.
type Launcher struct {
	profile *config.Profile
	logger  *zap.Logger
	runner  Runner
}

// Option customizes a Launcher.
type Option func(*Launcher)

// WithRunner substitutes the sub-process runner. Used by tests.
func WithRunner(r Runner) Option {
	return func(l *Launcher) { l.runner = r }
}

// New creates a Launcher for the given profile. By default sub-processes
// run for real, with the target's streams wired to the launcher's own
// stdin/stdout/stderr.
func New(profile *config.Profile, logger *zap.Logger, opts ...Option) *Launcher {
	l := &Launcher{
		profile: profile,
		logger:  logger,
		runner: &execRunner{
			profile: profile,
			logger:  logger,
			stdin:   os.Stdin,
			stdout:  os.Stdout,
			stderr:  os.Stderr,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewWithStreams is New with explicit target/installer streams, for
// callers (and tests) that do not want the process-wide ones.
func NewWithStreams(profile *config.Profile, logger *zap.Logger, stdin io.Reader, stdout, stderr io.Writer, opts ...Option) *Launcher {
	l := New(profile, logger, opts...)
	if er, ok := l.runner.(*execRunner); ok {
		er.stdin = stdin
		er.stdout = stdout
		er.stderr = stderr
	}
	return l
}

// Run executes the full bootstrap sequence and returns the report
// alongside the first fatal error, if any. The report always reflects
// exactly the steps that ran:
//
//  1. Runtime check. Fatal if no acceptable interpreter is found; no
//     retry, nothing after it runs.
//  2. Dependency check. Success skips straight to launch.
//  3. Install, only if the dependency check failed. One attempt; a zero
//     installer exit is trusted without re-probing the module. Fatal on
//     a non-zero exit.
//  4. Launch, with the target's streams passed through. A non-zero
//     target exit is recorded and returned as a CLIError whose code
//     mirrors the target's exit code exactly.
func (l *Launcher) Run(ctx context.Context) (*model.Report, error) {
	rep := &model.Report{}

	interp, err := l.checkRuntime(ctx, rep)
	if err != nil {
		return rep, err
	}

	importable, err := l.checkDependency(ctx, rep, interp)
	if err != nil {
		return rep, err
	}

	if importable {
		rep.Record(model.StepResult{Kind: model.StepInstall, Status: model.StatusSkipped})
	} else {
		if err := l.install(ctx, rep, interp); err != nil {
			return rep, err
		}
		rep.Installed = true
	}

	return rep, l.launch(ctx, rep, interp)
}

// Check executes only the probe steps (runtime and dependency) and
// reports what a full run would do, without installing or launching.
// Backs the `pylot check` command.
func (l *Launcher) Check(ctx context.Context) (*model.Report, error) {
	rep := &model.Report{}

	interp, err := l.checkRuntime(ctx, rep)
	if err != nil {
		return rep, err
	}

	importable, err := l.checkDependency(ctx, rep, interp)
	if err != nil {
		return rep, err
	}

	if importable {
		rep.Record(model.StepResult{Kind: model.StepInstall, Status: model.StatusSkipped})
	}
	return rep, nil
}

// Install runs the runtime check and then the installer unconditionally,
// regardless of whether the dependency is already importable. Backs the
// `pylot install` command (the manual-heal path).
func (l *Launcher) Install(ctx context.Context) (*model.Report, error) {
	rep := &model.Report{}

	interp, err := l.checkRuntime(ctx, rep)
	if err != nil {
		return rep, err
	}

	if err := l.install(ctx, rep, interp); err != nil {
		return rep, err
	}
	rep.Installed = true
	return rep, nil
}

func (l *Launcher) checkRuntime(ctx context.Context, rep *model.Report) (*python.Interpreter, error) {
	start := time.Now()
	interp, err := l.runner.Discover(ctx)
	if err != nil {
		rep.Record(model.StepResult{
			Kind:     model.StepRuntimeCheck,
			Status:   model.StatusFailed,
			Detail:   err.Error(),
			ExitCode: 1,
			Duration: time.Since(start),
		})
		return nil, err
	}

	rep.Record(model.StepResult{
		Kind:     model.StepRuntimeCheck,
		Status:   model.StatusOK,
		Detail:   interp.Banner,
		Duration: time.Since(start),
	})
	rep.Interpreter = interp.Command
	rep.InterpreterVersion = interp.Version.String()
	return interp, nil
}

func (l *Launcher) checkDependency(ctx context.Context, rep *model.Report, interp *python.Interpreter) (bool, error) {
	start := time.Now()
	importable, err := l.runner.CheckModule(ctx, interp)
	if err != nil {
		rep.Record(model.StepResult{
			Kind:     model.StepDependencyCheck,
			Status:   model.StatusFailed,
			Detail:   err.Error(),
			ExitCode: 1,
			Duration: time.Since(start),
		})
		return false, err
	}

	res := model.StepResult{
		Kind:     model.StepDependencyCheck,
		Status:   model.StatusOK,
		Detail:   l.profile.Module + " importable",
		Duration: time.Since(start),
	}
	if !importable {
		// Not fatal: a missing module is the trigger for the install
		// step, so it is recorded as a failed probe but the run goes on.
		res.Status = model.StatusFailed
		res.Detail = l.profile.Module + " not importable"
		res.ExitCode = 1
	}
	rep.Record(res)
	return importable, nil
}

func (l *Launcher) install(ctx context.Context, rep *model.Report, interp *python.Interpreter) error {
	start := time.Now()
	code, err := l.runner.Install(ctx, interp)
	if err != nil {
		rep.Record(model.StepResult{
			Kind:     model.StepInstall,
			Status:   model.StatusFailed,
			Detail:   err.Error(),
			ExitCode: code,
			Duration: time.Since(start),
		})
		return err
	}

	rep.Record(model.StepResult{
		Kind:     model.StepInstall,
		Status:   model.StatusOK,
		Detail:   l.profile.Installer + " succeeded",
		Duration: time.Since(start),
	})
	return nil
}

func (l *Launcher) launch(ctx context.Context, rep *model.Report, interp *python.Interpreter) error {
	start := time.Now()
	code, err := l.runner.Launch(ctx, interp)
	if err != nil {
		rep.Record(model.StepResult{
			Kind:     model.StepLaunch,
			Status:   model.StatusFailed,
			Detail:   err.Error(),
			ExitCode: code,
			Duration: time.Since(start),
		})
		rep.TargetExitCode = code
		return err
	}

	rep.TargetExitCode = code
	if code != 0 {
		rep.Record(model.StepResult{
			Kind:     model.StepLaunch,
			Status:   model.StatusFailed,
			Detail:   console.TargetFailedMessage(l.profile.Target, code),
			ExitCode: code,
			Duration: time.Since(start),
		})
		// The launcher's exit code mirrors the target's exit code,
		// so scripts see exactly what the server returned.
		return model.MirrorExitError(code, console.TargetFailedMessage(l.profile.Target, code))
	}

	rep.Record(model.StepResult{
		Kind:     model.StepLaunch,
		Status:   model.StatusOK,
		Duration: time.Since(start),
	})
	return nil
}
