// Package model defines the domain types for the pylot CLI.
//
// All entities in this package are transient — they describe the outcome
// of a single bootstrap run and are never persisted. The launcher produces
// a Report, the CLI layer renders it (text or JSON) and maps it to a
// process exit code.
package model

import (
	"fmt"
	"strings"
	"time"
)

// StepKind identifies one step of the bootstrap sequence. Steps always
// execute in the order they are declared here:
//
//	runtime-check → dependency-check → [install] → launch
//
// The install step only runs when the dependency check fails; it executes
// at most once per run.
type StepKind string

const (
	// StepRuntimeCheck probes the Python interpreter with a version query.
	StepRuntimeCheck StepKind = "runtime-check"

	// StepDependencyCheck probes whether the required module is importable.
	StepDependencyCheck StepKind = "dependency-check"

	// StepInstall delegates to the installer program to fetch dependencies.
	StepInstall StepKind = "install"

	// StepLaunch runs the target program with output passed through.
	StepLaunch StepKind = "launch"
)

// String returns the string representation of StepKind.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands and logging.
func (k StepKind) String() string {
	return string(k)
}

// IsValid checks whether the StepKind value is one of the
// predefined valid steps.
func (k StepKind) IsValid() bool {
	switch k {
	case StepRuntimeCheck, StepDependencyCheck, StepInstall, StepLaunch:
		return true
	default:
		return false
	}
}

// ParseStepKind converts a string to a StepKind.
// Returns an error if the string does not match any valid step.
func ParseStepKind(s string) (StepKind, error) {
	kind := StepKind(strings.ToLower(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid step kind: %q (valid: runtime-check, dependency-check, install, launch)", s)
	}
	return kind, nil
}

// StepStatus represents the outcome of a single bootstrap step.
type StepStatus string

const (
	// StatusOK indicates the step completed successfully.
	StatusOK StepStatus = "ok"

	// StatusSkipped indicates the step did not need to run.
	// Currently only the install step can be skipped (the dependency
	// was already importable).
	StatusSkipped StepStatus = "skipped"

	// StatusFailed indicates the step ran and failed. For pre-launch
	// steps this is fatal; for the launch step it means the target
	// program exited non-zero.
	StatusFailed StepStatus = "failed"
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid checks whether the StepStatus value is one of the
// predefined valid statuses.
func (s StepStatus) IsValid() bool {
	switch s {
	case StatusOK, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// ParseStepStatus converts a string to a StepStatus.
// Returns an error if the string does not match any valid status.
func ParseStepStatus(s string) (StepStatus, error) {
	status := StepStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid step status: %q (valid: ok, skipped, failed)", s)
	}
	return status, nil
}

// StepResult records the typed outcome of one bootstrap step. The launcher
// produces one StepResult per executed (or skipped) step, in execution
// order. Exit codes from sub-processes are captured here once and then
// only read — they are never re-derived from OS state.
type StepResult struct {
	// Kind identifies which bootstrap step this result belongs to.
	Kind StepKind `json:"kind"`

	// Status is the outcome of the step.
	Status StepStatus `json:"status"`

	// Detail is a short human-readable note about the outcome, e.g. the
	// interpreter version found or the reason a probe failed. May be empty.
	Detail string `json:"detail,omitempty"`

	// ExitCode is the exit code of the sub-process backing this step.
	// Zero for successful steps and for skipped steps (no process ran).
	ExitCode int `json:"exitCode"`

	// Duration is how long the step took, including sub-process runtime.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether this step ran and failed.
func (r *StepResult) Failed() bool {
	return r.Status == StatusFailed
}

// String returns a human-readable one-line representation of the result.
// Format: "kind: status (detail)".
func (r *StepResult) String() string {
	if r.Detail == "" {
		return fmt.Sprintf("%s: %s", r.Kind, r.Status)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Kind, r.Status, r.Detail)
}

// Report aggregates the outcome of one full bootstrap run. It is the
// launcher's sole output besides the error it returns; the CLI layer
// renders it in text or JSON form.
type Report struct {
	// Steps holds the per-step results in execution order. A run that
	// halts early contains only the steps that actually executed.
	Steps []StepResult `json:"steps"`

	// Interpreter is the resolved interpreter path, once the runtime
	// check succeeds. Empty if the runtime check failed.
	Interpreter string `json:"interpreter,omitempty"`

	// InterpreterVersion is the version reported by the runtime check.
	InterpreterVersion string `json:"interpreterVersion,omitempty"`

	// Installed reports whether the installer was invoked and succeeded
	// during this run. False when the dependency was already importable.
	Installed bool `json:"installed"`

	// TargetExitCode is the exit code of the target program. Only
	// meaningful if the launch step is present in Steps. The launcher's
	// own exit code mirrors this value when the target fails.
	TargetExitCode int `json:"targetExitCode"`
}

// Record appends a step result to the report.
func (rep *Report) Record(res StepResult) {
	rep.Steps = append(rep.Steps, res)
}

// StepFor returns the result for the given step kind, or nil if that
// step has not been recorded.
func (rep *Report) StepFor(kind StepKind) *StepResult {
	for i := range rep.Steps {
		if rep.Steps[i].Kind == kind {
			return &rep.Steps[i]
		}
	}
	return nil
}

// Failed returns the step that halted the run, or nil if the run was not
// halted by a failure. A fatal failure is always the last recorded step.
// A failed dependency probe that a later step healed or launched past is
// the normal self-heal trigger, not a run failure, so it is not reported
// here.
func (rep *Report) Failed() *StepResult {
	if len(rep.Steps) == 0 {
		return nil
	}
	last := &rep.Steps[len(rep.Steps)-1]
	if last.Failed() {
		return last
	}
	return nil
}

// ExitCode defines standard CLI exit codes for the pylot binary.
// These codes allow scripts and CI systems to programmatically determine
// the outcome of a run. When the target program itself fails, pylot does
// not use one of these constants — it mirrors the target's exit code
// verbatim so callers see exactly what the server process returned.
type ExitCode int

const (
	// ExitSuccess indicates the bootstrap completed and the target
	// program exited zero.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitRuntimeMissing indicates the Python runtime was not found or
	// is older than the configured minimum version.
	ExitRuntimeMissing ExitCode = 2

	// ExitInstallFailed indicates the delegated installer exited
	// non-zero and manual intervention is required.
	ExitInstallFailed ExitCode = 3

	// ExitConfigError indicates the launch profile could not be loaded
	// or failed validation.
	ExitConfigError ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Mirrored marks an error whose Code is a target program's own exit
	// code, copied verbatim rather than drawn from the constants above.
	// A mirrored value can numerically coincide with any of them, so the
	// CLI layer must consult this flag before interpreting Code.
	Mirrored bool

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// MirrorExitError creates a CLIError carrying a target program's exit
// code verbatim.
func MirrorExitError(code int, message string) *CLIError {
	return &CLIError{Code: ExitCode(code), Mirrored: true, Message: message}
}
