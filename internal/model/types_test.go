package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseStepKind verifies string-to-StepKind conversion, including
// case folding and rejection of unknown values.
func TestParseStepKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    StepKind
		wantErr bool
	}{
		{name: "runtime check", input: "runtime-check", want: StepRuntimeCheck},
		{name: "dependency check", input: "dependency-check", want: StepDependencyCheck},
		{name: "install", input: "install", want: StepInstall},
		{name: "launch", input: "launch", want: StepLaunch},
		{name: "uppercase folds", input: "LAUNCH", want: StepLaunch},
		{name: "unknown rejected", input: "reboot", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStepKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestParseStepStatus verifies string-to-StepStatus conversion.
func TestParseStepStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    StepStatus
		wantErr bool
	}{
		{name: "ok", input: "ok", want: StatusOK},
		{name: "skipped", input: "skipped", want: StatusSkipped},
		{name: "failed", input: "failed", want: StatusFailed},
		{name: "case folds", input: "Failed", want: StatusFailed},
		{name: "unknown rejected", input: "pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStepStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestStepResultString verifies the one-line formatting with and
// without a detail note.
func TestStepResultString(t *testing.T) {
	withDetail := StepResult{Kind: StepRuntimeCheck, Status: StatusOK, Detail: "Python 3.11.4"}
	assert.Equal(t, "runtime-check: ok (Python 3.11.4)", withDetail.String())

	noDetail := StepResult{Kind: StepInstall, Status: StatusSkipped}
	assert.Equal(t, "install: skipped", noDetail.String())
}

// TestReportStepFor verifies lookup of recorded steps by kind.
func TestReportStepFor(t *testing.T) {
	var rep Report
	rep.Record(StepResult{Kind: StepRuntimeCheck, Status: StatusOK})
	rep.Record(StepResult{Kind: StepDependencyCheck, Status: StatusFailed, ExitCode: 1})

	got := rep.StepFor(StepDependencyCheck)
	require.NotNil(t, got)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, 1, got.ExitCode)

	// Steps that never ran are absent, not zero-valued.
	assert.Nil(t, rep.StepFor(StepLaunch))
}

// TestReportFailed verifies that Failed reports the step that halted
// the run and nothing else: a clean run and a self-healed run are not
// failures, a halted run is.
func TestReportFailed(t *testing.T) {
	var clean Report
	clean.Record(StepResult{Kind: StepRuntimeCheck, Status: StatusOK})
	clean.Record(StepResult{Kind: StepDependencyCheck, Status: StatusOK})
	clean.Record(StepResult{Kind: StepInstall, Status: StatusSkipped})
	clean.Record(StepResult{Kind: StepLaunch, Status: StatusOK})
	assert.Nil(t, clean.Failed())

	// A failed dependency probe that the install step healed is the
	// normal self-heal path, not a run failure.
	var healed Report
	healed.Record(StepResult{Kind: StepRuntimeCheck, Status: StatusOK})
	healed.Record(StepResult{Kind: StepDependencyCheck, Status: StatusFailed, Detail: "flask not importable", ExitCode: 1})
	healed.Record(StepResult{Kind: StepInstall, Status: StatusOK})
	healed.Record(StepResult{Kind: StepLaunch, Status: StatusOK})
	assert.Nil(t, healed.Failed())

	var halted Report
	halted.Record(StepResult{Kind: StepRuntimeCheck, Status: StatusFailed, Detail: "python3 not found"})
	failed := halted.Failed()
	require.NotNil(t, failed)
	assert.Equal(t, StepRuntimeCheck, failed.Kind)

	var crashed Report
	crashed.Record(StepResult{Kind: StepRuntimeCheck, Status: StatusOK})
	crashed.Record(StepResult{Kind: StepDependencyCheck, Status: StatusOK})
	crashed.Record(StepResult{Kind: StepInstall, Status: StatusSkipped})
	crashed.Record(StepResult{Kind: StepLaunch, Status: StatusFailed, ExitCode: 5})
	failed = crashed.Failed()
	require.NotNil(t, failed)
	assert.Equal(t, StepLaunch, failed.Kind)
}

// TestCLIError verifies message formatting, unwrapping, and that
// errors.As can recover the typed error from a wrapped chain.
func TestCLIError(t *testing.T) {
	underlying := errors.New("exec: not found")
	err := WrapCLIError(ExitRuntimeMissing, "python3 is required", underlying)

	assert.Equal(t, "python3 is required: exec: not found", err.Error())
	assert.Equal(t, underlying, errors.Unwrap(err))

	var cliErr *CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, ExitRuntimeMissing, cliErr.Code)

	// Without an underlying error the message stands alone.
	bare := NewCLIError(ExitInstallFailed, "installer exited non-zero")
	assert.Equal(t, "installer exited non-zero", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
	assert.False(t, bare.Mirrored)
}

// TestMirrorExitError verifies that a mirrored error is flagged as
// such, so an exit code equal to one of the named constants cannot be
// mistaken for the corresponding launcher failure.
func TestMirrorExitError(t *testing.T) {
	err := MirrorExitError(2, "server.py exited with code 2.")
	assert.Equal(t, ExitCode(2), err.Code)
	assert.True(t, err.Mirrored)
	assert.Equal(t, "server.py exited with code 2.", err.Error())
}
