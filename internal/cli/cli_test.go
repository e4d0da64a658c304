// Package cli — cli_test.go contains unit tests for the pure helpers
// used by the command layer: fatal message selection, exit status
// clamping, and check output formatting. Command execution itself is
// covered by the launcher package tests.
package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/pylot/internal/config"
	"github.com/mmr-tortoise/pylot/internal/model"
)

// withProfile installs a profile as the active one for the duration of a
// test, restoring the previous state afterwards.
func withProfile(t *testing.T, p *config.Profile) {
	t.Helper()

	prev := activeProfile
	activeProfile = p
	t.Cleanup(func() { activeProfile = prev })
}

// TestFatalMessage verifies that the runtime-missing and install-failed
// paths are enriched with operator guidance while other errors pass
// their message through unchanged.
func TestFatalMessage(t *testing.T) {
	withProfile(t, config.Default("."))

	runtimeErr := model.NewCLIError(model.ExitRuntimeMissing, "no Python interpreter found (tried python3)")
	msg := fatalMessage(runtimeErr)
	assert.Contains(t, msg, "Python 3.8.0 or newer is required")
	assert.Contains(t, msg, "no Python interpreter found")
	assert.Contains(t, msg, "run again")

	installErr := model.NewCLIError(model.ExitInstallFailed, "installer install_requirements.py exited with code 1")
	msg = fatalMessage(installErr)
	assert.Contains(t, msg, "install_requirements.py")
	assert.Contains(t, msg, "manually")

	targetErr := model.MirrorExitError(5, "server.py exited with code 5.")
	assert.Equal(t, "server.py exited with code 5.", fatalMessage(targetErr))
}

// TestFatalMessageMirroredCollision verifies that a target program
// exiting with a code that happens to equal one of the launcher's own
// exit constants keeps its own diagnostic. Python's argparse exits 2 on
// a usage error, which must not be reported as a missing runtime.
func TestFatalMessageMirroredCollision(t *testing.T) {
	withProfile(t, config.Default("."))

	usageErr := model.MirrorExitError(2, "server.py exited with code 2.")
	assert.Equal(t, "server.py exited with code 2.", fatalMessage(usageErr))

	threeErr := model.MirrorExitError(3, "server.py exited with code 3.")
	assert.Equal(t, "server.py exited with code 3.", fatalMessage(threeErr))
}

// TestFatalMessageWithoutProfile verifies the fallback when an error
// surfaces before any profile was loaded.
func TestFatalMessageWithoutProfile(t *testing.T) {
	withProfile(t, nil)

	err := model.NewCLIError(model.ExitConfigError, "cannot parse profile pylot.json")
	assert.Equal(t, "cannot parse profile pylot.json", fatalMessage(err))
}

// TestExitStatus verifies clamping of non-positive codes, which occur
// when a sub-process is killed by a signal and reports -1.
func TestExitStatus(t *testing.T) {
	assert.Equal(t, 1, exitStatus(model.ExitCode(-1)))
	assert.Equal(t, 1, exitStatus(model.ExitGeneralError))
	assert.Equal(t, 2, exitStatus(model.ExitRuntimeMissing))
	assert.Equal(t, 5, exitStatus(model.ExitCode(5)))
}

// TestCheckSummary verifies the two conclusions the check command
// can reach.
func TestCheckSummary(t *testing.T) {
	var ready model.Report
	ready.Record(model.StepResult{Kind: model.StepRuntimeCheck, Status: model.StatusOK})
	ready.Record(model.StepResult{Kind: model.StepDependencyCheck, Status: model.StatusOK})
	assert.Equal(t, "Ready: a run would launch the target directly.", checkSummary(&ready, "flask"))

	var missing model.Report
	missing.Record(model.StepResult{Kind: model.StepRuntimeCheck, Status: model.StatusOK})
	missing.Record(model.StepResult{Kind: model.StepDependencyCheck, Status: model.StatusFailed})
	summary := checkSummary(&missing, "flask")
	assert.Contains(t, summary, "flask is missing")
	assert.Contains(t, summary, "installer")
}
