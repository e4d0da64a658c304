package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/pylot/internal/model"
)

// writeProfile writes a profile file with the given name and contents into
// a fresh temporary directory and returns the directory path.
func writeProfile(t *testing.T, name, contents string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644)
	require.NoError(t, err, "failed to write profile fixture")
	return dir
}

// TestLoadDefaults verifies that a directory without any profile file
// yields the built-in defaults.
func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, p.Dir)
	assert.Equal(t, DefaultInterpreters, p.Interpreters)
	assert.Equal(t, model.Version{Major: 3, Minor: 8}, p.MinVersion)
	assert.Equal(t, "flask", p.Module)
	assert.Equal(t, "install_requirements.py", p.Installer)
	assert.Equal(t, "server.py", p.Target)
	assert.Equal(t, ".env", p.EnvFile)
	assert.True(t, p.Pause)
}

// TestLoadJSONC verifies that a pylot.json profile with comments and a
// trailing comma is parsed, and that unset fields keep their defaults.
func TestLoadJSONC(t *testing.T) {
	dir := writeProfile(t, "pylot.json", `{
		// Only override what differs from the defaults.
		"module": "requests",
		"minVersion": "3.10",
		"targetArgs": ["--port", "8080"],
		"pause": false,
	}`)

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "requests", p.Module)
	assert.Equal(t, model.Version{Major: 3, Minor: 10}, p.MinVersion)
	assert.Equal(t, []string{"--port", "8080"}, p.TargetArgs)
	assert.False(t, p.Pause)

	// Defaults survive for everything the file did not mention.
	assert.Equal(t, "server.py", p.Target)
	assert.Equal(t, DefaultInterpreters, p.Interpreters)
}

// TestLoadYAML verifies the YAML profile format.
func TestLoadYAML(t *testing.T) {
	dir := writeProfile(t, "pylot.yaml", `
interpreters:
  - python3.11
  - python3
module: flask
target: app.py
title: "My Server"
envFile: ""
`)

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"python3.11", "python3"}, p.Interpreters)
	assert.Equal(t, "app.py", p.Target)
	assert.Equal(t, "My Server", p.Title)

	// An explicit empty envFile disables the overlay, unlike an absent key.
	assert.Empty(t, p.EnvFile)
	overlay, err := p.EnvOverlay()
	require.NoError(t, err)
	assert.Nil(t, overlay)
}

// TestLoadJSONTakesPrecedenceOverYAML verifies the discovery order when
// both formats are present in the same directory.
func TestLoadJSONTakesPrecedenceOverYAML(t *testing.T) {
	dir := writeProfile(t, "pylot.json", `{"module": "from-json"}`)
	err := os.WriteFile(filepath.Join(dir, "pylot.yaml"), []byte("module: from-yaml\n"), 0644)
	require.NoError(t, err)

	p, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-json", p.Module)
}

// TestLoadFileErrors verifies that unreadable, malformed, and invalid
// profiles are reported as config errors with the right exit code.
func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		contents string
	}{
		{name: "malformed json", fileName: "pylot.json", contents: `{"module": `},
		{name: "malformed yaml", fileName: "pylot.yaml", contents: "module: [unclosed\n"},
		{name: "bad min version", fileName: "pylot.json", contents: `{"minVersion": "three.eight"}`},
		{name: "blank interpreter", fileName: "pylot.json", contents: `{"interpreters": [" "]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProfile(t, tt.fileName, tt.contents)

			_, err := Load(dir)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr), "expected a CLIError, got %T", err)
			assert.Equal(t, model.ExitConfigError, cliErr.Code)
		})
	}
}

// TestValidate verifies the checks on programmatically constructed
// profiles, where fields can be emptied outright (file loading always
// falls back to defaults for absent fields).
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{name: "no interpreters", mutate: func(p *Profile) { p.Interpreters = nil }},
		{name: "empty module", mutate: func(p *Profile) { p.Module = "" }},
		{name: "empty target", mutate: func(p *Profile) { p.Target = "" }},
		{name: "empty installer", mutate: func(p *Profile) { p.Installer = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default(".")
			require.NoError(t, p.Validate(), "defaults must validate")
			tt.mutate(p)
			assert.Error(t, p.Validate())
		})
	}
}

// TestLoadFileUnsupportedFormat verifies the extension check on explicit
// paths (discovery never hits this, but --config can).
func TestLoadFileUnsupportedFormat(t *testing.T) {
	dir := writeProfile(t, "pylot.toml", `module = "flask"`)

	_, err := LoadFile(filepath.Join(dir, "pylot.toml"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestPathResolution verifies that relative installer/target paths are
// resolved against the profile directory while absolute paths pass through.
func TestPathResolution(t *testing.T) {
	p := Default("/opt/app")
	assert.Equal(t, filepath.Join("/opt/app", "server.py"), p.TargetPath())
	assert.Equal(t, filepath.Join("/opt/app", "install_requirements.py"), p.InstallerPath())

	p.Target = "/srv/other/server.py"
	assert.Equal(t, "/srv/other/server.py", p.TargetPath())
}

// TestLoadFileRelativeDir verifies that a relative dir in a profile file
// is anchored to the file's own directory, like every other relative
// path, instead of the process working directory.
func TestLoadFileRelativeDir(t *testing.T) {
	dir := writeProfile(t, "pylot.json", `{"dir": "app"}`)

	p, err := LoadFile(filepath.Join(dir, "pylot.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app"), p.Dir)
	assert.Equal(t, filepath.Join(dir, "app", "server.py"), p.TargetPath())

	// An absolute dir passes through untouched.
	abs := writeProfile(t, "pylot.json", `{"dir": "/srv/app"}`)
	p, err = LoadFile(filepath.Join(abs, "pylot.json"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/app", p.Dir)
}

/// TestEnvOverlay verifies dotenv reading: sorted KEY=VALUE pairs from an
// existing file, nil for a missing file.
func TestEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	err := os.WriteFile(envFile, []byte("SERVER_PORT=5000\nAUTH_TOKEN=secret\n"), 0644)
	require.NoError(t, err)

	p := Default(dir)
	overlay, err := p.EnvOverlay()
	require.NoError(t, err)
	assert.Equal(t, []string{"AUTH_TOKEN=secret", "SERVER_PORT=5000"}, overlay)

	// Missing file: the overlay is simply absent.
	p2 := Default(t.TempDir())
	overlay, err = p2.EnvOverlay()
	require.NoError(t, err)
	assert.Nil(t, overlay)
}
