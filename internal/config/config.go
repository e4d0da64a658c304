package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/pylot/internal/model"
)

// Default values reproduce the conventional project layout the launcher
// was built for: a Flask server started via python3, with a pip-delegating
// installer script next to it.
const (
	// DefaultModule is the library whose importability gates the launch.
	DefaultModule = "flask"

	// DefaultInstaller is the delegated installer script.
	DefaultInstaller = "install_requirements.py"

	// DefaultTarget is the program handed off to after the checks pass.
	DefaultTarget = "server.py"

	// DefaultTitle is the terminal window title set at startup.
	DefaultTitle = "Remote Control Server"

	// DefaultMinVersion is the minimum interpreter version. Flask 2.x
	// dropped support for anything older.
	DefaultMinVersion = "3.8"

	// DefaultEnvFile is the optional dotenv overlay for the target's
	// environment.
	DefaultEnvFile = ".env"
)

// DefaultInterpreters are the interpreter commands probed in order.
// "py" is the Windows launcher shim.
var DefaultInterpreters = []string{"python3", "python", "py"}

// profileFileNames are the profile locations probed by Load, in priority
// order. JSON (with comments) takes precedence over YAML when both exist.
var profileFileNames = []string{"pylot.json", "pylot.yaml", "pylot.yml"}

// Profile is a fully resolved launch profile. All paths are interpreted
// relative to Dir unless absolute.
type Profile struct {
	// Dir is the working directory for every sub-process invocation.
	// Defaults to the directory the profile was loaded from (or the
	// current directory when running on defaults).
	Dir string `json:"dir" yaml:"dir"`

	// Interpreters are the interpreter commands tried in order by the
	// runtime check. The first one that answers a version query wins.
	Interpreters []string `json:"interpreters" yaml:"interpreters"`

	// MinVersion is the minimum acceptable interpreter version.
	MinVersion model.Version `json:"minVersion" yaml:"minVersion"`

	// Module is the library whose importability is probed before launch.
	Module string `json:"module" yaml:"module"`

	// Installer is the installer program invoked when the module probe
	// fails. Run through the interpreter, once, never retried.
	Installer string `json:"installer" yaml:"installer"`

	// Target is the program launched after the checks pass.
	Target string `json:"target" yaml:"target"`

	// TargetArgs are extra arguments appended to the target invocation.
	TargetArgs []string `json:"targetArgs,omitempty" yaml:"targetArgs"`

	// EnvFile is an optional dotenv file whose variables are appended to
	// the target's environment. A missing file is not an error.
	EnvFile string `json:"envFile" yaml:"envFile"`

	// Title is the terminal window title set once at startup.
	Title string `json:"title" yaml:"title"`

	// Pause controls whether fatal paths block for operator
	// acknowledgment before exiting.
	Pause bool `json:"pause" yaml:"pause"`
}

// rawProfile mirrors Profile for file decoding. Pointer and string fields
// distinguish "absent from the file" from an explicit zero value, so that
// partial profiles inherit defaults for everything they do not mention.
type rawProfile struct {
	Dir          string   `json:"dir" yaml:"dir"`
	Interpreters []string `json:"interpreters" yaml:"interpreters"`
	MinVersion   string   `json:"minVersion" yaml:"minVersion"`
	Module       string   `json:"module" yaml:"module"`
	Installer    string   `json:"installer" yaml:"installer"`
	Target       string   `json:"target" yaml:"target"`
	TargetArgs   []string `json:"targetArgs" yaml:"targetArgs"`
	EnvFile      *string  `json:"envFile" yaml:"envFile"`
	Title        *string  `json:"title" yaml:"title"`
	Pause        *bool    `json:"pause" yaml:"pause"`
}

// Default returns the built-in profile, rooted at dir.
func Default(dir string) *Profile {
	min, _ := model.ParseVersion(DefaultMinVersion)
	return &Profile{
		Dir:          dir,
		Interpreters: append([]string(nil), DefaultInterpreters...),
		MinVersion:   min,
		Module:       DefaultModule,
		Installer:    DefaultInstaller,
		Target:       DefaultTarget,
		EnvFile:      DefaultEnvFile,
		Title:        DefaultTitle,
		Pause:        true,
	}
}

// Load discovers and loads a profile from dir. The file names in
// profileFileNames are probed in order; the first hit is loaded. With no
// profile file present, the defaults are returned unchanged.
//
// Returns a CLIError with ExitConfigError if a profile file exists but
// cannot be parsed or fails validation.
func Load(dir string) (*Profile, error) {
	for _, name := range profileFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return Default(dir), nil
}

// LoadFile loads a profile from an explicit path. The format is chosen by
// extension: .json is parsed as JSONC, .yaml/.yml as YAML. Fields absent
// from the file inherit their defaults.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("cannot read profile %s", path),
			err,
		)
	}

	var raw rawProfile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		// Profiles are hand-edited, so comments and trailing commas are
		// expected. Strip them before handing off to encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("cannot parse profile %s", path),
				err,
			)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("cannot parse profile %s", path),
				err,
			)
		}
	default:
		return nil, model.NewCLIError(
			model.ExitConfigError,
			fmt.Sprintf("unsupported profile format %q (valid: .json, .yaml, .yml)", ext),
		)
	}

	profile, err := resolve(&raw, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("invalid profile %s", path),
			err,
		)
	}
	return profile, nil
}

// resolve merges a decoded file over the defaults. Only fields the file
// actually set override the default values.
func resolve(raw *rawProfile, dir string) (*Profile, error) {
	profile := Default(dir)

	if raw.Dir != "" {
		// A relative dir is anchored to the profile file's own
		// directory, like every other relative path in the profile.
		if filepath.IsAbs(raw.Dir) {
			profile.Dir = raw.Dir
		} else {
			profile.Dir = filepath.Join(dir, raw.Dir)
		}
	}
	if len(raw.Interpreters) > 0 {
		profile.Interpreters = raw.Interpreters
	}
	if raw.MinVersion != "" {
		min, err := model.ParseVersion(raw.MinVersion)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "invalid minVersion", err)
		}
		profile.MinVersion = min
	}
	if raw.Module != "" {
		profile.Module = raw.Module
	}
	if raw.Installer != "" {
		profile.Installer = raw.Installer
	}
	if raw.Target != "" {
		profile.Target = raw.Target
	}
	if len(raw.TargetArgs) > 0 {
		profile.TargetArgs = raw.TargetArgs
	}
	if raw.EnvFile != nil {
		// An explicit empty string disables the dotenv overlay.
		profile.EnvFile = *raw.EnvFile
	}
	if raw.Title != nil {
		profile.Title = *raw.Title
	}
	if raw.Pause != nil {
		profile.Pause = *raw.Pause
	}

	return profile, nil
}

// Validate checks the profile for values the launcher cannot work with.
func (p *Profile) Validate() error {
	if len(p.Interpreters) == 0 {
		return fmt.Errorf("profile: at least one interpreter candidate is required")
	}
	for _, interp := range p.Interpreters {
		if strings.TrimSpace(interp) == "" {
			return fmt.Errorf("profile: interpreter candidates must not be blank")
		}
	}
	if p.Module == "" {
		return fmt.Errorf("profile: module must not be empty")
	}
	if p.Target == "" {
		return fmt.Errorf("profile: target must not be empty")
	}
	if p.Installer == "" {
		return fmt.Errorf("profile: installer must not be empty")
	}
	return nil
}

// TargetPath returns the target program path resolved against Dir.
func (p *Profile) TargetPath() string {
	return p.resolvePath(p.Target)
}

// InstallerPath returns the installer program path resolved against Dir.
func (p *Profile) InstallerPath() string {
	return p.resolvePath(p.Installer)
}

func (p *Profile) resolvePath(path string) string {
	if filepath.IsAbs(path) || p.Dir == "" {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// EnvOverlay reads the profile's dotenv file and returns its variables as
// "KEY=VALUE" pairs in deterministic (sorted) order, ready to append to a
// child process environment. A missing or disabled (empty EnvFile) file
// yields nil without error; an unreadable or malformed file is reported.
//
// The overlay applies to the target program only — probes and the
// installer see the launcher's own environment untouched.
func (p *Profile) EnvOverlay() ([]string, error) {
	if p.EnvFile == "" {
		return nil, nil
	}

	path := p.resolvePath(p.EnvFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("cannot read env file %s", path),
			err,
		)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("cannot parse env file %s", path),
			err,
		)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+vars[k])
	}
	return pairs, nil
}
