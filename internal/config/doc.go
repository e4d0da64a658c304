// Package config handles loading and validation of pylot launch profiles.
//
// A launch profile describes everything the bootstrap needs: which
// interpreter commands to try, the minimum runtime version, the module
// whose importability gates the launch, and the installer and target
// program paths. Profiles are optional — with no profile file present,
// the defaults reproduce the conventional layout (python3, flask,
// install_requirements.py, server.py).
//
// Two on-disk formats are supported: pylot.json in JSONC (JSON with
// Comments, stripped via github.com/tidwall/jsonc before parsing with
// encoding/json) and pylot.yaml / pylot.yml via gopkg.in/yaml.v3.
//
// Profiles may also name a dotenv file whose variables are appended to
// the TARGET program's environment only — probes and the installer run
// with the launcher's own environment.
package config
