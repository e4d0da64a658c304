package python

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/pylot/internal/model"
)

// ParseBanner extracts the version from an interpreter's version banner.
//
// CPython prints "Python 3.11.4". Alternative implementations prefix
// differently ("PyPy 7.3.12 ... Python 3.10.12"), so rather than anchoring
// on the first word, the banner is scanned for the first token following a
// "Python" token that parses as a version. Pre-release suffixes as in
// "Python 3.13.0rc1" are truncated at the first non-numeric, non-dot rune.
func ParseBanner(banner string) (model.Version, error) {
	fields := strings.Fields(banner)
	for i, f := range fields {
		if !strings.EqualFold(f, "python") || i+1 >= len(fields) {
			continue
		}
		if v, err := model.ParseVersion(trimPreRelease(fields[i+1])); err == nil {
			return v, nil
		}
	}
	return model.Version{}, fmt.Errorf("unrecognized version banner %q", banner)
}

// trimPreRelease cuts a version token at the first rune that is neither a
// digit nor a dot, so "3.13.0rc1" parses as "3.13.0".
func trimPreRelease(token string) string {
	for i, r := range token {
		if (r < '0' || r > '9') && r != '.' {
			return token[:i]
		}
	}
	return token
}
