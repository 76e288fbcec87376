package document

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// supportedRange accepts every document written by a 1.x format.
const supportedRange = "^1.0.0"

// CheckVersion reports whether a document stamped with version can be read.
// An empty version is read as CurrentVersion. A malformed version is a
// corrupt document; a well-formed version outside the supported range is
// ErrUnsupportedVersion.
func CheckVersion(version string) (string, error) {
	if version == "" {
		return CurrentVersion, nil
	}

	v, err := parseSemver(version)
	if err != nil {
		return "", fmt.Errorf("%w: version %q: %v", ErrCorrupt, version, err)
	}

	c, err := semver.NewConstraint(supportedRange)
	if err != nil {
		return "", fmt.Errorf("parsing supported range: %w", err)
	}
	if !c.Check(v) {
		return "", fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedVersion, v, supportedRange)
	}
	return v.String(), nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
