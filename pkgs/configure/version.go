package configure

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// AtLeast reports whether version have is not older than minVersion. Both are
// package-config style versions ("1.2", "3.45.1"); a leading "v" is optional
// and components past the third are ignored.
func AtLeast(have, minVersion string) (bool, error) {
	h, err := canonicalVersion(have)
	if err != nil {
		return false, err
	}
	m, err := canonicalVersion(minVersion)
	if err != nil {
		return false, err
	}
	return semver.Compare(h, m) >= 0, nil
}

func canonicalVersion(v string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if parts := strings.SplitN(s, ".", 4); len(parts) == 4 {
		s = strings.Join(parts[:3], ".")
	}
	s = "v" + s
	if !semver.IsValid(s) {
		return "", fmt.Errorf("invalid version %q", v)
	}
	return s, nil
}
