// Package version extracts LLVM versions from free-form text and parses
// version requirements such as "^10" or ">=9, <12".
package version

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned when no version can be parsed.
var ErrInvalidVersion = errors.New("invalid version")

var tripleRe = regexp.MustCompile(`\d+\.\d+\.\d+`)

// Release boundaries where the layout of official LLVM releases changed.
var (
	LLVM801  = semver.New(8, 0, 1, "", "")
	LLVM900  = semver.New(9, 0, 0, "", "")
	LLVM1100 = semver.New(11, 0, 0, "", "")
)

// Parse returns the first dotted numeric triple found in text,
// e.g. "clang version 10.0.0 (tags/RELEASE_1000/final)" yields 10.0.0.
func Parse(text string) (*semver.Version, error) {
	m := tripleRe.FindString(text)
	if m == "" {
		return nil, fmt.Errorf("%w: no version found in %q", ErrInvalidVersion, text)
	}
	v, err := semver.StrictNewVersion(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, m, err)
	}
	return v, nil
}

// Exact parses name as a full semantic version, returning nil when it is not one.
// Official release entries are named this way; user entries usually are not.
func Exact(name string) *semver.Version {
	v, err := semver.StrictNewVersion(name)
	if err != nil {
		return nil
	}
	return v
}

// ParseRequirement parses a requirement expression.
func ParseRequirement(req string) (*semver.Constraints, error) {
	c, err := semver.NewConstraint(req)
	if err != nil {
		return nil, fmt.Errorf("%w: requirement %q: %v", ErrInvalidVersion, req, err)
	}
	return c, nil
}
