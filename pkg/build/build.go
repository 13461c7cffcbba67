// Package build manages installed LLVM builds: listing them, choosing the
// active one for a directory through .llvmmgmt scope markers, and moving
// them between machines as archives.
package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SystemName is the name of the platform's own LLVM installation.
const SystemName = "system"

// ErrInvalidBuild is wrapped by InvalidBuildError.
var ErrInvalidBuild = errors.New("invalid build")

// InvalidBuildError reports a build that does not exist or cannot be used.
type InvalidBuildError struct {
	Name    string
	Message string
}

func (e *InvalidBuildError) Error() string {
	return fmt.Sprintf("build %q: %s", e.Name, e.Message)
}

func (e *InvalidBuildError) Unwrap() error { return ErrInvalidBuild }

// IsInvalidBuild reports whether err is caused by an unusable build.
func IsInvalidBuild(err error) bool {
	return errors.Is(err, ErrInvalidBuild)
}

// ValidateName rejects names that do not denote a single directory below
// the data dir.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return &InvalidBuildError{Name: name, Message: "not a valid build name"}
	case filepath.Base(name) != name, strings.ContainsAny(name, `/\`):
		return &InvalidBuildError{Name: name, Message: "build names cannot contain path separators"}
	}
	return nil
}

// Build is an installed toolchain.
type Build struct {
	Name   string
	Prefix string
	// Marker is the scope marker the build was resolved from. It is only
	// informational and empty unless the build came from Registry.Seek.
	Marker string
}

// Exists reports whether the install prefix is present.
func (b Build) Exists() bool {
	info, err := os.Stat(b.Prefix)
	return err == nil && info.IsDir()
}

func (b Build) IsSystem() bool { return b.Name == SystemName }

// LLVMConfig is the path of the build's llvm-config executable.
func (b Build) LLVMConfig() string {
	return filepath.Join(b.Prefix, "bin", "llvm-config")
}
