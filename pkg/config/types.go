// Package config manages application-wide settings and directory structures.
// It follows XDG specifications for storing configuration, installed builds and
// fetched sources.
package config

import (
	"fmt"
	"strings"
)

// OSType represents a host operating system.
type OSType string

const (
	// OSLinux represents the Linux operating system.
	OSLinux OSType = "linux"
	// OSDarwin represents macOS/Darwin.
	OSDarwin OSType = "darwin"
	// OSWindows represents Microsoft Windows.
	OSWindows OSType = "windows"
	// OSUnknown is used when the operating system cannot be determined.
	OSUnknown OSType = "unknown"
)

// ParseOS converts a string representation of an operating system into an OSType.
func ParseOS(os string) (OSType, error) {
	switch strings.ToLower(os) {
	case "linux":
		return OSLinux, nil
	case "darwin", "macos", "osx":
		return OSDarwin, nil
	case "windows", "win":
		return OSWindows, nil
	case "unknown":
		return OSUnknown, nil
	default:
		return OSUnknown, fmt.Errorf("unsupported operating system: %s", os)
	}
}

func (o OSType) String() string { return string(o) }

// PathError records a filesystem failure together with the path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// WrapPath wraps err with the operation and offending path. A nil err stays nil.
func WrapPath(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}
