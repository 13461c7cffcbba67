package entry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidEntry is wrapped by every entry construction and lookup failure.
	ErrInvalidEntry         = errors.New("invalid entry")
	ErrUnsupportedGenerator = errors.New("unsupported generator")
	ErrUnsupportedBuildType = errors.New("unsupported build type")
	ErrUnknownToolPath      = errors.New("unknown tool path")
)

// InvalidEntryError reports an entry that cannot be built or found.
type InvalidEntryError struct {
	Name    string
	Message string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid entry %q: %s", e.Name, e.Message)
}

func (e *InvalidEntryError) Unwrap() error { return ErrInvalidEntry }

// AmbiguousEntryError is returned when a version requirement is satisfied by
// more than one user-defined entry.
type AmbiguousEntryError struct {
	Requirement string
	Names       []string
}

func (e *AmbiguousEntryError) Error() string {
	return fmt.Sprintf("requirement %q matches several entries (%s); use the entry name instead",
		e.Requirement, strings.Join(e.Names, ", "))
}

func (e *AmbiguousEntryError) Unwrap() error { return ErrInvalidEntry }

type UnsupportedGeneratorError struct {
	Generator string
}

func (e *UnsupportedGeneratorError) Error() string {
	return fmt.Sprintf("unsupported generator %q (supported: %s)", e.Generator, strings.Join(generatorNames(), ", "))
}

func (e *UnsupportedGeneratorError) Unwrap() error { return ErrUnsupportedGenerator }

type UnsupportedBuildTypeError struct {
	BuildType string
}

func (e *UnsupportedBuildTypeError) Error() string {
	return fmt.Sprintf("unsupported build type %q (supported: %s)", e.BuildType, strings.Join(buildTypeNames(), ", "))
}

func (e *UnsupportedBuildTypeError) Unwrap() error { return ErrUnsupportedBuildType }

// UnknownToolPathError is returned for a tool whose relative path is neither
// configured nor known.
type UnknownToolPathError struct {
	Tool string
}

func (e *UnknownToolPathError) Error() string {
	return fmt.Sprintf("unknown tool %q: set relative_path explicitly", e.Tool)
}

func (e *UnknownToolPathError) Unwrap() error { return ErrUnknownToolPath }

// IsInvalidEntry reports whether err is an entry lookup or construction failure.
func IsInvalidEntry(err error) bool {
	return errors.Is(err, ErrInvalidEntry)
}
