// Package shell renders the integration scripts that put the active build
// on PATH every time the prompt is drawn.
package shell

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"llvmmgmt/pkg/config"
)

// DefaultShell is used when neither a flag nor $SHELL names one.
const DefaultShell = "bash"

// ErrUnsupportedShell is wrapped by UnsupportedShellError.
var ErrUnsupportedShell = errors.New("unsupported shell")

type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("unsupported shell: %s. Supported shells are: %s", e.Shell, strings.Join(Supported(), ", "))
}

func (e *UnsupportedShellError) Unwrap() error { return ErrUnsupportedShell }

//go:embed scripts
var scripts embed.FS

var tmpl = template.Must(template.New("").
	Funcs(template.FuncMap{"quote": quote}).
	ParseFS(scripts, "scripts/*"))

func quote(s string) (string, error) {
	return syntax.Quote(s, syntax.LangBash)
}

// Supported lists the shells with an integration script.
func Supported() []string {
	return []string{"bash", "zsh"}
}

// Detect picks the shell: the explicit name if given, else the base name
// of $SHELL, else bash.
func Detect(name string) (string, error) {
	if name == "" {
		name = filepath.Base(os.Getenv("SHELL"))
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultShell
	}
	if !slices.Contains(Supported(), name) {
		return "", &UnsupportedShellError{Shell: name}
	}
	return name, nil
}

// Script renders the integration script for shell, which must be one of
// Supported; use Detect to resolve a default.
func Script(shell string, cfg config.ReadOnly) (string, error) {
	if !slices.Contains(Supported(), shell) {
		return "", &UnsupportedShellError{Shell: shell}
	}
	var sb strings.Builder
	err := tmpl.ExecuteTemplate(&sb, "llvmmgmt."+shell, struct {
		DataDir      string
		SystemPrefix string
	}{
		DataDir:      cfg.GetDataDir(),
		SystemPrefix: cfg.GetSystemPrefix(),
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
