// Package cli implements the llvmmgmt command line on top of cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"llvmmgmt/pkg/build"
	"llvmmgmt/pkg/command"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/disk"
	"llvmmgmt/pkg/display"
	"llvmmgmt/pkg/entry"
	"llvmmgmt/pkg/resource"
)

// Managers holds the services commands operate on.
type Managers struct {
	Cfg      config.ReadOnly
	Disp     display.Display
	Runner   command.Runner
	Catalog  *entry.Catalog
	Registry *build.Registry
	DiskMgr  *disk.Manager
	Theme    *display.Theme
}

// NewManagers wires the services for cfg.
func NewManagers(cfg config.ReadOnly, disp display.Display, runner command.Runner) *Managers {
	resources := resource.NewProvider(cfg, disp, runner)
	return &Managers{
		Cfg:      cfg,
		Disp:     disp,
		Runner:   runner,
		Catalog:  entry.NewCatalog(cfg, resources, runner),
		Registry: build.NewRegistry(cfg, runner, disp),
		DiskMgr:  disk.NewManager(cfg),
		Theme:    display.DefaultTheme(),
	}
}

// Options configure a Run. Zero fields fall back to the process environment.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// Config loads the configuration; defaults to config.Init.
	Config func() (config.ReadOnly, error)
	// Runner runs external tools; defaults to an ExecRunner on Stdout/Stderr.
	Runner command.Runner
	// Dir is the working directory used for scope markers; defaults to os.Getwd.
	Dir string
	// SetLogLevel applies "debug", "info", "warn" or "error" to the logger.
	SetLogLevel func(level string)
}

// ExecutionResult is the outcome of a command line.
type ExecutionResult struct {
	ExitCode int
}

type app struct {
	opts    Options
	verbose bool
	mgr     *Managers
}

func (o *Options) fill() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Config == nil {
		o.Config = config.Init
	}
	if o.Runner == nil {
		o.Runner = command.NewExecRunner(o.Stdout, o.Stderr)
	}
	if o.SetLogLevel == nil {
		o.SetLogLevel = func(string) {}
	}
}

// Run executes the command line args and reports the exit code.
func Run(ctx context.Context, args []string, opts Options) *ExecutionResult {
	opts.fill()
	a := &app{opts: opts}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	err := root.ExecuteContext(ctx)
	if a.mgr != nil {
		a.mgr.Disp.Close()
	}
	if err != nil {
		theme := display.DefaultTheme()
		fmt.Fprintf(opts.Stderr, "%s %v\n", theme.Styled(theme.Red, "Error:"), err)
	}
	return &ExecutionResult{ExitCode: ExitCode(err)}
}

// ExitCode maps an error to the process exit status. A failed external tool
// passes its own status through; everything else exits with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *command.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Manage multiple LLVM/Clang builds",
		Version:       config.GetBuildInfo(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show debug logs and extra details")

	cmd.AddCommand(
		a.initCmd(),
		a.entriesCmd(),
		a.installCmd(),
		a.uninstallCmd(),
		a.useCmd(),
		a.currentCmd(),
		a.listCmd(),
		a.prefixCmd(),
		a.whichCmd(),
		a.versionCmd(),
		a.checkoutCmd(),
		a.updateCmd(),
		a.cleanCmd(),
		a.buildEntryCmd(),
		a.setBuilderCmd(),
		a.setBuildTypeCmd(),
		a.archiveCmd(),
		a.expandCmd(),
		a.shellCmd(),
		a.diskCmd(),
	)
	return cmd
}

func (a *app) setup() error {
	cfg, err := a.opts.Config()
	if err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}
	cfg.Freeze()

	level := cfg.GetLogLevel()
	if a.verbose {
		level = "debug"
	}
	a.opts.SetLogLevel(level)

	disp := display.NewConsoleWriters(a.opts.Stdout, a.opts.Stderr)
	disp.SetVerbose(a.verbose)
	a.mgr = NewManagers(cfg, disp, a.opts.Runner)
	return nil
}

func (a *app) cwd() (string, error) {
	if a.opts.Dir != "" {
		return a.opts.Dir, nil
	}
	return os.Getwd()
}

func (a *app) println(s string) {
	a.mgr.Disp.Print(s + "\n")
}

func (a *app) render(out *display.Output) {
	a.mgr.Disp.RenderOutput(out)
}
