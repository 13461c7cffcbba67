package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"llvmmgmt/pkg/build"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/disk"
	"llvmmgmt/pkg/display"
	"llvmmgmt/pkg/shell"
)

func (a *app) uninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove an installed build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.mgr.Registry.Get(args[0])
			if err != nil {
				return err
			}
			return a.mgr.Registry.Uninstall(b)
		},
	}
}

func (a *app) useCmd() *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Activate a build for the current directory, or globally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.mgr.Registry.Get(args[0])
			if err != nil {
				return err
			}
			marker := a.mgr.Cfg.GetGlobalMarker()
			if global {
				err = a.mgr.Registry.SetGlobal(b)
			} else {
				var dir string
				if dir, err = a.cwd(); err != nil {
					return err
				}
				marker = filepath.Join(dir, config.MarkerFileName)
				err = a.mgr.Registry.SetLocal(b, dir)
			}
			if err != nil {
				return err
			}
			t := a.mgr.Theme
			a.println(fmt.Sprintf("%s %s %s", b.Name, t.Arrow, t.Styled(t.Cyan, marker)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "Write the global marker instead of one in the current directory")
	return cmd
}

func (a *app) seek() (build.Build, error) {
	dir, err := a.cwd()
	if err != nil {
		return build.Build{}, err
	}
	return a.mgr.Registry.Seek(dir)
}

func (a *app) currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the active build; with --verbose also the marker that selected it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.seek()
			if err != nil {
				return err
			}
			if a.verbose {
				marker := b.Marker
				if marker == "" {
					marker = "(none)"
				}
				a.render(&display.Output{KV: []display.KV{
					{Key: "Build", Value: b.Name},
					{Key: "Prefix", Value: b.Prefix},
					{Key: "Marker", Value: marker},
				}})
				return nil
			}
			a.println(b.Name)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var available bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed builds, or with --available the entries that can be installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if available {
				entries, err := a.mgr.Catalog.LoadEntries()
				if err != nil {
					return err
				}
				for _, e := range entries {
					a.println(e.Name())
				}
				return nil
			}

			builds, err := a.mgr.Registry.Builds()
			if err != nil {
				return err
			}
			current, err := a.seek()
			if err != nil {
				return err
			}
			if !a.verbose {
				for _, b := range builds {
					a.println(a.mark(b, current))
				}
				return nil
			}
			table := &display.Table{Header: []string{"Name", "Prefix"}}
			for _, b := range builds {
				table.Rows = append(table.Rows, []string{a.mark(b, current), a.mgr.Theme.Styled(a.mgr.Theme.Dim, b.Prefix)})
			}
			a.render(&display.Output{Table: table})
			return nil
		},
	}
	cmd.Flags().BoolVar(&available, "available", false, "List entries instead of builds")
	return cmd
}

// mark highlights the active build.
func (a *app) mark(b, current build.Build) string {
	if b.Name != current.Name {
		return "  " + b.Name
	}
	t := a.mgr.Theme
	return t.Styled(t.Green, t.Active+" "+b.Name)
}

func (a *app) prefixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prefix",
		Short: "Show the install prefix of the active build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.seek()
			if err != nil {
				return err
			}
			a.println(b.Prefix)
			return nil
		},
	}
}

func (a *app) whichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Show the llvm-config of the active build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.seek()
			if err != nil {
				return err
			}
			a.println(b.LLVMConfig())
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	var major, minor, patch bool
	cmd := &cobra.Command{
		Use:   "version [name]",
		Short: "Show the LLVM version of a build (default: the active one)",
		Long: `Show the LLVM version reported by llvm-config.

With --major, --minor or --patch only the selected parts are printed,
concatenated: "version --major --minor" prints 100 for LLVM 10.0.x.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b build.Build
			var err error
			if len(args) == 1 {
				b, err = a.mgr.Registry.Get(args[0])
			} else {
				b, err = a.seek()
			}
			if err != nil {
				return err
			}

			v, err := a.mgr.Registry.Version(cmd.Context(), b)
			if err != nil {
				return err
			}
			if !major && !minor && !patch {
				a.println(v.String())
				return nil
			}
			var sb strings.Builder
			for _, part := range []struct {
				on bool
				n  uint64
			}{{major, v.Major()}, {minor, v.Minor()}, {patch, v.Patch()}} {
				if part.on {
					sb.WriteString(strconv.FormatUint(part.n, 10))
				}
			}
			a.println(sb.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&major, "major", false, "Print the major version")
	cmd.Flags().BoolVar(&minor, "minor", false, "Print the minor version")
	cmd.Flags().BoolVar(&patch, "patch", false, "Print the patch version")
	return cmd
}

func (a *app) archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <name>",
		Short: "Pack an installed build into an archive in the data directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.mgr.Registry.Archive(args[0], a.verbose)
			if err != nil {
				return err
			}
			a.println(path)
			return nil
		},
	}
}

func (a *app) expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <archive>",
		Short: "Unpack an archived build into the data directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mgr.Registry.Expand(args[0], a.verbose)
		},
	}
}

func (a *app) shellCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Print the shell integration script",
		Long: `Print the shell integration script. Add this to your shell rc file:

  eval "$(llvmmgmt shell)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, err := shell.Detect(name)
			if err != nil {
				return err
			}
			script, err := shell.Script(sh, a.mgr.Cfg)
			if err != nil {
				return err
			}
			a.mgr.Disp.Print(script)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "shell", "s", "", "bash or zsh (default: $SHELL)")
	return cmd
}

func (a *app) diskCmd() *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "disk",
		Short: "Show the disk space used by sources, downloads and builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clean {
				freed, err := a.mgr.DiskMgr.CleanDownloads()
				if err != nil {
					return err
				}
				a.println("Freed " + a.mgr.Theme.Styled(a.mgr.Theme.Bold, disk.FormatSize(freed)))
				return nil
			}
			a.render(a.mgr.DiskMgr.Info())
			return nil
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove cached downloads")
	return cmd
}
