package cli

import (
	"github.com/spf13/cobra"

	"llvmmgmt/pkg/display"
	"llvmmgmt/pkg/entry"
	"llvmmgmt/pkg/installer"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default entry.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := a.mgr.Catalog.Init()
			if err != nil {
				return err
			}
			path := a.mgr.Cfg.GetEntryFile()
			if !created {
				t := a.mgr.Theme
				a.println(t.Styled(t.Yellow, path+" already exists"))
				return nil
			}
			a.println(path)
			return nil
		},
	}
}

func (a *app) entriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List the entries that can be built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.mgr.Catalog.LoadEntries()
			if err != nil {
				return err
			}
			if !a.verbose {
				for _, e := range entries {
					a.println(e.Name())
				}
				return nil
			}

			table := &display.Table{Header: []string{"Name", "Kind", "Generator", "Build type", "Source"}}
			for _, e := range entries {
				s := e.Setting()
				src := e.URL()
				if e.Kind() == entry.Local {
					src = e.Path()
				}
				table.Rows = append(table.Rows, []string{e.Name(), e.Kind().String(), s.Generator.Name(), s.BuildType.String(), src})
			}
			a.render(&display.Output{Table: table})
			return nil
		},
	}
}

func (a *app) installCmd() *cobra.Command {
	var jobs int
	var force bool
	cmd := &cobra.Command{
		Use:   "install <name|requirement>",
		Short: "Download and build an entry, installing it as a build of the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.mgr.Catalog.LoadEntry(args[0])
			if err != nil {
				return err
			}
			plan := installer.NewPlan(e, a.jobs(jobs))
			plan.Force = force
			return installer.Install(cmd.Context(), plan)
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Build parallelism (default from settings)")
	cmd.Flags().BoolVar(&force, "force", false, "Rebuild even if the build is already installed")
	return cmd
}

func (a *app) jobs(flag int) int {
	if flag > 0 {
		return flag
	}
	return a.mgr.Cfg.GetJobs()
}

// entryCmd builds a command acting on one entry loaded by name.
func (a *app) entryCmd(use, short string, run func(cmd *cobra.Command, e *entry.Entry) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.mgr.Catalog.LoadEntry(args[0])
			if err != nil {
				return err
			}
			return run(cmd, e)
		},
	}
}

func (a *app) checkoutCmd() *cobra.Command {
	return a.entryCmd("checkout", "Download the sources of an entry", func(cmd *cobra.Command, e *entry.Entry) error {
		return e.Checkout(cmd.Context())
	})
}

func (a *app) updateCmd() *cobra.Command {
	return a.entryCmd("update", "Update the sources of an entry", func(cmd *cobra.Command, e *entry.Entry) error {
		return e.Update(cmd.Context())
	})
}

func (a *app) cleanCmd() *cobra.Command {
	var buildOnly bool
	cmd := a.entryCmd("clean", "Remove the sources of an entry", func(_ *cobra.Command, e *entry.Entry) error {
		if buildOnly {
			return e.CleanBuildDir()
		}
		return e.CleanCacheDir()
	})
	cmd.Flags().BoolVar(&buildOnly, "build", false, "Only remove the build directory")
	return cmd
}

func (a *app) buildEntryCmd() *cobra.Command {
	var (
		jobs      int
		discard   bool
		update    bool
		builder   string
		buildType string
	)
	cmd := a.entryCmd("build-entry", "Build an entry, even if it is already installed", func(cmd *cobra.Command, e *entry.Entry) error {
		if builder != "" {
			if err := e.SetBuilder(builder); err != nil {
				return err
			}
		}
		if buildType != "" {
			bt, err := entry.ParseBuildType(buildType)
			if err != nil {
				return err
			}
			e.SetBuildType(bt)
		}
		plan := installer.NewPlan(e, a.jobs(jobs))
		plan.Force = true
		plan.Discard = discard
		plan.Update = update
		return installer.Install(cmd.Context(), plan)
	})
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Build parallelism (default from settings)")
	cmd.Flags().BoolVarP(&discard, "discard", "d", false, "Remove the build directory first")
	cmd.Flags().BoolVarP(&update, "update", "u", false, "Update the sources first")
	cmd.Flags().StringVarP(&builder, "builder", "G", "", "Generator for this build only")
	cmd.Flags().StringVarP(&buildType, "build-type", "t", "", "Build type for this build only")
	return cmd
}

func (a *app) setBuilderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-builder <name> <generator>",
		Short: "Change the generator of an entry and save it to entry.toml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.mgr.Catalog.LoadEntry(args[0])
			if err != nil {
				return err
			}
			if err := e.SetBuilder(args[1]); err != nil {
				return err
			}
			return a.mgr.Catalog.SaveSetting(e)
		},
	}
}

func (a *app) setBuildTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-build-type <name> <build-type>",
		Short: "Change the build type of an entry and save it to entry.toml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.mgr.Catalog.LoadEntry(args[0])
			if err != nil {
				return err
			}
			bt, err := entry.ParseBuildType(args[1])
			if err != nil {
				return err
			}
			e.SetBuildType(bt)
			return a.mgr.Catalog.SaveSetting(e)
		},
	}
}
