package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// DiscardStage removes the build directory so cmake starts from scratch.
func DiscardStage(_ context.Context, plan *Plan) error {
	if !plan.Discard {
		return nil
	}
	return plan.Entry.CleanBuildDir()
}

// CheckoutStage downloads the sources; existing sources are kept.
func CheckoutStage(ctx context.Context, plan *Plan) error {
	return plan.Entry.Checkout(ctx)
}

// UpdateStage refreshes the sources when requested.
func UpdateStage(ctx context.Context, plan *Plan) error {
	if !plan.Update {
		return nil
	}
	return plan.Entry.Update(ctx)
}

// BuildStage configures, builds and installs into the entry's prefix.
func BuildStage(ctx context.Context, plan *Plan) error {
	slog.Info("Building", "entry", plan.Entry.Name(), "jobs", plan.Nproc)
	return plan.Entry.Build(ctx, plan.Nproc)
}

var pipeline = []struct {
	name  string
	stage Stage
}{
	{"discard", DiscardStage},
	{"checkout", CheckoutStage},
	{"update", UpdateStage},
	{"build", BuildStage},
}

// Installed reports whether the entry's prefix exists.
func Installed(plan *Plan) bool {
	_, err := os.Stat(plan.Entry.Prefix())
	return err == nil
}

// Install runs every stage of the pipeline. An entry that is already
// installed is skipped unless the plan forces a rebuild.
func Install(ctx context.Context, plan *Plan) error {
	if !plan.Force && Installed(plan) {
		slog.Info("Already installed", "entry", plan.Entry.Name(), "prefix", plan.Entry.Prefix())
		return nil
	}

	for _, s := range pipeline {
		if err := s.stage(ctx, plan); err != nil {
			return fmt.Errorf("%s stage failed: %w", s.name, err)
		}
	}

	slog.Info("Installation complete", "entry", plan.Entry.Name(), "prefix", plan.Entry.Prefix())
	return nil
}
