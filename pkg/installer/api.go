// Package installer drives an entry from sources to an installed build.
// It runs the checkout, update, configure and build steps in order and stops
// at the first failure, leaving partial state on disk for the next run.
package installer

import (
	"context"
)

// Buildable is the part of an entry the installer drives.
type Buildable interface {
	Name() string
	Prefix() string
	Checkout(ctx context.Context) error
	Update(ctx context.Context) error
	Build(ctx context.Context, nproc int) error
	CleanBuildDir() error
}

// Plan describes one installation.
type Plan struct {
	// Entry is the entry being built.
	Entry Buildable
	// Nproc is the parallelism handed to the build tool.
	Nproc int
	// Update refreshes sources that are already checked out.
	Update bool
	// Discard removes the build directory before configuring.
	Discard bool
	// Force rebuilds even when the install prefix already exists.
	Force bool
}

// Stage represents a single step in the installation pipeline.
type Stage func(ctx context.Context, plan *Plan) error

// NewPlan creates a plan building e with nproc jobs.
func NewPlan(e Buildable, nproc int) *Plan {
	if nproc < 1 {
		nproc = 1
	}
	return &Plan{Entry: e, Nproc: nproc}
}
