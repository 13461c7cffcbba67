package cache

import (
	"context"
	"os"
)

// Ensure makes target exist by running fill if it does not.
// fill writes to the temporary path it is given; on success that path is
// renamed to target, so an interrupted fill never leaves a partial target.
// Concurrent callers for the same target serialize on Lock and fill runs once.
func Ensure(ctx context.Context, target string, fill func(tmp string) error) error {
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	unlock, err := Lock(ctx, target)
	if err != nil {
		return err
	}
	defer unlock()

	// Another process may have finished while we waited.
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	tmp := target + ".part"
	os.RemoveAll(tmp)
	if err := fill(tmp); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	return os.Rename(tmp, target)
}
