// Package cache guards files in the download cache so that concurrent
// llvmmgmt processes fetch each release tarball only once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const pollInterval = 200 * time.Millisecond

// Lock acquires target+".lock", a file holding "<RFC3339 time> <pid>".
// An existing lock owned by a live process is waited on until ctx is done;
// a lock left behind by a dead process, or one that cannot be parsed, is removed.
// The returned function releases the lock.
func Lock(ctx context.Context, target string) (func() error, error) {
	lockFile := target + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent dir for lock: %w", err)
	}

	for {
		ok, err := tryCreate(lockFile)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() error { return os.Remove(lockFile) }, nil
		}

		owner, err := readOwner(lockFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
			continue
		case err != nil || !isPidAlive(owner):
			os.Remove(lockFile)
			continue
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s held by pid %d: %w", lockFile, owner, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

// tryCreate publishes a fully written lock file with a hard link, so a
// waiter never observes an empty or partial lock.
func tryCreate(lockFile string) (bool, error) {
	f, err := os.CreateTemp(filepath.Dir(lockFile), filepath.Base(lockFile)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	content := fmt.Sprintf("%s %d", time.Now().Format(time.RFC3339), os.Getpid())
	_, werr := f.WriteString(content)
	if cerr := f.Close(); werr != nil || cerr != nil {
		return false, fmt.Errorf("failed to write lock file: %w", errors.Join(werr, cerr))
	}

	if err := os.Link(tmp, lockFile); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return true, nil
}

func readOwner(lockFile string) (int, error) {
	content, err := os.ReadFile(lockFile)
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(string(content))
	if len(fields) < 2 {
		return 0, fmt.Errorf("malformed lock file %s", lockFile)
	}
	return strconv.Atoi(fields[len(fields)-1])
}

func isPidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if pid == os.Getpid() {
		return true
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 probes for existence without delivering anything.
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone) {
		return false
	}
	// EPERM: the process exists but belongs to someone else.
	return true
}
