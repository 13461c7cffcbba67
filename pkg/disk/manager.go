// Package disk reports and reclaims the storage used by llvmmgmt.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/display"
)

// Manager inspects the llvmmgmt directories.
// Immutable
type Manager struct {
	cfg config.ReadOnly
}

func NewManager(cfg config.ReadOnly) *Manager {
	return &Manager{cfg: cfg}
}

// Usage represents disk usage information for a specific category of data.
type Usage struct {
	Label string
	Size  int64
	Items int
	Path  string
}

// GetInfo measures sources, downloads and builds, in that order.
func (m *Manager) GetInfo() ([]Usage, int64) {
	dirs := []struct{ label, path string }{
		{"Sources", m.cfg.GetCacheDir()},
		{"Downloads", m.cfg.GetDownloadDir()},
		{"Builds", m.cfg.GetDataDir()},
	}
	var total int64
	var stats []Usage
	for _, d := range dirs {
		size, count := DirSize(d.path, m.skip(d.path))
		total += size
		stats = append(stats, Usage{Label: d.label, Size: size, Items: count, Path: d.path})
	}
	return stats, total
}

// skip keeps the download dir, which lives in the cache dir, out of the sources total.
func (m *Manager) skip(root string) string {
	if root == m.cfg.GetCacheDir() {
		return m.cfg.GetDownloadDir()
	}
	return ""
}

// Info renders GetInfo as a table.
func (m *Manager) Info() *display.Output {
	stats, total := m.GetInfo()
	table := &display.Table{
		Header: []string{"Type", "Size", "Items", "Path"},
	}
	for _, s := range stats {
		table.Rows = append(table.Rows, []string{s.Label, FormatSize(s.Size), fmt.Sprintf("%d", s.Items), s.Path})
	}
	return &display.Output{
		Table:   table,
		Message: fmt.Sprintf("Total: %s", FormatSize(total)),
	}
}

// CleanDownloads removes cached release archives. Extracted sources and
// builds are left alone. It returns the reclaimed size.
func (m *Manager) CleanDownloads() (int64, error) {
	dir := m.cfg.GetDownloadDir()
	size, _ := DirSize(dir, "")
	if _, err := os.Stat(dir); err != nil {
		return 0, nil
	}
	slog.Info("Cleaning", "path", dir)
	if err := os.RemoveAll(dir); err != nil {
		return 0, config.WrapPath("remove", dir, err)
	}
	return size, os.MkdirAll(dir, 0755)
}

// DirSize calculates the total size and file count of a directory,
// ignoring the subtree at skip. Unreadable entries are logged and left out
// of the total; the walk carries on with their siblings.
func DirSize(path, skip string) (int64, int) {
	var size int64
	var count int
	_ = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Skip unreadable path", "path", p, "error", err)
			}
			return nil
		}
		if skip != "" && p == skip {
			return filepath.SkipDir
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	return size, count
}

// FormatSize converts bytes to a human-readable string.
func FormatSize(b int64) string {
	if b < 0 {
		b = 0
	}
	return humanize.IBytes(uint64(b))
}
