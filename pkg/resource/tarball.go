package resource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"llvmmgmt/pkg/archive"
	"llvmmgmt/pkg/cache"
	"llvmmgmt/pkg/display"
	"llvmmgmt/pkg/downloader"
)

// archiveResource is a release tarball. The archive is kept in the download
// cache and unpacked with its top-level directory stripped.
// Immutable
type archiveResource struct {
	url        string
	cacheDir   string
	disp       display.Display
	downloader downloader.Downloader
}

func (a *archiveResource) filename() (string, error) {
	u, err := url.Parse(a.url)
	if err != nil {
		return "", fmt.Errorf("invalid uri: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", &UnsupportedURLError{URL: a.url}
	}
	return name, nil
}

// cacheFile is where the archive is kept in the download cache. The URL
// digest keeps same-named archives from different places apart.
func (a *archiveResource) cacheFile(name string) string {
	sum := sha256.Sum256([]byte(a.url))
	return filepath.Join(a.cacheDir, hex.EncodeToString(sum[:6])+"-"+name)
}

func (a *archiveResource) Download(ctx context.Context, dest string) error {
	if exists(dest) {
		slog.Info("Already exists, skip download", "path", dest)
		return nil
	}
	name, err := a.filename()
	if err != nil {
		return err
	}

	task := a.disp.StartTask(name)
	defer task.Done()

	if err := os.MkdirAll(a.cacheDir, 0755); err != nil {
		return err
	}
	file := a.cacheFile(name)
	err = cache.Ensure(ctx, file, func(tmp string) error {
		task.SetStage("Download", a.url)
		slog.Info("Download", "url", a.url, "path", file)
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		defer f.Close()
		return a.downloader.Download(ctx, a.url, f, task)
	})
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", a.url, err)
	}

	task.SetStage("Extract", dest)
	slog.Info("Extract", "archive", file, "path", dest)

	// Unpack beside dest and rename, so an interrupted extract leaves no dest behind.
	tmpDir := dest + ".tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		return err
	}
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	if err := archive.Extract(file, tmpDir, archive.Options{StripComponents: 1}); err != nil {
		return fmt.Errorf("failed to extract %s: %w", file, err)
	}
	return os.Rename(tmpDir, dest)
}

// Update is a no-op: a release archive never changes.
func (a *archiveResource) Update(_ context.Context, dest string) error {
	slog.Debug("Archive resource is immutable, skip update", "path", dest)
	return nil
}
