package downloader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"llvmmgmt/pkg/display"
)

// fileHandler copies local files, so release tarballs can be mirrored on disk.
// Immutable
type fileHandler struct{}

func NewFileHandler() SchemeHandler {
	return fileHandler{}
}

func (fileHandler) Schemes() []string {
	return []string{"file"}
}

func (fileHandler) Download(ctx context.Context, uri string, w io.Writer, task display.Task) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid uri: %w", err)
	}
	f, err := os.Open(u.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return copyWithProgress(w, f, info.Size(), task)
}
