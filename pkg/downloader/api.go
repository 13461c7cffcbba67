// Package downloader fetches release tarballs over http(s), or copies them
// from a local mirror, reporting progress to a display.Task.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"llvmmgmt/pkg/display"
)

// Downloader writes the content behind a URL to w.
type Downloader interface {
	Download(ctx context.Context, uri string, w io.Writer, task display.Task) error
}

// SchemeHandler serves the URL schemes it lists, e.g. "https".
type SchemeHandler interface {
	Download(ctx context.Context, uri string, w io.Writer, task display.Task) error
	Schemes() []string
}

// ErrDownload is wrapped by every download failure reported by a handler.
var ErrDownload = errors.New("download failed")

// StatusError is returned when a server answers with anything but 200 OK.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status from %s: %s", e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrDownload }

// UnsupportedSchemeError is returned for URLs no handler serves.
type UnsupportedSchemeError struct {
	URL    string
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported scheme %q in %s", e.Scheme, e.URL)
}

func (e *UnsupportedSchemeError) Unwrap() error { return ErrDownload }
