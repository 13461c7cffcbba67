package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/display"
)

// router dispatches on the URL scheme.
// Immutable after New
type router struct {
	handlers map[string]SchemeHandler
}

// New returns a Downloader serving the schemes of handlers. Later handlers
// win when two claim the same scheme.
func New(handlers ...SchemeHandler) Downloader {
	r := &router{handlers: make(map[string]SchemeHandler)}
	for _, h := range handlers {
		for _, scheme := range h.Schemes() {
			r.handlers[scheme] = h
		}
	}
	return r
}

// NewDefaultDownloader serves http, https and file URLs.
func NewDefaultDownloader() Downloader {
	return New(NewHTTPHandler(config.UserAgent()), NewFileHandler())
}

func (r *router) Download(ctx context.Context, uri string, w io.Writer, task display.Task) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid download url %q: %w", uri, err)
	}

	scheme := strings.ToLower(u.Scheme)
	h, ok := r.handlers[scheme]
	if !ok {
		return &UnsupportedSchemeError{URL: uri, Scheme: scheme}
	}
	slog.Debug("Fetch", "url", uri, "scheme", scheme)
	return h.Download(ctx, uri, w, task)
}
