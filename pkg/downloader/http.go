package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"llvmmgmt/pkg/display"
)

// Immutable
type httpHandler struct {
	client    *http.Client
	userAgent string
}

// NewHTTPHandler downloads http(s) URLs. Cancellation comes from the
// request context only; LLVM source tarballs can take minutes to fetch.
func NewHTTPHandler(userAgent string) SchemeHandler {
	return &httpHandler{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

func (h *httpHandler) Schemes() []string {
	return []string{"http", "https"}
}

func (h *httpHandler) Download(ctx context.Context, uri string, w io.Writer, task display.Task) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: uri, Code: resp.StatusCode, Status: resp.Status}
	}
	return copyWithProgress(w, resp.Body, resp.ContentLength, task)
}

func copyWithProgress(w io.Writer, r io.Reader, size int64, task display.Task) error {
	pw := &progressWriter{task: task, total: size, start: time.Now(), last: -1}
	if _, err := io.Copy(io.MultiWriter(w, pw), r); err != nil {
		return err
	}
	pw.report(true)
	return nil
}

// progressWriter forwards byte counts to a task, redrawing only when the
// percentage moves or, for unknown sizes, at most every 200ms.
// Mutable
type progressWriter struct {
	task    display.Task
	total   int64
	written int64
	start   time.Time
	last    int
	lastAt  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.written += int64(len(p))
	pw.report(false)
	return len(p), nil
}

func (pw *progressWriter) report(final bool) {
	if pw.total <= 0 {
		if !final && time.Since(pw.lastAt) < 200*time.Millisecond {
			return
		}
		pw.lastAt = time.Now()
		pw.task.Progress(0, humanize.IBytes(uint64(pw.written))+" downloaded")
		return
	}

	percent := int(pw.written * 100 / pw.total)
	if percent == pw.last && !final {
		return
	}
	pw.last = percent

	var rate uint64
	if elapsed := time.Since(pw.start).Seconds(); elapsed > 0 {
		rate = uint64(float64(pw.written) / elapsed)
	}
	pw.task.Progress(percent, fmt.Sprintf("%s of %s, %s/s",
		humanize.IBytes(uint64(pw.written)), humanize.IBytes(uint64(pw.total)), humanize.IBytes(rate)))
}
