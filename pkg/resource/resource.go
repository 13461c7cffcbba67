// Package resource turns a URL or local path into source code on disk.
// Git repositories are cloned with go-git, Subversion checkouts use the svn
// command, and release archives are downloaded into the cache and unpacked.
package resource

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"llvmmgmt/pkg/archive"
	"llvmmgmt/pkg/command"
	"llvmmgmt/pkg/config"
	"llvmmgmt/pkg/display"
	"llvmmgmt/pkg/downloader"
)

// ErrUnsupportedURL is the sentinel wrapped by UnsupportedURLError.
var ErrUnsupportedURL = errors.New("unsupported resource url")

// UnsupportedURLError is returned when a URL is neither a repository nor an archive.
type UnsupportedURLError struct {
	URL string
}

func (e *UnsupportedURLError) Error() string {
	return fmt.Sprintf("unsupported resource url %q: expected a git/svn repository or an archive (%s)",
		e.URL, strings.Join(archive.SupportedExtensions(), ", "))
}

func (e *UnsupportedURLError) Unwrap() error { return ErrUnsupportedURL }

// Resource is a fetchable source tree.
type Resource interface {
	// Download fetches the resource into dest. An existing dest is left untouched.
	Download(ctx context.Context, dest string) error
	// Update brings an existing dest up to date; it is cheap when nothing changed.
	Update(ctx context.Context, dest string) error
}

// Options qualify a URL.
type Options struct {
	// Branch selects a git branch; ignored by other kinds.
	Branch string
}

// Provider resolves URLs into resources.
type Provider interface {
	Resolve(rawURL string, opts Options) (Resource, error)
}

// Kind classifies a URL.
type Kind int

const (
	KindUnknown Kind = iota
	KindGit
	KindSvn
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindGit:
		return "git"
	case KindSvn:
		return "svn"
	case KindArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// Classify decides how rawURL is fetched.
func Classify(rawURL string) Kind {
	switch {
	case strings.HasPrefix(rawURL, "git@"), strings.HasPrefix(rawURL, "git://"), strings.HasSuffix(rawURL, ".git"):
		return KindGit
	case strings.HasPrefix(rawURL, "svn://"), strings.HasPrefix(rawURL, "svn+ssh://"), strings.Contains(rawURL, "/svn/"):
		return KindSvn
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return KindUnknown
	}
	if archive.IsSupported(u.Path) {
		return KindArchive
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		switch u.Host {
		case "github.com", "gitlab.com", "bitbucket.org":
			return KindGit
		}
	}
	return KindUnknown
}

// DefaultProvider is the production Provider.
// Immutable
type DefaultProvider struct {
	cfg        config.ReadOnly
	disp       display.Display
	runner     command.Runner
	downloader downloader.Downloader
}

var _ Provider = (*DefaultProvider)(nil)

// NewProvider creates a Provider downloading archives into cfg's download dir.
func NewProvider(cfg config.ReadOnly, disp display.Display, runner command.Runner) *DefaultProvider {
	return &DefaultProvider{
		cfg:        cfg,
		disp:       disp,
		runner:     runner,
		downloader: downloader.NewDefaultDownloader(),
	}
}

func (p *DefaultProvider) Resolve(rawURL string, opts Options) (Resource, error) {
	switch Classify(rawURL) {
	case KindGit:
		return &gitResource{url: rawURL, branch: opts.Branch, disp: p.disp}, nil
	case KindSvn:
		return &svnResource{url: rawURL, runner: p.runner}, nil
	case KindArchive:
		return &archiveResource{
			url:        fileURL(rawURL),
			cacheDir:   p.cfg.GetDownloadDir(),
			disp:       p.disp,
			downloader: p.downloader,
		}, nil
	default:
		return nil, &UnsupportedURLError{URL: rawURL}
	}
}

// fileURL turns a bare local archive path into a file:// URL.
func fileURL(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		abs = raw
	}
	return "file://" + filepath.ToSlash(abs)
}
