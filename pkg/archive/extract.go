// Package archive packs and unpacks source tarballs and installed builds.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// SupportedExtensions returns a list of all file extensions that the archive module can extract.
func SupportedExtensions() []string {
	return []string{".zip", ".tar", ".tar.gz", ".tgz", ".tar.zst", ".tar.xz", ".txz"}
}

// IsSupported returns true if the filename has a supported archive extension.
func IsSupported(filename string) bool {
	for _, ext := range SupportedExtensions() {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// Options tune extraction.
type Options struct {
	// StripComponents drops this many leading path elements from every entry,
	// like tar --strip-components. Entries left empty are skipped.
	StripComponents int
	// OnEntry, when set, is called with each extracted entry's relative path.
	OnEntry func(name string)
}

// Extract extracts the contents of the archive at src into the directory dest.
// It supports .zip, .tar, .tar.gz, .tgz, .tar.zst and .tar.xz formats.
func Extract(src string, dest string, opts Options) error {
	if strings.HasSuffix(src, ".zip") {
		return extractZip(src, dest, opts)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	r, closeFn, err := decompressor(src, f)
	if err != nil {
		return err
	}
	defer closeFn()

	return extractTar(r, dest, opts)
}

func decompressor(name string, f io.Reader) (io.Reader, func(), error) {
	nop := func() {}
	switch {
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, nop, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzr, func() { gzr.Close() }, nil
	case strings.HasSuffix(name, ".tar.zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, nop, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zr, zr.Close, nil
	case strings.HasSuffix(name, ".tar.xz") || strings.HasSuffix(name, ".txz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, nop, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xr, nop, nil
	case strings.HasSuffix(name, ".tar"):
		return f, nop, nil
	default:
		return nil, nop, fmt.Errorf("unsupported archive format: %s", name)
	}
}

func extractZip(src, dest string, opts Options) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		err := extractFile(f.Name, f.FileInfo(), "", dest, opts, func() (io.ReadCloser, error) {
			return f.Open()
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func extractTar(r io.Reader, dest string, opts Options) error {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		switch header.Typeflag {
		case tar.TypeXGlobalHeader, tar.TypeXHeader:
			continue
		}

		err = extractFile(header.Name, header.FileInfo(), header.Linkname, dest, opts, func() (io.ReadCloser, error) {
			return io.NopCloser(tr), nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func stripPath(name string, n int) string {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")
	if n <= 0 {
		return name
	}
	parts := strings.Split(strings.Trim(name, "/"), "/")
	if len(parts) <= n {
		return ""
	}
	return strings.Join(parts[n:], "/")
}

// extractFile is a helper to extract a single file/dir/symlink.
// opener is a function that returns a reader for the file content.
func extractFile(name string, info os.FileInfo, linkname string, dest string, opts Options, opener func() (io.ReadCloser, error)) error {
	rel := stripPath(name, opts.StripComponents)
	if rel == "" {
		return nil
	}

	// Zip Slip protection
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal file path in archive: %s", name)
	}
	if opts.OnEntry != nil {
		opts.OnEntry(rel)
	}

	if info.IsDir() {
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", target, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", target, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if filepath.IsAbs(linkname) {
			return fmt.Errorf("illegal absolute symlink in archive: %s -> %s", name, linkname)
		}
		_ = os.Remove(target)
		if err := os.Symlink(linkname, target); err != nil {
			return fmt.Errorf("failed to create symlink %s: %w", target, err)
		}
		return nil
	}

	if !info.Mode().IsRegular() {
		// Devices, fifos and hard links are not part of LLVM trees.
		return nil
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}
	defer f.Close()

	rc, err := opener()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", name, err)
	}
	// For tar, rc is NopCloser(tr) so the stream stays open; zip readers need closing.
	defer rc.Close()

	if _, err = io.Copy(f, rc); err != nil {
		return fmt.Errorf("failed to write file %s: %w", target, err)
	}
	return nil
}
