package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// DefaultExtension is used for archives of installed builds.
const DefaultExtension = ".tar.zst"

// Create writes a compressed tarball at dest holding the tree root/name, with
// every entry stored under "name/". The compression follows dest's extension.
func Create(root, name, dest string, onEntry func(string)) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dest)
		}
	}()

	w, err := compressor(dest, f)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(w)
	base := filepath.Join(root, name)
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d, onEntry)
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", base, err)
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return w.Close()
}

func compressor(name string, f io.Writer) (io.WriteCloser, error) {
	switch {
	case strings.HasSuffix(name, ".tar.zst"):
		return zstd.NewWriter(f)
	case strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".tgz"):
		return gzip.NewWriter(f), nil
	case strings.HasSuffix(name, ".tar.xz") || strings.HasSuffix(name, ".txz"):
		return xz.NewWriter(f)
	case strings.HasSuffix(name, ".tar"):
		return nopWriteCloser{f}, nil
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", name)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func addEntry(tw *tar.Writer, path, rel string, d fs.DirEntry, onEntry func(string)) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = rel
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if onEntry != nil {
		onEntry(rel)
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
