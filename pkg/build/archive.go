package build

import (
	"os"
	"path/filepath"

	"llvmmgmt/pkg/archive"
	"llvmmgmt/pkg/config"
)

// Archive packs the installed build name into <data dir>/<name>.tar.zst and
// returns the archive path. With verbose set every packed path is logged.
func (r *Registry) Archive(name string, verbose bool) (string, error) {
	b, err := r.Get(name)
	if err != nil {
		return "", err
	}
	if b.IsSystem() {
		return "", &InvalidBuildError{Name: name, Message: "the system build cannot be archived"}
	}

	dest := filepath.Join(r.cfg.GetDataDir(), name+archive.DefaultExtension)
	if err := archive.Create(r.cfg.GetDataDir(), name, dest, r.entryLogger(verbose)); err != nil {
		return "", err
	}
	return dest, nil
}

// Expand unpacks an archive made by Archive into the data dir.
func (r *Registry) Expand(path string, verbose bool) error {
	if _, err := os.Stat(path); err != nil {
		return config.WrapPath("expand", path, err)
	}
	dataDir := r.cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return config.WrapPath("mkdir", dataDir, err)
	}
	return archive.Extract(path, dataDir, archive.Options{OnEntry: r.entryLogger(verbose)})
}

func (r *Registry) entryLogger(verbose bool) func(string) {
	if !verbose {
		return nil
	}
	return func(name string) {
		r.disp.Log(name)
	}
}
