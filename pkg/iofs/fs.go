package iofs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olimci/hyoushi/pkg/utils/fileutils"
)

// FromOS returns a Writable rooted at a directory on disk.
func FromOS(path string) *OSFS {
	return &OSFS{path: path}
}

type OSFS struct {
	path string
}

func (o *OSFS) EnsureRoot() error {
	info, err := os.Stat(o.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(o.path, 0o755); err != nil {
				return fmt.Errorf("failed to create build dir %q: %w", o.path, err)
			}
			return nil
		}
		return fmt.Errorf("failed to stat build dir %q: %w", o.path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("build dir %q is not a directory", o.path)
	}
	return nil
}

func (o *OSFS) Walk() ([]string, []string, error) {
	files, dirs, err := fileutils.Walk(o.path)
	if err != nil {
		return nil, nil, err
	}
	return files.Values(), dirs.Values(), nil
}

func (o *OSFS) MkdirAll(rel string, perm fs.FileMode) error {
	return os.MkdirAll(filepath.Join(o.path, rel), perm)
}

func (o *OSFS) Remove(rel string) error {
	return os.Remove(filepath.Join(o.path, rel))
}

func (o *OSFS) RemoveAll(rel string) error {
	return os.RemoveAll(filepath.Join(o.path, rel))
}

func (o *OSFS) Write(rel string, gen WriterFunc) error {
	return fileutils.AtomicWrite(filepath.Join(o.path, rel), gen)
}

func (o *OSFS) DisplayPath(rel string) string {
	return filepath.Join(o.path, rel)
}
