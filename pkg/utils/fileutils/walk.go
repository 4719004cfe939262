package fileutils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/olimci/hyoushi/pkg/utils/set"
)

// Walk walks a directory tree and returns a set of files and directories,
// relative to root. A missing root yields empty sets.
func Walk(root string) (files *set.Set[string], dirs *set.Set[string], err error) {
	files = set.New[string]()
	dirs = set.New[string]()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}

	err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			dirs.Add(filepath.ToSlash(rel))
		} else {
			files.Add(filepath.ToSlash(rel))
		}

		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return files, dirs, nil
	}

	return files, dirs, err
}

// WalkFiles walks a directory tree and returns the set of files under it,
// as slash-separated paths relative to root.
func WalkFiles(root string) (*set.Set[string], error) {
	files, _, err := Walk(root)
	return files, err
}
