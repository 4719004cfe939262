// Package scaffold writes a starter site.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
)

const (
	starterRoot    = "starter"
	templateSuffix = ".tmpl"
)

var ErrExists = errors.New("file already exists")

//go:embed all:starter
var starterFS embed.FS

// BuildResult contains information about what was created.
type BuildResult struct {
	FilesCreated []string
	DirsCreated  []string
}

type file struct {
	dest string
	data []byte
}

// Build writes the starter site into target. Files ending in .tmpl are
// executed against vars and lose the suffix; a leading underscore becomes a
// dot. Nothing is written if any destination exists, unless forced.
func Build(ctx context.Context, target string, vars *Variables, opts ...Option) (*BuildResult, error) {
	o := newOptions(opts)

	var files []file
	err := fs.WalkDir(starterFS, starterRoot, func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(src, starterRoot+"/")
		data, err := fs.ReadFile(starterFS, src)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}

		if strings.HasSuffix(rel, templateSuffix) {
			if data, err = processTemplate(rel, data, vars); err != nil {
				return err
			}
		}

		files = append(files, file{dest: transformPath(rel), data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !o.force {
		for _, f := range files {
			if _, err := os.Stat(filepath.Join(target, filepath.FromSlash(f.dest))); err == nil {
				return nil, fmt.Errorf("%w: %s (use force to overwrite)", ErrExists, f.dest)
			}
		}
	}

	result := &BuildResult{
		FilesCreated: make([]string, 0, len(files)),
		DirsCreated:  make([]string, 0),
	}

	for _, f := range files {
		destPath := filepath.Join(target, filepath.FromSlash(f.dest))

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return result, fmt.Errorf("creating directory for %s: %w", f.dest, err)
		}
		if dir := path.Dir(f.dest); dir != "." && !slices.Contains(result.DirsCreated, dir) {
			result.DirsCreated = append(result.DirsCreated, dir)
		}

		if err := os.WriteFile(destPath, f.data, 0o644); err != nil {
			return result, fmt.Errorf("writing %s: %w", f.dest, err)
		}
		result.FilesCreated = append(result.FilesCreated, f.dest)
	}

	return result, nil
}

// transformPath strips the template suffix and turns a leading underscore
// into a dot, so dotfiles survive embedding.
func transformPath(rel string) string {
	dir, base := path.Split(rel)
	base = strings.TrimSuffix(base, templateSuffix)
	if strings.HasPrefix(base, "_") && len(base) > 1 {
		base = "." + base[1:]
	}
	return dir + base
}

func processTemplate(name string, content []byte, vars *Variables) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
