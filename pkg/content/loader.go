package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/olimci/hyoushi/pkg/utils/fileutils"
	gm "github.com/yuin/goldmark"
)

var (
	ErrMissingSlug   = errors.New("missing slug")
	ErrMissingBody   = errors.New("missing body")
	ErrUnknownLayout = errors.New("unknown layout")
)

// layoutDirs maps top-level content directories onto their default layout.
var layoutDirs = map[string]string{
	"posts":     LayoutPost,
	"bookmarks": LayoutBookmark,
}

// Loader turns markdown files into entries.
type Loader struct {
	md            gm.Markdown
	ignore        []string
	includeDrafts bool
}

type LoaderOption func(*Loader)

// WithIgnore skips files matching any of the doublestar patterns.
func WithIgnore(patterns ...string) LoaderOption {
	return func(l *Loader) {
		l.ignore = append(l.ignore, patterns...)
	}
}

func WithDrafts(include bool) LoaderOption {
	return func(l *Loader) {
		l.includeDrafts = include
	}
}

func NewLoader(md gm.Markdown, opts ...LoaderOption) *Loader {
	l := &Loader{md: md}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileError ties a load failure to its source file.
type FileError struct {
	Source string
	Err    error
}

func (e *FileError) Error() string { return e.Source + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// Load loads every markdown file under root. Failures are collected per file
// and returned joined alongside the entries that did load.
func (l *Loader) Load(ctx context.Context, root string) ([]*Entry, error) {
	files, err := fileutils.WalkFiles(root)
	if err != nil {
		return nil, err
	}

	sources := files.Values()
	slices.Sort(sources)

	var (
		entries []*Entry
		errs    []error
	)

	for _, rel := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if path.Ext(rel) != ".md" || l.ignored(rel) {
			continue
		}

		entry, err := l.LoadFile(root, rel)
		if err != nil {
			errs = append(errs, &FileError{Source: rel, Err: err})
			continue
		}
		if entry.Draft && !l.includeDrafts {
			continue
		}
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b *Entry) int {
		return b.Published.Compare(a.Published)
	})

	return entries, errors.Join(errs...)
}

func (l *Loader) ignored(rel string) bool {
	for _, pattern := range l.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// LoadFile loads one file, rel being slash-separated and relative to root.
func (l *Loader) LoadFile(root, rel string) (*Entry, error) {
	doc, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}

	meta, body, err := ExtractFrontmatter(doc)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrMissingBody
	}

	var buf bytes.Buffer
	if err := l.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	slug := SlugFromPath(rel)
	if meta.Slug != "" {
		if slug, err = CleanSlug(meta.Slug); err != nil {
			return nil, err
		}
	}
	if slug == "/" {
		return nil, fmt.Errorf("%w: entries cannot live at the site root", ErrMissingSlug)
	}

	layout, err := resolveLayout(meta.Layout, rel)
	if err != nil {
		return nil, err
	}

	published, err := ParseDate(string(meta.Date))
	if err != nil {
		return nil, err
	}

	syndication := slices.DeleteFunc(slices.Clone(meta.Syndication), func(s Syndication) bool {
		return strings.TrimSpace(s.URL) == ""
	})

	entry := &Entry{
		Record: Record{
			HTML:    template.HTML(buf.String()),
			Excerpt: Excerpt(buf.String(), ExcerptLength),
			Fields: Fields{
				Slug:     slug,
				Layout:   layout,
				Category: strings.TrimSpace(meta.Category),
				Lead:     strings.TrimSpace(meta.Lead),
				Date:     published.Format(DisplayDateLayout),
				DateOGP:  strings.TrimSpace(string(meta.Date)),
				Link:     strings.TrimSpace(meta.Link),
			},
			Frontmatter: Frontmatter{
				Title:       strings.TrimSpace(meta.Title),
				Syndication: syndication,
			},
		},
		Source:    rel,
		Published: published,
		Draft:     meta.Draft,
	}

	if meta.HeaderImage != "" {
		entry.HeaderImageSource = resolveAsset(root, rel, meta.HeaderImage)
	}

	return entry, nil
}

func resolveLayout(layout, rel string) (string, error) {
	if layout = strings.ToLower(strings.TrimSpace(layout)); layout == "" {
		top, _, _ := strings.Cut(rel, "/")
		layout = layoutDirs[top]
	}

	switch layout {
	case LayoutPost, LayoutBookmark:
		return layout, nil
	case "":
		return "", fmt.Errorf("%w: no layout set and none implied by %q", ErrUnknownLayout, rel)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
}

// resolveAsset resolves a frontmatter asset path. Paths starting with "/"
// are relative to the content root, others to the file's directory.
func resolveAsset(root, rel, asset string) string {
	if strings.HasPrefix(asset, "http://") || strings.HasPrefix(asset, "https://") {
		return asset
	}
	if strings.HasPrefix(asset, "/") {
		return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(asset, "/")))
	}
	return filepath.Join(root, filepath.FromSlash(path.Dir(rel)), filepath.FromSlash(asset))
}
