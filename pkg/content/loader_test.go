package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gm "github.com/yuin/goldmark"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLoaderLoadFile(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"posts/2018-05-01-hello.md": `---
title: Hello
date: 2018-05-01
category: ""
lead: A short lead.
header_image: ./cover.jpg
syndication:
  - name: Site A
    url: https://a.example
  - name: Nowhere
    url: ""
---

Hello *world*.
`,
	})

	entry, err := NewLoader(gm.New()).LoadFile(root, "posts/2018-05-01-hello.md")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	r := entry.Record
	if r.Fields.Slug != "/posts/2018-05-01-hello/" {
		t.Errorf("Slug = %q", r.Fields.Slug)
	}
	if r.Fields.Layout != LayoutPost {
		t.Errorf("Layout = %q, want post", r.Fields.Layout)
	}
	if r.HasCategory() {
		t.Errorf("empty category should count as absent")
	}
	if !r.HasLead() || r.Description() != "A short lead." {
		t.Errorf("Description() = %q", r.Description())
	}
	if r.Fields.Date != "01 May 2018" || r.Fields.DateOGP != "2018-05-01" {
		t.Errorf("Date = %q, DateOGP = %q", r.Fields.Date, r.Fields.DateOGP)
	}
	if r.Excerpt != "Hello world." {
		t.Errorf("Excerpt = %q", r.Excerpt)
	}
	if !strings.Contains(string(r.HTML), "<em>world</em>") {
		t.Errorf("HTML = %q", r.HTML)
	}
	if len(r.Frontmatter.Syndication) != 1 || r.Frontmatter.Syndication[0].Name != "Site A" {
		t.Errorf("Syndication = %+v, want only Site A", r.Frontmatter.Syndication)
	}
	if want := filepath.Join(root, "posts", "cover.jpg"); entry.HeaderImageSource != want {
		t.Errorf("HeaderImageSource = %q, want %q", entry.HeaderImageSource, want)
	}
}

func TestLoaderLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		body string
		want error
	}{
		{"empty body", "posts/a.md", "---\ndate: 2018-05-01\n---\n\n  \n", ErrMissingBody},
		{"bad date", "posts/a.md", "---\ndate: yesterday\n---\nbody", ErrInvalidDate},
		{"missing date", "posts/a.md", "---\ntitle: x\n---\nbody", ErrInvalidDate},
		{"no layout", "notes/a.md", "---\ndate: 2018-05-01\n---\nbody", ErrUnknownLayout},
		{"bad layout", "posts/a.md", "---\nlayout: gallery\ndate: 2018-05-01\n---\nbody", ErrUnknownLayout},
		{"root slug", "posts/a.md", "---\nslug: /\ndate: 2018-05-01\n---\nbody", ErrMissingSlug},
		{"no frontmatter", "posts/a.md", "body", ErrNoFrontmatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeFiles(t, map[string]string{tt.rel: tt.body})
			_, err := NewLoader(gm.New()).LoadFile(root, tt.rel)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoaderLoad(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"posts/old.md":         "---\ntitle: Old\ndate: 2017-01-01\n---\nold",
		"posts/new.md":         "---\ntitle: New\ndate: 2019-01-01\nslug: custom/new\n---\nnew",
		"posts/draft.md":       "---\ntitle: Draft\ndate: 2020-01-01\ndraft: true\n---\ndraft",
		"bookmarks/link.md":    "---\ndate: 2018-01-01\nlink: https://example.org\n---\nnice",
		"posts/drafts/skip.md": "---\ndate: 2018-01-01\n---\nskip",
		"posts/notes.txt":      "ignored",
		"posts/broken.md":      "---\ndate: nope\n---\nbroken",
	})

	entries, err := NewLoader(gm.New(), WithIgnore("**/drafts/**")).Load(context.Background(), root)

	var fileErr *FileError
	if !errors.As(err, &fileErr) || fileErr.Source != "posts/broken.md" {
		t.Fatalf("Load() error = %v, want FileError for posts/broken.md", err)
	}

	var slugs []string
	for _, e := range entries {
		slugs = append(slugs, e.Record.Fields.Slug)
	}
	want := []string{"/custom/new/", "/bookmarks/link/", "/posts/old/"}
	if strings.Join(slugs, " ") != strings.Join(want, " ") {
		t.Errorf("slugs = %v, want %v", slugs, want)
	}
	if entries[1].Record.Fields.Layout != LayoutBookmark || !entries[1].Record.HasLink() {
		t.Errorf("bookmark entry = %+v", entries[1].Record.Fields)
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := map[string]string{
		"posts/2018-05-01-hello.md": "/posts/2018-05-01-hello/",
		"posts/hello/index.md":      "/posts/hello/",
		"about.md":                  "/about/",
		"index.md":                  "/",
	}
	for in, want := range tests {
		if got := SlugFromPath(in); got != want {
			t.Errorf("SlugFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
