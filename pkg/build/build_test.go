package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/manifest"
	"github.com/olimci/hyoushi/pkg/view"
)

func noop(*StepContext) error { return nil }

func TestNewDAG(t *testing.T) {
	tests := []struct {
		name    string
		steps   []Step
		wantErr error
	}{
		{"ok", []Step{StepFunc("a", noop), StepFunc("b", noop, "a", "a")}, nil},
		{"duplicate", []Step{StepFunc("a", noop), StepFunc("a", noop)}, ErrDuplicateStep},
		{"self", []Step{StepFunc("a", noop, "a")}, ErrSelfDependency},
		{"unresolved", []Step{StepFunc("a", noop, "missing")}, ErrUnresolvedDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := newDAG(tt.steps)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("newDAG() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && d.deg["b"] != 1 {
				t.Errorf("repeated dependency counted %d times", d.deg["b"])
			}
		})
	}
}

func testOptions(opts ...Option) *Options {
	return defaultOptions().Apply(opts...)
}

func TestRunStepsOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(sc *StepContext) error {
		mu.Lock()
		order = append(order, sc.StepID)
		mu.Unlock()
		return nil
	}

	steps := []Step{
		StepFunc("c", record, "a", "b"),
		StepFunc("b", record, "a"),
		StepFunc("a", record),
		StepFunc("d", record),
	}

	for _, workers := range []int{1, 2, 0} {
		order = nil
		err := runSteps(steps, manifest.New(), testOptions(WithMaxWorkers(workers)), events.NoopHandler{})
		if err != nil {
			t.Fatalf("workers=%d: runSteps() error = %v", workers, err)
		}
		if len(order) != 4 {
			t.Fatalf("workers=%d: ran %v", workers, order)
		}

		pos := func(id string) int { return slices.Index(order, id) }
		if pos("a") > pos("b") || pos("b") > pos("c") {
			t.Errorf("workers=%d: order %v breaks dependencies", workers, order)
		}
	}
}

func TestRunStepsErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("cycle", func(t *testing.T) {
		steps := []Step{StepFunc("a", noop, "b"), StepFunc("b", noop, "a")}
		err := runSteps(steps, manifest.New(), testOptions(), events.NoopHandler{})
		if !errors.Is(err, ErrCircularDependency) {
			t.Errorf("error = %v, want ErrCircularDependency", err)
		}
	})

	t.Run("partial cycle", func(t *testing.T) {
		steps := []Step{StepFunc("a", noop), StepFunc("b", noop, "c"), StepFunc("c", noop, "b")}
		err := runSteps(steps, manifest.New(), testOptions(), events.NoopHandler{})
		if !errors.Is(err, ErrCircularDependency) {
			t.Errorf("error = %v, want ErrCircularDependency", err)
		}
	})

	t.Run("task error", func(t *testing.T) {
		ran := false
		steps := []Step{
			StepFunc("a", func(*StepContext) error { return boom }),
			StepFunc("b", func(*StepContext) error { ran = true; return nil }, "a"),
		}
		err := runSteps(steps, manifest.New(), testOptions(), events.NoopHandler{})
		if !errors.Is(err, ErrTaskError) || !errors.Is(err, boom) {
			t.Errorf("error = %v, want task error wrapping boom", err)
		}
		if ran {
			t.Error("dependant ran after its dependency failed")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		steps := []Step{StepFunc("a", noop)}
		err := runSteps(steps, manifest.New(), testOptions(WithContext(ctx), WithMaxWorkers(1)), events.NoopHandler{})
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want nil or context.Canceled", err)
		}
	})
}

func TestStepContextError(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		wantLevel events.Level
		wantErr   bool
	}{
		{"build", nil, events.Error, true},
		{"dev", []Option{WithDev()}, events.Warn, false},
		{"dev strict", []Option{WithDev(), WithStrict()}, events.Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := events.NewCollector(nil)
			sc := &StepContext{Options: testOptions(tt.opts...), StepID: "x", events: c}

			err := sc.Error("posts/a.md", "failed", errors.New("bad"))
			if (err != nil) != tt.wantErr {
				t.Errorf("Error() = %v, wantErr %v", err, tt.wantErr)
			}

			got := c.Events()
			if len(got) != 1 || got[0].Level != tt.wantLevel || got[0].Step != "x" {
				t.Errorf("events = %+v", got)
			}
		})
	}
}

const testConfig = `[site]
title = "Notebook"
description = "Things I wrote down"
url = "https://example.org"

[site.author]
name = "Sam Doe"
website = "https://sam.example"

[[site.author.social]]
label = "GitHub"
url = "https://github.com/sam"

[footer]
flavors = ["Only flavor."]

[build]
minify = false
`

const testPost = `---
title: Hello
date: 2018-05-01
category: notes
lead: A first post.
syndication:
  - name: Elsewhere
    url: https://elsewhere.example/hello
---

Hello, **world**.
`

const testBookmark = `---
date: 2018-05-02T10:00:00Z
link: https://go.dev/
---

A language I like.
`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestBuildSite(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"hyoushi.toml":                      testConfig,
		"content/posts/2018-05-01-hello.md": testPost,
		"content/bookmarks/go.md":           testBookmark,
		"static/robots.txt":                 "User-agent: *\n",
		"dist/stale.html":                   "old",
	})

	c := events.NewCollector(nil)
	err := Build(
		WithConfig(filepath.Join(root, "hyoushi.toml")),
		WithHandler(c),
		WithPicker(view.NewLockedRand(1)),
		WithBuildTime(time.Date(2018, time.May, 3, 0, 0, 0, 0, time.UTC)),
	)
	if err != nil {
		t.Fatalf("Build() error = %v\nevents: %v", err, c.Events())
	}

	dist := filepath.Join(root, "dist")
	for _, rel := range []string{
		"posts/2018-05-01-hello/index.html",
		"bookmarks/go/index.html",
		"404.html",
		"rss.xml",
		"sitemap.xml",
		"robots.txt",
	} {
		if _, err := os.Stat(filepath.Join(dist, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dist, "stale.html")); !os.IsNotExist(err) {
		t.Errorf("stale file kept: %v", err)
	}

	post := readFile(t, filepath.Join(dist, "posts/2018-05-01-hello/index.html"))
	for _, want := range []string{
		`class="h-entry"`,
		"<strong>world</strong>",
		"Only flavor.",
		"https://elsewhere.example/hello",
		`href="/rss.xml"`,
		"<style>",
	} {
		if !strings.Contains(post, want) {
			t.Errorf("post page missing %q", want)
		}
	}

	bookmark := readFile(t, filepath.Join(dist, "bookmarks/go/index.html"))
	if !strings.Contains(bookmark, "Bookmark posted by Sam Doe") {
		t.Error("untitled bookmark has no fallback title")
	}

	notFound := readFile(t, filepath.Join(dist, "404.html"))
	if !strings.Contains(notFound, "404: Page not found.") {
		t.Error("404 page missing its title")
	}
	if strings.Contains(notFound, "Only flavor.") {
		t.Error("404 page renders the footer")
	}

	rss := readFile(t, filepath.Join(dist, "rss.xml"))
	if strings.Index(rss, "Bookmark posted by Sam Doe") > strings.Index(rss, "<title>Hello</title>") {
		t.Error("rss items not newest first")
	}

	sitemap := readFile(t, filepath.Join(dist, "sitemap.xml"))
	if !strings.Contains(sitemap, "<loc>https://example.org/posts/2018-05-01-hello/</loc>") {
		t.Errorf("sitemap missing post:\n%s", sitemap)
	}

	if c.HasLevel(events.Warn) {
		t.Errorf("unexpected problems: %v", c.AtLevel(events.Warn))
	}
}

func TestBuildMinified(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"hyoushi.toml":                      strings.Replace(testConfig, "minify = false", "minify = true", 1),
		"content/posts/2018-05-01-hello.md": testPost,
	})

	err := Build(WithConfig(filepath.Join(root, "hyoushi.toml")), WithPicker(view.NewLockedRand(1)))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	post := readFile(t, filepath.Join(root, "dist/posts/2018-05-01-hello/index.html"))
	if strings.Contains(post, "\n\n") {
		t.Error("page was not minified")
	}
	if !strings.Contains(post, "h-entry") {
		t.Error("minified page lost its markup")
	}
}

func TestBuildLoadErrors(t *testing.T) {
	files := map[string]string{
		"hyoushi.toml":                      testConfig,
		"content/posts/2018-05-01-hello.md": testPost,
		"content/posts/undated.md":          "---\ntitle: Undated\n---\n\nBody.\n",
	}

	t.Run("build", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, files)

		c := events.NewCollector(nil)
		err := Build(WithConfig(filepath.Join(root, "hyoushi.toml")), WithHandler(c))
		if !errors.Is(err, ErrBuildFailed) {
			t.Fatalf("Build() error = %v, want ErrBuildFailed", err)
		}

		problems := c.AtLevel(events.Error)
		if len(problems) != 1 || problems[0].Source != "posts/undated.md" || problems[0].Step != StepIDLoad {
			t.Errorf("errors = %+v", problems)
		}
	})

	t.Run("dev", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, files)

		c := events.NewCollector(nil)
		err := Build(WithConfig(filepath.Join(root, "hyoushi.toml")), WithHandler(c), WithDev())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if len(c.AtLevel(events.Warn)) != 1 {
			t.Errorf("warnings = %+v", c.AtLevel(events.Warn))
		}
		if _, err := os.Stat(filepath.Join(root, "dist/posts/2018-05-01-hello/index.html")); err != nil {
			t.Errorf("valid entry not built: %v", err)
		}
	})
}

func TestBuildDuplicateSlug(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"hyoushi.toml":       testConfig,
		"content/posts/a.md": strings.Replace(testPost, "title: Hello", "title: A\nslug: same", 1),
		"content/posts/b.md": strings.Replace(testPost, "title: Hello", "title: B\nslug: same", 1),
	})

	c := events.NewCollector(nil)
	err := Build(WithConfig(filepath.Join(root, "hyoushi.toml")), WithHandler(c))
	if !errors.Is(err, ErrBuildFailed) || !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("Build() error = %v, want duplicate slug failure", err)
	}
}
