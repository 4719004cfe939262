package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "hyoushi.toml", `
[site]
title = "Notes"
url = "https://example.org/"
base_path = "blog/"

[site.author]
name = "Sam"

[[site.author.social]]
label = "github"
url = "https://github.com/sam"

[[site.author.social]]
label = "twitter"
url = " https://twitter.com/sam "

[build]
output = "public"

[build.images]
widths = [800, 400, 800]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.URL != "https://example.org" {
		t.Errorf("Site.URL = %q, want trailing slash trimmed", cfg.Site.URL)
	}
	if cfg.Site.BasePath != "/blog" {
		t.Errorf("Site.BasePath = %q, want /blog", cfg.Site.BasePath)
	}
	if got, want := cfg.Build.Output, filepath.Join(filepath.Dir(path), "public"); got != want {
		t.Errorf("Build.Output = %q, want %q", got, want)
	}
	if !slices.Equal(cfg.Build.Images.Widths, []int{400, 800}) {
		t.Errorf("Build.Images.Widths = %v, want [400 800]", cfg.Build.Images.Widths)
	}

	meta := cfg.SiteMetadata()
	if len(meta.Author.Social) != 2 {
		t.Fatalf("len(Social) = %d, want 2", len(meta.Author.Social))
	}
	if meta.Author.Social[0].Label != "github" || meta.Author.Social[1].Label != "twitter" {
		t.Errorf("social order = %v, want github then twitter", meta.Author.Social)
	}
	if meta.Author.Social[1].URL != "https://twitter.com/sam" {
		t.Errorf("social URL not trimmed: %q", meta.Author.Social[1].URL)
	}
	if !cfg.Feeds.RSS.Enable || cfg.Feeds.RSS.Path != "rss.xml" {
		t.Errorf("RSS defaults not kept: %+v", cfg.Feeds.RSS)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"toml", "hyoushi.toml", "[site]\ntitle = \"x\"\nbogus = 1\n"},
		{"yaml", "hyoushi.yaml", "site:\n  title: x\n  bogus: 1\n"},
		{"json", "hyoushi.json", `{"site": {"title": "x", "bogus": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.file, tt.body)); err == nil {
				t.Fatal("Load() error = nil, want unknown key error")
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "hyoushi.yaml", `
site:
  title: Notes
  url: https://example.org
  author:
    name: Sam
footer:
  flavors: []
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Footer.Flavors) != 0 {
		t.Errorf("Footer.Flavors = %v, want empty", cfg.Footer.Flavors)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		fails   bool
	}{
		{name: "defaults"},
		{name: "missing url", mutate: func(c *Config) { c.Site.URL = "" }, fails: true},
		{name: "bad scheme", mutate: func(c *Config) { c.Site.URL = "ftp://example.com" }, fails: true},
		{name: "missing author", mutate: func(c *Config) { c.Site.Author.Name = " " }, fails: true},
		{
			name: "social without label",
			mutate: func(c *Config) {
				c.Site.Author.Social = []ConfigLink{{URL: "https://example.com"}}
			},
			wantErr: ErrInvalidSocialLink,
		},
		{
			name: "duplicate social label",
			mutate: func(c *Config) {
				c.Site.Author.Social = []ConfigLink{{Label: "github"}, {Label: "github"}}
			},
			wantErr: ErrInvalidSocialLink,
		},
		{name: "newer minor", mutate: func(c *Config) { c.Hyoushi.Version = "0.99.0" }, wantErr: ErrIncompatible},
		{name: "negative workers", mutate: func(c *Config) { c.Build.MaxWorkers = -1 }, fails: true},
		{name: "zero width", mutate: func(c *Config) { c.Build.Images.Widths = []int{0} }, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := cfg.Validate()
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
				}
			case tt.fails:
				if err == nil {
					t.Fatal("Validate() error = nil, want error")
				}
			default:
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
			}
		})
	}
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		base, p, want string
	}{
		{"/", "/", "/"},
		{"/", "/404", "/404"},
		{"", "about/", "/about/"},
		{"/blog", "/", "/blog/"},
		{"/blog/", "/404", "/blog/404"},
		{"blog", "posts/x/", "/blog/posts/x/"},
	}

	for _, tt := range tests {
		if got := WithPrefix(tt.base, tt.p); got != tt.want {
			t.Errorf("WithPrefix(%q, %q) = %q, want %q", tt.base, tt.p, got, tt.want)
		}
	}
}
