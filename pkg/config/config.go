package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olimci/hyoushi/pkg/content"
	"github.com/olimci/hyoushi/pkg/version"
)

var (
	ErrUnknownKeys       = errors.New("unknown config keys")
	ErrIncompatible      = errors.New("incompatible config version")
	ErrInvalidSocialLink = errors.New("invalid social link")
)

// Config represents the configuration for a site build.
type Config struct {
	Hyoushi ConfigHyoushi `toml:"hyoushi" yaml:"hyoushi" json:"hyoushi"`
	Site    ConfigSite    `toml:"site" yaml:"site" json:"site"`
	Footer  ConfigFooter  `toml:"footer" yaml:"footer" json:"footer"`
	Build   ConfigBuild   `toml:"build" yaml:"build" json:"build"`
	Feeds   ConfigFeeds   `toml:"feeds" yaml:"feeds" json:"feeds"`
	Audit   ConfigAudit   `toml:"audit" yaml:"audit" json:"audit"`
}

type ConfigHyoushi struct {
	Version string `toml:"version" yaml:"version" json:"version"`
}

type ConfigSite struct {
	Title       string       `toml:"title" yaml:"title" json:"title"`
	Tagline     string       `toml:"tagline" yaml:"tagline" json:"tagline"`
	Description string       `toml:"description" yaml:"description" json:"description"`
	URL         string       `toml:"url" yaml:"url" json:"url"`
	BasePath    string       `toml:"base_path" yaml:"base_path" json:"base_path"`
	Author      ConfigAuthor `toml:"author" yaml:"author" json:"author"`
	Menu        []ConfigLink `toml:"menu" yaml:"menu" json:"menu"`
}

type ConfigAuthor struct {
	Name        string       `toml:"name" yaml:"name" json:"name"`
	Description string       `toml:"description" yaml:"description" json:"description"`
	Website     string       `toml:"website" yaml:"website" json:"website"`
	Email       string       `toml:"email" yaml:"email" json:"email"`
	Avatar      string       `toml:"avatar" yaml:"avatar" json:"avatar"`
	Social      []ConfigLink `toml:"social" yaml:"social" json:"social"`
}

// ConfigLink is a labelled URL, used for social profiles and menu entries.
type ConfigLink struct {
	Label string `toml:"label" yaml:"label" json:"label"`
	URL   string `toml:"url" yaml:"url" json:"url"`
}

type ConfigFooter struct {
	Flavors []string `toml:"flavors" yaml:"flavors" json:"flavors"`
}

type ConfigBuild struct {
	Output     string         `toml:"output" yaml:"output" json:"output"`
	Content    string         `toml:"content" yaml:"content" json:"content"`
	Static     string         `toml:"static" yaml:"static" json:"static"`
	Minify     bool           `toml:"minify" yaml:"minify" json:"minify"`
	MaxWorkers int            `toml:"max_workers" yaml:"max_workers" json:"max_workers"`
	Ignore     []string       `toml:"ignore" yaml:"ignore" json:"ignore"`
	Goldmark   ConfigGoldmark `toml:"goldmark" yaml:"goldmark" json:"goldmark"`
	Images     ConfigImages   `toml:"images" yaml:"images" json:"images"`
}

type ConfigImages struct {
	Widths  []int `toml:"widths" yaml:"widths" json:"widths"`
	Quality int   `toml:"quality" yaml:"quality" json:"quality"`
}

type ConfigFeeds struct {
	RSS     ConfigRSS     `toml:"rss" yaml:"rss" json:"rss"`
	Sitemap ConfigSitemap `toml:"sitemap" yaml:"sitemap" json:"sitemap"`
}

type ConfigRSS struct {
	Enable bool   `toml:"enable" yaml:"enable" json:"enable"`
	Path   string `toml:"path" yaml:"path" json:"path"`
	Limit  int    `toml:"limit" yaml:"limit" json:"limit"`
}

type ConfigSitemap struct {
	Enable bool   `toml:"enable" yaml:"enable" json:"enable"`
	Path   string `toml:"path" yaml:"path" json:"path"`
}

type ConfigAudit struct {
	Enable bool `toml:"enable" yaml:"enable" json:"enable"`
}

// DefaultFlavors are the footer lines used when none are configured.
var DefaultFlavors = []string{
	"Made with tea and too many tabs.",
	"Written by hand, built by machine.",
	"No trackers were harmed in the making of this page.",
	"Now with 100% more microformats.",
	"Best viewed with your eyes.",
}

// DefaultConfig constructs a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Hyoushi: ConfigHyoushi{
			Version: version.String(),
		},
		Site: ConfigSite{
			Title:       "Hyoushi",
			Description: "A hyoushi site",
			URL:         "https://example.com",
			BasePath:    "/",
			Author: ConfigAuthor{
				Name: "Anonymous",
			},
		},
		Footer: ConfigFooter{
			Flavors: slices.Clone(DefaultFlavors),
		},
		Build: ConfigBuild{
			Output:   "dist",
			Content:  "content",
			Static:   "static",
			Minify:   true,
			Goldmark: defaultGoldmark(),
			Images: ConfigImages{
				Widths:  []int{400, 800, 1140, 2280},
				Quality: 85,
			},
		},
		Feeds: ConfigFeeds{
			RSS: ConfigRSS{
				Enable: true,
				Path:   "rss.xml",
				Limit:  20,
			},
			Sitemap: ConfigSitemap{
				Enable: true,
				Path:   "sitemap.xml",
			},
		},
		Audit: ConfigAudit{
			Enable: true,
		},
	}
}

// Load loads a Config from a file, resolving relative paths against the
// file's directory.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := decodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.ResolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Validate validates the Config, normalising values in place.
func (c *Config) Validate() error {
	if c.Hyoushi.Version != "" {
		v, err := version.Parse(c.Hyoushi.Version)
		if err != nil {
			return fmt.Errorf("hyoushi.version: %w", err)
		}
		if !v.Compatible(version.Current()) {
			return fmt.Errorf("%w: config targets %s, this is %s", ErrIncompatible, v, version.String())
		}
	}

	c.Site.URL = strings.TrimSpace(c.Site.URL)
	if c.Site.URL == "" {
		return errors.New("site.url is required")
	}
	if !(strings.HasPrefix(c.Site.URL, "http://") || strings.HasPrefix(c.Site.URL, "https://")) {
		return fmt.Errorf("site.url must start with http:// or https:// (got %q)", c.Site.URL)
	}
	if _, err := url.Parse(c.Site.URL); err != nil {
		return fmt.Errorf("site.url is not a valid URL (got %q): %w", c.Site.URL, err)
	}
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")

	c.Site.BasePath = normaliseBasePath(c.Site.BasePath)

	if strings.TrimSpace(c.Site.Title) == "" {
		return errors.New("site.title is required")
	}
	if strings.TrimSpace(c.Site.Author.Name) == "" {
		return errors.New("site.author.name is required")
	}

	seen := make(map[string]struct{}, len(c.Site.Author.Social))
	for i, link := range c.Site.Author.Social {
		label := strings.TrimSpace(link.Label)
		if label == "" {
			return fmt.Errorf("%w: site.author.social[%d] has no label", ErrInvalidSocialLink, i)
		}
		if _, ok := seen[label]; ok {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidSocialLink, label)
		}
		seen[label] = struct{}{}
		c.Site.Author.Social[i].Label = label
		c.Site.Author.Social[i].URL = strings.TrimSpace(link.URL)
	}

	if strings.TrimSpace(c.Build.Output) == "" {
		c.Build.Output = "dist"
	}
	if strings.TrimSpace(c.Build.Content) == "" {
		c.Build.Content = "content"
	}
	if strings.TrimSpace(c.Build.Static) == "" {
		c.Build.Static = "static"
	}
	if c.Build.MaxWorkers < 0 {
		return fmt.Errorf("build.max_workers must not be negative (got %d)", c.Build.MaxWorkers)
	}

	widths := c.Build.Images.Widths[:0]
	for _, w := range c.Build.Images.Widths {
		if w <= 0 {
			return fmt.Errorf("build.images.widths must be positive (got %d)", w)
		}
		widths = append(widths, w)
	}
	slices.Sort(widths)
	c.Build.Images.Widths = slices.Compact(widths)
	if c.Build.Images.Quality <= 0 || c.Build.Images.Quality > 100 {
		c.Build.Images.Quality = 85
	}

	if strings.TrimSpace(c.Feeds.RSS.Path) == "" {
		c.Feeds.RSS.Path = "rss.xml"
	}
	if c.Feeds.RSS.Limit < 0 {
		c.Feeds.RSS.Limit = 0
	}
	if strings.TrimSpace(c.Feeds.Sitemap.Path) == "" {
		c.Feeds.Sitemap.Path = "sitemap.xml"
	}

	return nil
}

// ResolvePaths makes relative build paths relative to root.
func (c *Config) ResolvePaths(root string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	c.Build.Output = resolve(c.Build.Output)
	c.Build.Content = resolve(c.Build.Content)
	c.Build.Static = resolve(c.Build.Static)
	if c.Site.Author.Avatar != "" && !isURL(c.Site.Author.Avatar) {
		c.Site.Author.Avatar = resolve(c.Site.Author.Avatar)
	}
}

// WatchedPaths returns the directories a dev server should watch.
func (c *Config) WatchedPaths() []string {
	paths := make([]string, 0, 3)
	if c.Build.Content != "" {
		paths = append(paths, c.Build.Content)
	}
	if c.Build.Static != "" {
		paths = append(paths, c.Build.Static)
	}
	if c.Site.Author.Avatar != "" && !isURL(c.Site.Author.Avatar) {
		paths = append(paths, filepath.Dir(c.Site.Author.Avatar))
	}
	return paths
}

// WithPrefix joins p onto the configured base path.
func (c *Config) WithPrefix(p string) string {
	return WithPrefix(c.Site.BasePath, p)
}

// SiteMetadata converts the site section into the record consumed by views.
func (c *Config) SiteMetadata() content.SiteMetadata {
	social := make([]content.SocialLink, 0, len(c.Site.Author.Social))
	for _, link := range c.Site.Author.Social {
		social = append(social, content.SocialLink{Label: link.Label, URL: link.URL})
	}

	return content.SiteMetadata{
		Title:       c.Site.Title,
		Tagline:     c.Site.Tagline,
		Description: c.Site.Description,
		SiteURL:     c.Site.URL,
		Author: content.Author{
			Name:        c.Site.Author.Name,
			Description: c.Site.Author.Description,
			Website:     c.Site.Author.Website,
			Email:       c.Site.Author.Email,
			Social:      social,
		},
	}
}

// WithPrefix joins p onto base, keeping a leading slash and any trailing one.
func WithPrefix(base, p string) string {
	base = normaliseBasePath(base)
	if base == "/" {
		if !strings.HasPrefix(p, "/") {
			return "/" + p
		}
		return p
	}
	if p == "" || p == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimPrefix(p, "/")
}

func normaliseBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
