// Package render binds loaded records to page compositions and writes them
// as complete HTML documents.
package render

import (
	"fmt"
	"io"

	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/content"
	"github.com/olimci/hyoushi/pkg/view"
)

// Site is everything about the site a page composition needs.
type Site struct {
	Meta     content.SiteMetadata
	BasePath string
	Menu     []view.MenuItem
	Flavors  []string
	Picker   view.Picker
	Avatar   *content.Image
	Feed     string // site-relative path of the RSS feed, if any
}

// SiteFromConfig builds a Site from a validated config.
func SiteFromConfig(cfg *config.Config) Site {
	menu := make([]view.MenuItem, 0, len(cfg.Site.Menu))
	for _, item := range cfg.Site.Menu {
		menu = append(menu, view.MenuItem{Label: item.Label, Path: item.URL})
	}

	site := Site{
		Meta:     cfg.SiteMetadata(),
		BasePath: cfg.Site.BasePath,
		Menu:     menu,
		Flavors:  cfg.Footer.Flavors,
	}
	if cfg.Feeds.RSS.Enable {
		site.Feed = cfg.Feeds.RSS.Path
	}
	return site
}

func (s Site) layout(path string, body ...view.Component) *view.Layout {
	return view.NewLayout(s.Meta, path, body,
		view.WithBasePath(s.BasePath),
		view.WithMenu(s.Menu...),
		view.WithFooter(s.Flavors, s.Picker),
	)
}

// PagePath is where a slug is served, base path included.
func (s Site) PagePath(slug string) string {
	return config.WithPrefix(s.BasePath, slug)
}

// Permalink is the absolute URL of a slug.
func (s Site) Permalink(slug string) string {
	return s.Meta.SiteURL + s.PagePath(slug)
}

func (s Site) head(layout *view.Layout, page view.Head) view.Head {
	head := view.MergeHead(layout.Head(), page)
	if s.Feed != "" {
		head.Links = append(head.Links, view.Link{
			Rel:  "alternate",
			Type: "application/rss+xml",
			Href: s.PagePath(s.Feed),
		})
	}
	return head
}

// Entry renders a record with the composition its layout names.
func Entry(w io.Writer, site Site, record content.Record) error {
	switch record.Fields.Layout {
	case content.LayoutPost:
		return Post(w, site, record)
	case content.LayoutBookmark:
		return Bookmark(w, site, record)
	default:
		return fmt.Errorf("%w: %q", content.ErrUnknownLayout, record.Fields.Layout)
	}
}

func entryHead(site Site, title string, record content.Record) view.Head {
	author := site.Meta.Author.Name
	return view.Head{
		Title: title + " · " + site.Meta.Title,
		Meta: []view.Meta{
			{Name: "description", Content: record.Description()},
			{Name: "author", Content: author},
			{Property: "og:title", Content: title},
			{Property: "og:description", Content: record.Description()},
			{Property: "og:type", Content: "article"},
			{Property: "og:article:author", Content: author},
			{Property: "og:article:published_time", Content: record.Fields.DateOGP},
		},
	}
}

func entry(site Site, title string, record content.Record) (view.Entry, error) {
	if record.Fields.Slug == "" {
		return view.Entry{}, content.ErrMissingSlug
	}
	if record.HTML == "" {
		return view.Entry{}, content.ErrMissingBody
	}

	iso, err := content.ISODate(record.Fields.DateOGP)
	if err != nil {
		return view.Entry{}, fmt.Errorf("%s: %w", record.Fields.Slug, err)
	}

	return view.Entry{
		Record:    record,
		Author:    site.Meta.Author,
		Avatar:    site.Avatar,
		Title:     title,
		DateTime:  iso,
		Permalink: site.Permalink(record.Fields.Slug),
	}, nil
}

// Post renders a post page.
func Post(w io.Writer, site Site, record content.Record) error {
	title := record.Frontmatter.Title

	e, err := entry(site, title, record)
	if err != nil {
		return err
	}

	layout := site.layout(site.PagePath(record.Fields.Slug), view.Page{
		Children: []view.Component{view.PostEntry{Entry: e}},
	})

	return view.RenderDocument(w, site.head(layout, entryHead(site, title, record)), layout)
}

// BookmarkTitle is the title of a bookmark, which may be left blank.
func BookmarkTitle(site Site, record content.Record) string {
	if record.Frontmatter.Title != "" {
		return record.Frontmatter.Title
	}
	return "Bookmark posted by " + site.Meta.Author.Name
}

// Bookmark renders a bookmark page.
func Bookmark(w io.Writer, site Site, record content.Record) error {
	title := BookmarkTitle(site, record)

	e, err := entry(site, title, record)
	if err != nil {
		return err
	}

	layout := site.layout(site.PagePath(record.Fields.Slug), view.Page{
		Children: []view.Component{view.BookmarkEntry{Entry: e}},
	})

	return view.RenderDocument(w, site.head(layout, entryHead(site, title, record)), layout)
}

const NotFoundTitle = "404: Page not found."

// NotFound renders the not-found page.
func NotFound(w io.Writer, site Site) error {
	layout := site.layout(site.PagePath(view.NotFoundPath), view.NotFoundMessage{
		HomePath: site.PagePath(view.HomePath),
	})

	head := view.Head{
		Title: NotFoundTitle + " · " + site.Meta.Title,
		Meta: []view.Meta{
			{Name: "description", Content: site.Meta.Description},
			{Property: "og:title", Content: NotFoundTitle},
			{Property: "og:description", Content: site.Meta.Description},
		},
	}

	return view.RenderDocument(w, site.head(layout, head), layout)
}
