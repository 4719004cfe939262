package view

import (
	"strings"

	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/content"
)

const (
	HomePath     = "/"
	NotFoundPath = "/404"
)

type MenuItem struct {
	Label string
	Path  string
}

// Layout wraps every page: masthead, body and, except on the not-found
// page, a footer.
type Layout struct {
	Site     content.SiteMetadata
	Path     string
	BasePath string
	Menu     []MenuItem
	Body     []Component

	navigationVisible bool
	footer            *Footer
}

type LayoutOption func(*Layout)

func WithBasePath(base string) LayoutOption {
	return func(l *Layout) {
		l.BasePath = base
	}
}

func WithMenu(items ...MenuItem) LayoutOption {
	return func(l *Layout) {
		l.Menu = append(l.Menu, items...)
	}
}

// WithFooter sets the footer's flavor lines and the picker used to choose
// one of them.
func WithFooter(flavors []string, picker Picker) LayoutOption {
	return func(l *Layout) {
		l.footer = NewFooter(l.Site.Title, flavors, picker)
	}
}

func NewLayout(site content.SiteMetadata, path string, body []Component, opts ...LayoutOption) *Layout {
	l := &Layout{
		Site: site,
		Path: path,
		Body: body,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.footer == nil {
		l.footer = NewFooter(site.Title, nil, nil)
	}
	return l
}

// ToggleNavigation flips the navigation menu between closed and open.
func (l *Layout) ToggleNavigation() {
	l.navigationVisible = !l.navigationVisible
}

func (l *Layout) NavigationVisible() bool {
	return l.navigationVisible
}

func (l *Layout) HomePath() string {
	return config.WithPrefix(l.BasePath, HomePath)
}

func (l *Layout) NotFoundPath() string {
	return config.WithPrefix(l.BasePath, NotFoundPath)
}

func (l *Layout) IsHome() bool {
	return l.Path == l.HomePath()
}

func (l *Layout) IsNotFound() bool {
	return l.Path == l.NotFoundPath()
}

// Footer is nil on the not-found page.
func (l *Layout) Footer() *Footer {
	if l.IsNotFound() {
		return nil
	}
	return l.footer
}

func (l *Layout) Masthead() Masthead {
	items := make([]MenuItem, 0, len(l.Menu))
	for _, item := range l.Menu {
		items = append(items, MenuItem{Label: item.Label, Path: config.WithPrefix(l.BasePath, item.Path)})
	}

	return Masthead{
		Title:    l.Site.Title,
		HomePath: l.HomePath(),
		Path:     l.Path,
		Items:    items,
		Open:     l.navigationVisible,
		Home:     l.IsHome(),
	}
}

// Head is the site-wide head metadata pages merge their own into.
func (l *Layout) Head() Head {
	head := Head{
		Title: l.Site.Title,
		Meta: []Meta{
			{Name: "description", Content: l.Site.Description},
			{Property: "og:site_name", Content: l.Site.Title},
			{Property: "og:type", Content: "website"},
			{Property: "og:title", Content: l.Site.Title},
			{Property: "og:description", Content: l.Site.Description},
		},
	}

	for _, link := range l.Site.Author.Profiles() {
		head.Links = append(head.Links, Link{Rel: "me", Href: link.URL})
	}

	return head
}

func (*Layout) Template() string { return "layout" }

func (l *Layout) UseComponents() []Component {
	cs := []Component{l.Masthead()}
	cs = append(cs, l.Body...)
	if f := l.Footer(); f != nil {
		cs = append(cs, f)
	}
	return cs
}

// Masthead is the site header and navigation menu.
type Masthead struct {
	Title    string
	HomePath string
	Path     string
	Items    []MenuItem
	Open     bool
	Home     bool
}

func (Masthead) Template() string { return "masthead" }

// IsActive reports whether p is the current page or one of its ancestors.
func (m Masthead) IsActive(p string) bool {
	if p == m.HomePath {
		return m.Path == p
	}
	return m.Path == p || strings.HasPrefix(m.Path, strings.TrimSuffix(p, "/")+"/")
}

func (m Masthead) UseComponents() []Component {
	return []Component{Container{Size: SizeXL}}
}
