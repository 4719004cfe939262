package content

import (
	"html/template"
	"strings"
	"time"
)

// SiteMetadata is the site-wide record every page template receives.
type SiteMetadata struct {
	Title       string
	Tagline     string
	Description string
	SiteURL     string
	Author      Author
}

type Author struct {
	Name        string
	Description string
	Website     string
	Email       string
	Social      []SocialLink
}

// SocialLink is one entry of an author's ordered social profile list.
type SocialLink struct {
	Label string
	URL   string
}

// Profiles returns the social links with a non-empty URL, in order.
func (a Author) Profiles() []SocialLink {
	out := make([]SocialLink, 0, len(a.Social))
	for _, link := range a.Social {
		if strings.TrimSpace(link.URL) == "" {
			continue
		}
		out = append(out, link)
	}
	return out
}

// Record is a rendered post or bookmark.
type Record struct {
	HTML        template.HTML
	Excerpt     string
	Fields      Fields
	Frontmatter Frontmatter
}

type Fields struct {
	Slug     string
	Layout   string
	Category string
	Lead     string
	Date     string // display form
	DateOGP  string // machine-parsable form
	Link     string
}

type Frontmatter struct {
	Title       string
	HeaderImage *Image
	Syndication []Syndication
}

type Syndication struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	URL  string `toml:"url" yaml:"url" json:"url"`
}

// Image describes a set of responsive image variants.
type Image struct {
	Src         string
	SrcSet      string
	Sizes       string
	Width       int
	Height      int
	AspectRatio float64
}

func (r Record) HasCategory() bool    { return r.Fields.Category != "" }
func (r Record) HasLead() bool        { return r.Fields.Lead != "" }
func (r Record) HasLink() bool        { return r.Fields.Link != "" }
func (r Record) HasHeaderImage() bool { return r.Frontmatter.HeaderImage != nil }
func (r Record) HasSyndication() bool { return len(r.Frontmatter.Syndication) > 0 }

// Description is the lead when present, else the excerpt.
func (r Record) Description() string {
	if r.HasLead() {
		return r.Fields.Lead
	}
	return r.Excerpt
}

const (
	LayoutPost     = "post"
	LayoutBookmark = "bookmark"
)

// Entry is a loaded record together with what the build needs to place it.
type Entry struct {
	Record Record

	Source            string // path relative to the content root
	HeaderImageSource string // filesystem path of the header image, if any
	Published         time.Time
	Draft             bool
}

// URLPath is the entry's site-relative path.
func (e *Entry) URLPath() string {
	return e.Record.Fields.Slug
}
