// Package feeds writes the RSS feed and sitemap of a site.
package feeds

import (
	"encoding/xml"
	"io"
	"slices"
	"time"

	"github.com/olimci/hyoushi/pkg/content"
	"github.com/olimci/hyoushi/pkg/render"
)

type RSS struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel RSSChannel `xml:"channel"`
}

type RSSChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []RSSItem `xml:"item"`
}

type RSSItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// BuildRSS collects entries newest first into a feed. A limit of zero keeps
// every entry.
func BuildRSS(site render.Site, entries []*content.Entry, limit int, built time.Time) RSS {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *content.Entry) int {
		return b.Published.Compare(a.Published)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	items := make([]RSSItem, 0, len(sorted))
	for _, e := range sorted {
		link := site.Permalink(e.Record.Fields.Slug)

		title := e.Record.Frontmatter.Title
		if e.Record.Fields.Layout == content.LayoutBookmark {
			title = render.BookmarkTitle(site, e.Record)
		}

		items = append(items, RSSItem{
			Title:       title,
			Link:        link,
			Description: e.Record.Description(),
			Category:    e.Record.Fields.Category,
			PubDate:     e.Published.Format(time.RFC1123Z),
			GUID:        link,
		})
	}

	feed := RSS{
		Version: "2.0",
		Channel: RSSChannel{
			Title:       site.Meta.Title,
			Link:        site.Permalink("/"),
			Description: site.Meta.Description,
			Items:       items,
		},
	}
	if !built.IsZero() {
		feed.Channel.LastBuildDate = built.Format(time.RFC1123Z)
	}
	return feed
}

// Encode writes v as an indented XML document.
func Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
