package feeds

import (
	"encoding/xml"
	"slices"
	"strings"

	"github.com/olimci/hyoushi/pkg/content"
	"github.com/olimci/hyoushi/pkg/render"
)

const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type SitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// BuildSitemap lists the home page and every entry, sorted by location.
func BuildSitemap(site render.Site, entries []*content.Entry) Sitemap {
	urls := make([]SitemapURL, 0, len(entries)+1)
	urls = append(urls, SitemapURL{Loc: site.Permalink("/")})

	for _, e := range entries {
		if e.Record.Fields.Slug == "/" {
			continue
		}

		var lastMod string
		if !e.Published.IsZero() {
			lastMod = e.Published.UTC().Format("2006-01-02")
		}
		urls = append(urls, SitemapURL{
			Loc:     site.Permalink(e.Record.Fields.Slug),
			LastMod: lastMod,
		})
	}

	slices.SortFunc(urls, func(a, b SitemapURL) int {
		return strings.Compare(a.Loc, b.Loc)
	})

	return Sitemap{
		XMLNS: SitemapNamespace,
		URLs:  urls,
	}
}
