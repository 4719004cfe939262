package feeds

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/olimci/hyoushi/pkg/content"
	"github.com/olimci/hyoushi/pkg/render"
)

func testSite() render.Site {
	return render.Site{
		Meta: content.SiteMetadata{
			Title:       "Notebook",
			Description: "Things I wrote down",
			SiteURL:     "https://example.org",
			Author:      content.Author{Name: "Sam"},
		},
		BasePath: "/",
	}
}

func entry(slug, layout, title string, published time.Time) *content.Entry {
	return &content.Entry{
		Record: content.Record{
			Excerpt: "excerpt of " + slug,
			Fields: content.Fields{
				Slug:   slug,
				Layout: layout,
			},
			Frontmatter: content.Frontmatter{Title: title},
		},
		Published: published,
	}
}

func day(d int) time.Time {
	return time.Date(2018, time.May, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildRSS(t *testing.T) {
	entries := []*content.Entry{
		entry("/posts/a/", content.LayoutPost, "A", day(1)),
		entry("/bookmarks/b/", content.LayoutBookmark, "", day(3)),
		entry("/posts/c/", content.LayoutPost, "C", day(2)),
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 0, []string{"Bookmark posted by Sam", "C", "A"}},
		{"limited", 2, []string{"Bookmark posted by Sam", "C"}},
		{"limit above count", 10, []string{"Bookmark posted by Sam", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := BuildRSS(testSite(), entries, tt.limit, time.Time{})

			var got []string
			for _, item := range feed.Channel.Items {
				got = append(got, item.Title)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("titles = %v, want %v", got, tt.want)
			}
		})
	}

	if entries[0].Record.Fields.Slug != "/posts/a/" {
		t.Errorf("BuildRSS reordered its input")
	}
}

func TestBuildRSSItem(t *testing.T) {
	e := entry("/posts/a/", content.LayoutPost, "A", day(1))
	e.Record.Fields.Lead = "The lead"
	e.Record.Fields.Category = "notes"

	feed := BuildRSS(testSite(), []*content.Entry{e}, 0, day(9))
	if feed.Channel.Link != "https://example.org/" {
		t.Errorf("channel link = %q", feed.Channel.Link)
	}
	if feed.Channel.LastBuildDate != day(9).Format(time.RFC1123Z) {
		t.Errorf("lastBuildDate = %q", feed.Channel.LastBuildDate)
	}

	item := feed.Channel.Items[0]
	if item.Link != "https://example.org/posts/a/" || item.GUID != item.Link {
		t.Errorf("link = %q, guid = %q", item.Link, item.GUID)
	}
	if item.Description != "The lead" {
		t.Errorf("description = %q, want lead", item.Description)
	}
	if item.Category != "notes" {
		t.Errorf("category = %q", item.Category)
	}
	if item.PubDate != "Tue, 01 May 2018 00:00:00 +0000" {
		t.Errorf("pubDate = %q", item.PubDate)
	}
}

func TestBuildSitemap(t *testing.T) {
	site := testSite()
	site.BasePath = "/blog"

	sm := BuildSitemap(site, []*content.Entry{
		entry("/posts/b/", content.LayoutPost, "B", day(2)),
		entry("/posts/a/", content.LayoutPost, "A", time.Time{}),
	})

	want := []SitemapURL{
		{Loc: "https://example.org/blog/"},
		{Loc: "https://example.org/blog/posts/a/"},
		{Loc: "https://example.org/blog/posts/b/", LastMod: "2018-05-02"},
	}
	if len(sm.URLs) != len(want) {
		t.Fatalf("urls = %v, want %v", sm.URLs, want)
	}
	for i := range want {
		if sm.URLs[i] != want[i] {
			t.Errorf("urls[%d] = %+v, want %+v", i, sm.URLs[i], want[i])
		}
	}
}

func TestEncode(t *testing.T) {
	e := entry("/posts/a/", content.LayoutPost, "Fish & <chips>", day(1))

	var buf bytes.Buffer
	if err := Encode(&buf, BuildRSS(testSite(), []*content.Entry{e}, 0, time.Time{})); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, xml.Header) {
		t.Errorf("missing xml header: %q", out)
	}
	if !strings.Contains(out, "<title>Fish &amp; &lt;chips&gt;</title>") {
		t.Errorf("title not escaped: %s", out)
	}
	if strings.Contains(out, "lastBuildDate") {
		t.Errorf("zero build date written: %s", out)
	}

	var back RSS
	if err := xml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid xml: %v", err)
	}
	if back.Version != "2.0" || len(back.Channel.Items) != 1 {
		t.Errorf("decoded feed = %+v", back)
	}
}
