package view

import (
	"github.com/olimci/hyoushi/pkg/content"
)

// PostHeader is the dark banner at the top of a post.
type PostHeader struct {
	Children []Component
}

func (PostHeader) Template() string { return "postheader" }

func (p PostHeader) Inner() Container {
	return Container{Size: SizeMD, Children: p.Children}
}

func (p PostHeader) UseComponents() []Component { return []Component{p.Inner()} }

type PostTitle struct {
	Class string
	Text  string
}

func (PostTitle) Template() string { return "posttitle" }

// PostThumbnail shows a post's header image.
type PostThumbnail struct {
	Image *content.Image
	Alt   string
}

func (PostThumbnail) Template() string { return "postthumbnail" }

// BookmarkLink is the outbound link a bookmark points at.
type BookmarkLink struct {
	Link  string
	Title string
}

func (BookmarkLink) Template() string { return "bookmarklink" }

// Label is the title, falling back to the link itself.
func (b BookmarkLink) Label() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Link
}

// SyndicationNotice lists the other places an entry is published.
type SyndicationNotice struct {
	Targets []content.Syndication
}

func (SyndicationNotice) Template() string { return "syndication" }

func (s SyndicationNotice) Box() MessageBox {
	return MessageBox{Children: []Component{syndicationList(s)}}
}

func (s SyndicationNotice) UseComponents() []Component { return []Component{s.Box()} }

type syndicationList SyndicationNotice

func (syndicationList) Template() string { return "syndicationlist" }

// Permalink is the visually hidden canonical link of an entry.
type Permalink struct {
	URL string
}

func (Permalink) Template() string { return "permalink" }

// Entry is the data an h-entry article is bound to.
type Entry struct {
	Record content.Record
	Author content.Author
	Avatar *content.Image

	Title     string // resolved display title
	DateTime  string // ISO-8601 timestamp for dt-published
	Permalink string
}

func (e Entry) published() Component {
	return PostMetaItem{Children: []Component{
		Time{Class: "dt-published", DateTime: e.DateTime, Display: e.Record.Fields.Date},
	}}
}

func (e Entry) category() Component {
	if !e.Record.HasCategory() {
		return nil
	}
	return PostMetaItem{Class: "p-category", Children: []Component{Text(e.Record.Fields.Category)}}
}

func (e Entry) footer() []Component {
	return []Component{
		Divider{Spacing: SpacingLarge},
		Container{Children: []Component{HCard{Author: e.Author, Avatar: e.Avatar}}},
	}
}

func (e Entry) body(lead Component, notice Component) Component {
	main := Container{Children: compact(
		lead,
		notice,
		MarkdownContent{Class: "e-content", HTML: e.Record.HTML},
		Permalink{URL: e.Permalink},
	)}
	return PageContent{Children: append([]Component{main}, e.footer()...)}
}

// PostEntry is the article of a post page.
type PostEntry struct {
	Entry
}

func (PostEntry) Template() string { return "entry" }

func (p PostEntry) Parts() []Component {
	header := PostHeader{Children: []Component{
		PostMeta{Children: compact(
			p.published(),
			p.category(),
			PostTitle{Class: "p-name", Text: p.Title},
		)},
	}}

	var thumbnail Component
	if p.Record.HasHeaderImage() {
		thumbnail = PostThumbnail{Image: p.Record.Frontmatter.HeaderImage, Alt: p.Title}
	}

	var lead Component
	if p.Record.HasLead() {
		lead = PageSubtitle{Class: "p-summary", Text: p.Record.Fields.Lead}
	}

	var notice Component
	if p.Record.HasSyndication() {
		notice = SyndicationNotice{Targets: p.Record.Frontmatter.Syndication}
	}

	return compact(header, thumbnail, p.body(lead, notice))
}

func (p PostEntry) UseComponents() []Component { return p.Parts() }

// BookmarkEntry is the article of a bookmark page.
type BookmarkEntry struct {
	Entry
}

func (BookmarkEntry) Template() string { return "entry" }

func (b BookmarkEntry) Parts() []Component {
	var link Component
	if b.Record.HasLink() {
		link = BookmarkLink{Link: b.Record.Fields.Link, Title: b.Record.Frontmatter.Title}
	}

	var lead Component
	if b.Record.HasLead() {
		lead = PageSubtitle{Text: b.Record.Fields.Lead}
	}

	header := PageHeader{Children: []Component{
		PostMeta{Children: compact(
			b.published(),
			b.category(),
			link,
			lead,
		)},
	}}

	var notice Component
	if b.Record.HasSyndication() {
		notice = SyndicationNotice{Targets: b.Record.Frontmatter.Syndication}
	}

	return compact(header, b.body(nil, notice))
}

func (b BookmarkEntry) UseComponents() []Component { return b.Parts() }

// NotFoundMessage is the body of the not-found page.
type NotFoundMessage struct {
	HomePath string
}

func (NotFoundMessage) Template() string { return "notfound" }
