package view

import (
	"html/template"
	"io"
	"slices"
)

// Meta is a <meta> element, keyed by Name or, failing that, Property.
type Meta struct {
	Name     string
	Property string
	Content  string
}

func (m Meta) key() string {
	if m.Name != "" {
		return "name:" + m.Name
	}
	return "property:" + m.Property
}

type Link struct {
	Rel  string
	Href string
	Type string
}

// Head is the document head of a page.
type Head struct {
	Title string
	Meta  []Meta
	Links []Link
}

// MergeHead overlays page on base. The page title wins when set, and page
// meta replaces base meta with the same key in place; links are unioned.
func MergeHead(base, page Head) Head {
	out := Head{
		Title: base.Title,
		Meta:  make([]Meta, 0, len(base.Meta)+len(page.Meta)),
		Links: make([]Link, 0, len(base.Links)+len(page.Links)),
	}
	if page.Title != "" {
		out.Title = page.Title
	}

	override := make(map[string]Meta, len(page.Meta))
	for _, m := range page.Meta {
		override[m.key()] = m
	}

	for _, m := range base.Meta {
		if o, ok := override[m.key()]; ok {
			out.Meta = append(out.Meta, o)
			delete(override, m.key())
			continue
		}
		out.Meta = append(out.Meta, m)
	}
	for _, m := range page.Meta {
		if _, ok := override[m.key()]; ok {
			out.Meta = append(out.Meta, m)
			delete(override, m.key())
		}
	}

	seen := make(map[Link]struct{}, len(base.Links)+len(page.Links))
	for _, l := range slices.Concat(base.Links, page.Links) {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out.Links = append(out.Links, l)
	}

	return out
}

// MetaContent returns the content of the meta element with the given name
// or property.
func (h Head) MetaContent(key string) (string, bool) {
	for _, m := range h.Meta {
		if m.Name == key || (m.Name == "" && m.Property == key) {
			return m.Content, true
		}
	}
	return "", false
}

type document struct {
	Lang string
	Head Head
	CSS  template.CSS
	Body template.HTML
}

// RenderDocument renders root as a full HTML document with the given head
// and the stylesheets of every component in the tree.
func RenderDocument(w io.Writer, head Head, root Component) error {
	t, err := templates()
	if err != nil {
		return err
	}

	body, err := Render(root)
	if err != nil {
		return err
	}

	css, err := CollectCSS(root)
	if err != nil {
		return err
	}

	return t.ExecuteTemplate(w, "document", document{
		Lang: "en",
		Head: head,
		CSS:  css,
		Body: body,
	})
}
