package view

import "html/template"

type Size string

const (
	SizeMD    Size = "md"
	SizeLG    Size = "lg"
	SizeXL    Size = "xl"
	SizeFluid Size = "fluid"
)

func (s Size) orDefault() Size {
	switch s {
	case SizeMD, SizeLG, SizeXL, SizeFluid:
		return s
	default:
		return SizeMD
	}
}

type Spacing string

const (
	SpacingNormal Spacing = "normal"
	SpacingLarge  Spacing = "large"
)

// Raw is trusted HTML.
type Raw template.HTML

func (Raw) Template() string      { return "raw" }
func (r Raw) HTML() template.HTML { return template.HTML(r) }

// Text is escaped plain text.
type Text string

func (Text) Template() string { return "text" }

type Container struct {
	Size     Size
	Children []Component
}

func (c Container) Template() string           { return "container" }
func (c Container) UseComponents() []Component { return c.Children }
func (c Container) SizeClass() Size            { return c.Size.orDefault() }

type Divider struct {
	Spacing Spacing
}

func (Divider) Template() string { return "divider" }

func (d Divider) SpacingClass() Spacing {
	if d.Spacing == SpacingLarge {
		return SpacingLarge
	}
	return SpacingNormal
}

type MessageBox struct {
	Children []Component
}

func (MessageBox) Template() string             { return "messagebox" }
func (m MessageBox) UseComponents() []Component { return m.Children }

// PageHeader is a page's top section, wrapping its children in a Container.
type PageHeader struct {
	Size     Size
	Children []Component
}

func (PageHeader) Template() string { return "pageheader" }

func (p PageHeader) Inner() Container {
	return Container{Size: p.Size.orDefault(), Children: p.Children}
}

func (p PageHeader) UseComponents() []Component { return []Component{p.Inner()} }

type PageSubtitle struct {
	Class string
	Text  string
}

func (PageSubtitle) Template() string { return "pagesubtitle" }

type PostMeta struct {
	Children []Component
}

func (PostMeta) Template() string             { return "postmeta" }
func (p PostMeta) UseComponents() []Component { return p.Children }

type PostMetaItem struct {
	Class    string
	Children []Component
}

func (PostMetaItem) Template() string             { return "postmetaitem" }
func (p PostMetaItem) UseComponents() []Component { return p.Children }

type MarkdownContent struct {
	Class string
	HTML  template.HTML
}

func (MarkdownContent) Template() string { return "markdown" }

type Page struct {
	Children []Component
}

func (Page) Template() string             { return "page" }
func (p Page) UseComponents() []Component { return p.Children }

type PageContent struct {
	Children []Component
}

func (PageContent) Template() string             { return "pagecontent" }
func (p PageContent) UseComponents() []Component { return p.Children }

// Time is a machine-readable timestamp with a display form.
type Time struct {
	Class    string
	DateTime string
	Display  string
}

func (Time) Template() string { return "time" }
