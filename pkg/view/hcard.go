package view

import (
	"github.com/olimci/hyoushi/pkg/content"
)

// AboutPath is where the h-card's "More about me" link points.
const AboutPath = "/about/"

// HCard renders an author as an h-card. A hidden card keeps its markup.
type HCard struct {
	Author    content.Author
	Avatar    *content.Image
	AboutPath string
	Hidden    bool
}

func (HCard) Template() string { return "hcard" }

// Profiles are the social links rendered, in list order.
func (h HCard) Profiles() []content.SocialLink {
	return h.Author.Profiles()
}

func (h HCard) About() string {
	if h.AboutPath == "" {
		return AboutPath
	}
	return h.AboutPath
}

func (h HCard) UseComponents() []Component {
	return []Component{Container{Size: SizeXL}}
}
