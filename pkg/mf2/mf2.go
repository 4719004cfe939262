// Package mf2 checks rendered pages for the microformats2 markup feed
// readers and IndieWeb tools rely on.
package mf2

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/olimci/hyoushi/pkg/manifest"
	"golang.org/x/net/html"
)

var ErrMissingMarkup = errors.New("missing microformat markup")

// EntryProperties must appear inside every h-entry.
var EntryProperties = []string{"e-content", "dt-published", "u-url"}

// Problem is a single audit finding.
type Problem struct {
	Root     string // the root class the property belongs to
	Property string
}

func (p Problem) String() string {
	return p.Root + " has no " + p.Property
}

// Audit parses an HTML document and reports missing markup. Documents with
// no h-entry are not checked.
func Audit(r io.Reader) ([]Problem, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var problems []Problem
	for _, entry := range findAll(doc, "h-entry") {
		for _, prop := range EntryProperties {
			if len(findAll(entry, prop)) == 0 {
				problems = append(problems, Problem{Root: "h-entry", Property: prop})
			}
		}

		cards := findAll(entry, "h-card")
		if len(cards) == 0 {
			problems = append(problems, Problem{Root: "h-entry", Property: "h-card"})
			continue
		}
		for _, card := range cards {
			if len(findAll(card, "p-name")) == 0 {
				problems = append(problems, Problem{Root: "h-card", Property: "p-name"})
			}
		}
	}

	return problems, nil
}

// Reporter receives the findings for one target.
type Reporter func(target string, problems []Problem)

// PostProcessor audits HTML artefacts as they are written, passing findings
// to report. When strict, a page with findings fails to write.
func PostProcessor(report Reporter, strict bool) manifest.PostProcessor {
	return func(claim manifest.Claim, next manifest.ArtefactBuilder) manifest.ArtefactBuilder {
		if path.Ext(claim.Target) != ".html" {
			return next
		}

		return func(w io.Writer) error {
			var buf bytes.Buffer
			if err := next(io.MultiWriter(w, &buf)); err != nil {
				return err
			}

			problems, err := Audit(&buf)
			if err != nil {
				return fmt.Errorf("audit %s: %w", claim.Target, err)
			}
			if len(problems) == 0 {
				return nil
			}

			if report != nil {
				report(claim.Target, problems)
			}
			if strict {
				return fmt.Errorf("%w: %s", ErrMissingMarkup, join(problems))
			}
			return nil
		}
	}
}

func join(problems []Problem) string {
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "; ")
}

func findAll(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	for n := range root.Descendants() {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return slices.Contains(strings.Fields(a.Val), class)
		}
	}
	return false
}
