package mf2

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/olimci/hyoushi/pkg/manifest"
)

const completeEntry = `<article class="h-entry">
<time class="dt-published" datetime="2018-05-01T00:00:00.000Z">01 May 2018</time>
<div class="markdown-content e-content"><p>Hi</p></div>
<a class="u-url" href="https://example.org/posts/x/">Permalink</a>
<div class="h-card"><a class="p-name u-url" href="https://sam.example">Sam</a></div>
</article>`

func TestAudit(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{"complete", completeEntry, nil},
		{"not an entry", `<main><p>About</p></main>`, nil},
		{
			"missing content and date",
			`<article class="h-entry"><a class="u-url" href="/x/">x</a><div class="h-card"><span class="p-name">Sam</span></div></article>`,
			[]string{"h-entry has no e-content", "h-entry has no dt-published"},
		},
		{
			"card without name",
			strings.Replace(completeEntry, `class="p-name u-url"`, `class="u-url"`, 1),
			[]string{"h-card has no p-name"},
		},
		{
			"no card",
			strings.Replace(completeEntry, `class="h-card"`, `class="author"`, 1),
			[]string{"h-entry has no h-card"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems, err := Audit(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Audit() error = %v", err)
			}

			var got []string
			for _, p := range problems {
				got = append(got, p.String())
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Audit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostProcessor(t *testing.T) {
	broken := `<article class="h-entry"></article>`
	writeDoc := func(doc string) manifest.ArtefactBuilder {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, doc)
			return err
		}
	}

	var reported []string
	report := func(target string, problems []Problem) {
		reported = append(reported, target)
	}

	page := manifest.Claim{Target: "posts/x/index.html"}

	var buf bytes.Buffer
	if err := PostProcessor(report, false)(page, writeDoc(broken))(&buf); err != nil {
		t.Fatalf("lenient audit error = %v", err)
	}
	if buf.String() != broken {
		t.Errorf("output changed by audit: %q", buf.String())
	}
	if len(reported) != 1 || reported[0] != "posts/x/index.html" {
		t.Errorf("reported = %v", reported)
	}

	err := PostProcessor(report, true)(page, writeDoc(broken))(io.Discard)
	if !errors.Is(err, ErrMissingMarkup) {
		t.Errorf("strict audit error = %v, want ErrMissingMarkup", err)
	}

	reported = nil
	feed := manifest.Claim{Target: "rss.xml"}
	if err := PostProcessor(report, true)(feed, writeDoc(broken))(io.Discard); err != nil {
		t.Errorf("non-html artefact audited: %v", err)
	}
	if len(reported) != 0 {
		t.Errorf("non-html artefact reported: %v", reported)
	}
}
