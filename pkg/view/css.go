package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
	ttemplate "text/template"

	"github.com/olimci/hyoushi/pkg/style"
	"github.com/olimci/hyoushi/pkg/utils/set"
)

//go:embed styles/*.css
var styleFS embed.FS

// CSSEmbedder is implemented by components that add CSS beyond the
// stylesheet named after their template.
type CSSEmbedder interface {
	EmbedCSS() template.CSS
}

var (
	sheetsOnce sync.Once
	sheets     map[string]string
	sheetsErr  error
)

// stylesheets executes every embedded stylesheet against the default theme,
// keyed by the template name it belongs to.
func stylesheets() (map[string]string, error) {
	sheetsOnce.Do(func() {
		sheets, sheetsErr = buildStylesheets(styleFS, "styles/*.css", style.Default)
	})
	return sheets, sheetsErr
}

func buildStylesheets(fsys fs.FS, pattern string, theme style.Theme) (map[string]string, error) {
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	funcs := ttemplate.FuncMap{
		"em":       style.EmSize,
		"rem":      style.Rem,
		"px":       style.Px,
		"minWidth": style.MinWidth,
		"darken":   style.Darken,
		"lighten":  style.Lighten,
		"alpha":    style.Alpha,
	}

	out := make(map[string]string, len(files))
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read stylesheet %s: %w", file, err)
		}

		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		t, err := ttemplate.New(name).Funcs(funcs).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse stylesheet %s: %w", file, err)
		}

		var buf bytes.Buffer
		if err := t.Execute(&buf, theme); err != nil {
			return nil, fmt.Errorf("failed to execute stylesheet %s: %w", file, err)
		}
		out[name] = strings.TrimSpace(buf.String())
	}

	return out, nil
}

// CollectCSS gathers the stylesheets of every component in the tree rooted
// at c, once per template, in first-use order.
func CollectCSS(c Component) (template.CSS, error) {
	all, err := stylesheets()
	if err != nil {
		return "", err
	}

	var (
		sb    strings.Builder
		seen  = set.New[string]()
		extra = set.New[string]()
	)

	Walk(c, func(c Component) {
		if name := c.Template(); !seen.HasAdd(name) {
			if sheet, ok := all[name]; ok && sheet != "" {
				sb.WriteString(sheet)
				sb.WriteByte('\n')
			}
		}

		if embedder, ok := c.(CSSEmbedder); ok {
			if css := strings.TrimSpace(string(embedder.EmbedCSS())); css != "" && !extra.HasAdd(css) {
				sb.WriteString(css)
				sb.WriteByte('\n')
			}
		}
	})

	return template.CSS(sb.String()), nil
}
