// Package view holds the components pages are built from. Each component is
// a plain value naming an embedded html/template; templates render their
// children through the "render" func, so a page is a tree of components
// rendered top-down in a single pass.
package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var ErrUnknownTemplate = errors.New("unknown component template")

// Component is anything that can be rendered by a named template, with
// itself as the template data.
type Component interface {
	Template() string
}

// ComponentUser is implemented by components that render other components.
// It is how stylesheets are collected for a page.
type ComponentUser interface {
	UseComponents() []Component
}

var (
	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
)

func templates() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmpl, tmplErr = parseTemplates(templateFS, "templates/*.tmpl")
	})
	return tmpl, tmplErr
}

func parseTemplates(fsys fs.FS, pattern string) (*template.Template, error) {
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no template files found matching pattern: %s", pattern)
	}

	t := template.New("view").Funcs(template.FuncMap{
		"render": render,
	})

	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", file, err)
		}

		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		if _, err := t.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}

	return t, nil
}

// Render renders a component to HTML.
func Render(c Component) (template.HTML, error) {
	t, err := templates()
	if err != nil {
		return "", err
	}

	name := c.Template()
	if t.Lookup(name) == nil {
		return "", fmt.Errorf("%w: %q for %T", ErrUnknownTemplate, name, c)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, c); err != nil {
		return "", fmt.Errorf("render %T: %w", c, err)
	}
	return template.HTML(buf.String()), nil
}

// render is the template-side entry point. It accepts a component, a slice
// of components or nil.
func render(v any) (template.HTML, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case Component:
		return Render(v)
	case []Component:
		var sb strings.Builder
		for _, c := range v {
			if c == nil {
				continue
			}
			html, err := Render(c)
			if err != nil {
				return "", err
			}
			sb.WriteString(string(html))
		}
		return template.HTML(sb.String()), nil
	default:
		return "", fmt.Errorf("cannot render %T", v)
	}
}

// Walk visits c and every component it uses, depth first.
func Walk(c Component, fn func(Component)) {
	if c == nil {
		return
	}
	fn(c)
	if user, ok := c.(ComponentUser); ok {
		for _, child := range user.UseComponents() {
			Walk(child, fn)
		}
	}
}

// compact drops nil entries, so optional children can be listed inline.
func compact(cs ...Component) []Component {
	out := make([]Component, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
