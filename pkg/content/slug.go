package content

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// CleanSlug validates a slug and returns it in "/a/b/" form.
func CleanSlug(raw string) (string, error) {
	s := strings.Trim(strings.TrimSpace(raw), "/")
	if s == "" {
		return "", fmt.Errorf("%w: empty slug", ErrMissingSlug)
	}

	if strings.ContainsAny(s, "\\?#") {
		return "", fmt.Errorf("slug must not contain any of: \\, ?, # (got %q)", raw)
	}

	if cleaned := path.Clean(s); cleaned != s {
		return "", fmt.Errorf("slug must be clean (got %q, want %q)", raw, cleaned)
	}

	for _, seg := range strings.Split(s, "/") {
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("slug contains invalid segment %q (got %q)", seg, raw)
		}
		for _, r := range seg {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				return "", fmt.Errorf("slug contains whitespace/control character (got %q)", raw)
			}
			if !isUnreservedURLRune(r) {
				return "", fmt.Errorf("slug contains non-url-safe character %q (got %q)", r, raw)
			}
		}
	}

	return "/" + s + "/", nil
}

// SlugFromPath derives a slug from a content path such as
// "posts/2018-05-01-hello.md" or "posts/hello/index.md".
func SlugFromPath(rel string) string {
	p := strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." {
		return "/"
	}
	return "/" + strings.Trim(p, "/") + "/"
}

func isUnreservedURLRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '-', '.', '_', '~':
		return true
	default:
		return false
	}
}
