package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Meta is the frontmatter block of a content file as written.
type Meta struct {
	Title       string        `toml:"title" yaml:"title" json:"title"`
	Slug        string        `toml:"slug" yaml:"slug" json:"slug"`
	Layout      string        `toml:"layout" yaml:"layout" json:"layout"`
	Date        RawDate       `toml:"date" yaml:"date" json:"date"`
	Category    string        `toml:"category" yaml:"category" json:"category"`
	Lead        string        `toml:"lead" yaml:"lead" json:"lead"`
	Link        string        `toml:"link" yaml:"link" json:"link"`
	HeaderImage string        `toml:"header_image" yaml:"header_image" json:"header_image"`
	Syndication []Syndication `toml:"syndication" yaml:"syndication" json:"syndication"`
	Draft       bool          `toml:"draft" yaml:"draft" json:"draft"`
}

// RawDate keeps a frontmatter date as it was written. TOML datetimes, which
// arrive already parsed, are formatted back to RFC 3339 (or a bare date).
type RawDate string

func (d *RawDate) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*d = RawDate(v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			*d = RawDate(v.Format(time.DateOnly))
		} else {
			*d = RawDate(v.Format(time.RFC3339Nano))
		}
	default:
		return fmt.Errorf("%w: unsupported date value %v", ErrInvalidDate, v)
	}
	return nil
}

var (
	ErrUnknownFrontmatterType   = errors.New("unknown frontmatter type")
	ErrFailedToParseFrontmatter = errors.New("failed to parse frontmatter")
	ErrNoFrontmatter            = errors.New("no frontmatter")
)

// ExtractFrontmatter splits a document into its frontmatter and body.
func ExtractFrontmatter(doc []byte) (*Meta, []byte, error) {
	b := trimBOM(doc)

	var (
		meta Meta
		err  error
	)

	fmType, start, end, bodyStart := detectFrontmatterBlock(b)
	switch fmType {
	case "yaml":
		err = yaml.Unmarshal(b[start:end], &meta)
	case "toml":
		err = toml.Unmarshal(b[start:end], &meta)
	case "json":
		err = json.Unmarshal(b[start:end], &meta)
	case "":
		return nil, nil, ErrNoFrontmatter
	default:
		return nil, nil, ErrUnknownFrontmatterType
	}

	if err != nil {
		return nil, doc, fmt.Errorf("%w: %w", ErrFailedToParseFrontmatter, err)
	}
	return &meta, b[bodyStart:], nil
}

// detectFrontmatterBlock returns (type, start, end, bodyStart)
func detectFrontmatterBlock(b []byte) (string, int, int, int) {
	if len(b) == 0 {
		return "", 0, 0, 0
	}

	switch {
	case hasPrefixAtLineStart(b, []byte("---")):
		return scanFencedBlock(b, []byte("---"), "yaml")
	case hasPrefixAtLineStart(b, []byte("+++")):
		return scanFencedBlock(b, []byte("+++"), "toml")
	default:
		return scanJSONObjectPrefix(b)
	}
}

func scanFencedBlock(b []byte, fence []byte, kind string) (string, int, int, int) {
	payloadStart := lineEnd(b, 0)

	for i := payloadStart; i < len(b); {
		next := lineEnd(b, i)
		if bytes.Equal(bytes.TrimRight(b[i:next], " \t\r\n"), fence) {
			return kind, payloadStart, i, next
		}
		i = next
	}
	return "", 0, 0, 0
}

// scanJSONObjectPrefix matches a JSON object at the very start of b.
func scanJSONObjectPrefix(b []byte) (string, int, int, int) {
	if len(b) == 0 || b[0] != '{' {
		return "", 0, 0, 0
	}

	var (
		depth   int
		inStr   bool
		escaped bool
	)

	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end := i + 1
				return "json", 0, end, skipSingleLineEnding(b, end)
			}
		}
	}

	return "", 0, 0, 0
}

func skipSingleLineEnding(b []byte, i int) int {
	if i < len(b) && b[i] == '\r' {
		i++
	}
	if i < len(b) && b[i] == '\n' {
		i++
	}
	return i
}

func hasPrefixAtLineStart(b, prefix []byte) bool {
	if !bytes.HasPrefix(b, prefix) {
		return false
	}
	return bytes.Equal(bytes.TrimRight(b[:lineEnd(b, 0)], " \t\r\n"), prefix)
}

// lineEnd returns the index just past the next newline, or len(b).
func lineEnd(b []byte, start int) int {
	if i := bytes.IndexByte(b[start:], '\n'); i >= 0 {
		return start + i + 1
	}
	return len(b)
}

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
