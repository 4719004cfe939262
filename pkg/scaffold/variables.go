package scaffold

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Variables are the values starter templates are executed against.
type Variables struct {
	SiteName string
	Author   string
	Version  string
	Year     string
	Date     string // YYYY-MM-DD, used for starter entries
}

type VariablesConfig struct {
	Directory string
	SiteName  string
	Author    string
	Version   string
	Now       time.Time
}

func NewVariables(cfg VariablesConfig) *Variables {
	siteName := cfg.SiteName
	if siteName == "" {
		siteName = DeriveSiteName(cfg.Directory)
	}

	author := cfg.Author
	if author == "" {
		author = "Anonymous"
	}

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	return &Variables{
		SiteName: siteName,
		Author:   author,
		Version:  cfg.Version,
		Year:     now.Format("2006"),
		Date:     now.Format(time.DateOnly),
	}
}

// DeriveSiteName turns a directory name like "my-notes" into "My Notes".
func DeriveSiteName(dir string) string {
	if dir == "" || dir == "." {
		return "My Site"
	}

	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		return "My Site"
	}

	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	return toTitleCase(name)
}

func toTitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
