package manifest

import (
	"fmt"
	"path"
	"strings"
)

// Claim represents an artefact's claim on a target path inside dist.
type Claim struct {
	Owner  string
	Source string
	Target string
}

// NewPageClaim maps a site path to its file in dist: directory-style paths
// ("/posts/hello/") become index.html files, bare paths ("/404") get .html.
func NewPageClaim(owner, source, urlPath string) Claim {
	p := strings.TrimPrefix(urlPath, "/")

	var target string
	switch {
	case p == "":
		target = "index.html"
	case strings.HasSuffix(p, "/"):
		target = path.Join(p, "index.html")
	default:
		target = path.Clean(p) + ".html"
	}

	return Claim{
		Owner:  owner,
		Source: source,
		Target: target,
	}
}

func NewInternalClaim(owner, target string) Claim {
	return Claim{
		Owner:  owner,
		Target: target,
	}
}

func (c Claim) String() string {
	return fmt.Sprintf("Claim{Owner: %s, Source: %s, Target: %s}", c.Owner, c.Source, c.Target)
}
