package manifest

import (
	"path"
	"strings"

	"github.com/olimci/hyoushi/pkg/utils/set"
)

// isRel checks if a slash-separated path climbs out of its root
func isRel(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// manifestDirs creates a set of directories from the manifest's targets
func manifestDirs(m map[string]ArtefactBuilder) *set.Set[string] {
	out := set.New[string]()
	for target := range m {
		target = path.Clean(target)
		if path.IsAbs(target) || isRel(target) {
			continue
		}

		dir := path.Dir(target)
		for dir != "." && dir != "/" {
			out.Add(dir)
			dir = path.Dir(dir)
		}
	}

	out.Add(".")

	return out
}

// makeArtefacts converts a list of artefacts into a map, and a collection of conflicts.
func makeArtefacts(as []Artefact) (artefacts map[string]ArtefactBuilder, conflicts map[string][]Claim) {
	artefacts = make(map[string]ArtefactBuilder)
	conflicts = make(map[string][]Claim)

	for _, a := range as {
		conflicts[a.Claim.Target] = append(conflicts[a.Claim.Target], a.Claim)
		artefacts[a.Claim.Target] = a.Builder
	}
	for d, cs := range conflicts {
		if len(cs) <= 1 {
			delete(conflicts, d)
		}
	}

	return artefacts, conflicts
}
