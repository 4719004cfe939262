package manifest

import "github.com/olimci/hyoushi/pkg/iofs"

// ArtefactBuilder writes the contents of an artefact.
type ArtefactBuilder = iofs.WriterFunc

// PostProcessor wraps an artefact builder, e.g. to minify or audit its output.
type PostProcessor func(claim Claim, next ArtefactBuilder) ArtefactBuilder

// Artefact is a single output file of a build.
type Artefact struct {
	Claim   Claim
	Builder ArtefactBuilder
}

// Post applies pp to the artefact. A nil PostProcessor is a no-op.
func (a Artefact) Post(pp PostProcessor) Artefact {
	if pp == nil {
		return a
	}

	return Artefact{
		Claim:   a.Claim,
		Builder: pp(a.Claim, a.Builder),
	}
}
