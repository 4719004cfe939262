package manifest

import (
	"io"
	"os"
)

// StaticArtefact copies Claim.Source verbatim.
func StaticArtefact(claim Claim) Artefact {
	return Artefact{
		Claim: claim,
		Builder: func(w io.Writer) error {
			file, err := os.Open(claim.Source)
			if err != nil {
				return err
			}
			defer file.Close()

			_, err = io.Copy(w, file)
			return err
		},
	}
}

// BytesArtefact writes an in-memory buffer.
func BytesArtefact(claim Claim, b []byte) Artefact {
	return Artefact{
		Claim: claim,
		Builder: func(w io.Writer) error {
			_, err := w.Write(b)
			return err
		},
	}
}
