package iofs

import (
	"io"
	"io/fs"
)

// WriterFunc writes a destination file to the provided writer.
type WriterFunc func(w io.Writer) error

// Writable abstracts the output directory of a build.
// Implementations must be safe for concurrent Write calls.
type Writable interface {
	EnsureRoot() error
	Walk() (files, dirs []string, err error)
	MkdirAll(rel string, perm fs.FileMode) error
	Remove(rel string) error
	RemoveAll(rel string) error
	Write(rel string, gen WriterFunc) error
	DisplayPath(rel string) string
}
