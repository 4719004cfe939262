package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sync"

	"github.com/olimci/hyoushi/pkg/events"
	"github.com/olimci/hyoushi/pkg/iofs"
	"github.com/olimci/hyoushi/pkg/utils/set"
	"golang.org/x/sync/errgroup"
)

var (
	ErrConflicts  = errors.New("conflicts")
	ErrUnsafePath = errors.New("unsafe artefact path")
)

// K is a typed registry key
type K[T any] string

// GetAs retrieves a value from the registry as the key's type, or the zero value.
func GetAs[T any](m *Manifest, k K[T]) T {
	if v, ok := m.Get(string(k)); ok {
		if vt, ok := v.(T); ok {
			return vt
		}
	}
	return *new(T)
}

func SetAs[T any](m *Manifest, k K[T], v T) {
	m.Set(string(k), v)
}

func New() *Manifest {
	return &Manifest{
		registry: make(map[string]any),
	}
}

// Manifest collects the artefacts of a build and a registry that steps use
// to hand data to each other.
type Manifest struct {
	artefacts   []Artefact
	artefactsMu sync.Mutex

	registry   map[string]any
	registryMu sync.RWMutex
}

func (m *Manifest) Set(k string, v any) {
	m.registryMu.Lock()
	defer m.registryMu.Unlock()

	m.registry[k] = v
}

func (m *Manifest) Get(k string) (any, bool) {
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()

	v, ok := m.registry[k]
	return v, ok
}

func (m *Manifest) Emit(a Artefact) {
	m.artefactsMu.Lock()
	defer m.artefactsMu.Unlock()

	m.artefacts = append(m.artefacts, a)
}

// Targets returns the sorted target paths emitted so far.
func (m *Manifest) Targets() []string {
	m.artefactsMu.Lock()
	defer m.artefactsMu.Unlock()

	out := make([]string, 0, len(m.artefacts))
	for _, a := range m.artefacts {
		out = append(out, a.Claim.Target)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Build writes every artefact into out, removing files and directories that
// are no longer produced.
func (m *Manifest) Build(ctx context.Context, out iofs.Writable, handler events.Handler, opts ...Option) error {
	o := defaultOptions().apply(opts...)
	if handler == nil {
		handler = events.NoopHandler{}
	}

	m.artefactsMu.Lock()
	defer m.artefactsMu.Unlock()

	artefacts, conflicts := makeArtefacts(m.artefacts)
	for target, claims := range conflicts {
		owners := make([]string, 0, len(claims))
		for _, c := range claims {
			owners = append(owners, c.Owner)
		}
		handler.Handle(events.Event{
			Level:   events.Error,
			Source:  target,
			Message: fmt.Sprintf("conflicting artefacts from %v", owners),
			Error:   ErrConflicts,
		})
	}
	if !o.ignoreConflicts && len(conflicts) > 0 {
		return fmt.Errorf("%w: %d target(s)", ErrConflicts, len(conflicts))
	}

	cleaned := make(map[string]ArtefactBuilder, len(artefacts))
	for target, a := range artefacts {
		rel := path.Clean(target)
		if path.IsAbs(rel) || isRel(rel) {
			return fmt.Errorf("%w: %q escapes dist", ErrUnsafePath, target)
		}
		cleaned[rel] = a
	}
	artefacts = cleaned

	if err := out.EnsureRoot(); err != nil {
		return err
	}

	gotFiles, gotDirs, err := out.Walk()
	if err != nil {
		return fmt.Errorf("walk dist: %w", err)
	}
	haveDirs := set.FromSlice(gotDirs)
	wantDirs := manifestDirs(artefacts)

	for _, rel := range gotFiles {
		if _, wants := artefacts[rel]; !wants {
			if err := out.Remove(rel); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove %s: %w", out.DisplayPath(rel), err)
			}
		}
	}

	for _, rel := range gotDirs {
		if !wantDirs.Has(rel) {
			if err := out.RemoveAll(rel); err != nil {
				return fmt.Errorf("failed to remove %s: %w", out.DisplayPath(rel), err)
			}
		}
	}

	for _, rel := range wantDirs.Values() {
		if !haveDirs.Has(rel) {
			if err := out.MkdirAll(rel, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", out.DisplayPath(rel), err)
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if o.maxWorkers > 0 {
		g.SetLimit(o.maxWorkers)
	}

	for target, builder := range artefacts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := out.Write(target, builder); err != nil {
				return fmt.Errorf("failed to write %s: %w", out.DisplayPath(target), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to build: %w", err)
	}

	return nil
}
