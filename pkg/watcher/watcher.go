// Package watcher reports debounced changes to a site's sources.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/utils/set"
)

// DefaultIgnore matches editor and OS droppings, checked against base names.
var DefaultIgnore = []string{".*", "*~", "*.swp", "*.swx", "*.tmp", "4913"}

// Event is one debounced batch of changes.
type Event struct {
	Reason string
	Paths  []string
}

func New(configPath string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:    w,
		debounce:   debounce,
		configPath: filepath.Clean(configPath),
		watched:    set.New[string](),
		Events:     make(chan Event, 64),
		Errors:     make(chan error, 64),
	}, nil
}

type Watcher struct {
	Events chan Event
	Errors chan error

	watcher  *fsnotify.Watcher
	debounce time.Duration

	configPath string

	mu      sync.Mutex
	watched *set.Set[string]
	content string
	ignore  []string
}

// Start watches the config file and the paths it names, then reports
// changes until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatch(w.configPath); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	w.reload()

	go w.loop(ctx)

	return nil
}

// Paths returns the watched files and directories.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := w.watched.Values()
	slices.Sort(paths)
	return paths
}

func (w *Watcher) loop(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = set.New[string]()
		config  bool
	)

	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(w.debounce)
	}

	flush := func() {
		if pending.Len() == 0 {
			return
		}
		paths := pending.Values()
		slices.Sort(paths)
		pending.Clear()

		reason := "file change"
		if config {
			reason = "config change"
		}
		config = false

		lazySend(w.Events, Event{Reason: reason, Paths: paths})
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod || w.Ignored(ev.Name) {
				continue
			}
			if w.isConfigEvent(ev) {
				config = true
				w.reload()
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.forget(ev.Name)
			}
			if ev.Has(fsnotify.Create) {
				w.addDirectoryIfNeeded(ev.Name)
			}
			pending.Add(ev.Name)
			resetTimer()

		case <-timerCh:
			timer = nil
			timerCh = nil
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			lazySend(w.Errors, fmt.Errorf("watch error: %w", err))
		}
	}
}

func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

// Ignored reports whether changes to name should not trigger a rebuild.
func (w *Watcher) Ignored(name string) bool {
	base := filepath.Base(name)
	for _, pattern := range DefaultIgnore {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}

	w.mu.Lock()
	content, ignore := w.content, w.ignore
	w.mu.Unlock()

	if content == "" || len(ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(content, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) addPath(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.addWatch(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.Ignored(path) {
			return filepath.SkipDir
		}

		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(path string) error {
	normalized := filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched.Has(normalized) {
		return nil
	}
	if err := w.watcher.Add(normalized); err != nil {
		return err
	}
	w.watched.Add(normalized)
	return nil
}

func (w *Watcher) removeAllWatches() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, path := range w.watched.Values() {
		if err := w.watcher.Remove(path); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			lazySend(w.Errors, fmt.Errorf("failed to remove watch: %w", err))
		}
	}
	w.watched.Clear()
}

// forget drops a path fsnotify stopped watching when it went away, so it is
// watched again if it comes back.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.watched.Delete(filepath.Clean(path))
}

// reload re-reads the config and rebuilds the watch list from it. A broken
// config keeps the config file itself watched so a fix is noticed.
func (w *Watcher) reload() {
	cfg, err := config.Load(w.configPath)
	if err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to reload config: %w", err))
		return
	}

	w.mu.Lock()
	w.content = cfg.Build.Content
	w.ignore = slices.Clone(cfg.Build.Ignore)
	w.mu.Unlock()

	w.removeAllWatches()
	if err := w.addWatch(w.configPath); err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to watch config: %w", err))
	}
	for _, path := range cfg.WatchedPaths() {
		if err := w.addPath(path); err != nil && !os.IsNotExist(err) {
			lazySend(w.Errors, fmt.Errorf("failed to watch %s: %w", path, err))
		}
	}
}

func (w *Watcher) isConfigEvent(ev fsnotify.Event) bool {
	return filepath.Clean(ev.Name) == w.configPath
}

func (w *Watcher) addDirectoryIfNeeded(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addPath(path); err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to watch new directory: %w", err))
	}
}

func lazySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}
