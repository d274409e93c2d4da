package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pipe01/xmlhl/internal/document"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrNotOpen = errors.New("document is not open")

// Workspace holds tokenized documents, either loaded from files under a root
// directory or opened by an editor under an arbitrary key.
type Workspace struct {
	rootPath string

	mu        sync.Mutex
	documents map[string]*document.Document
}

func New(rootPath string) *Workspace {
	return &Workspace{
		rootPath:  rootPath,
		documents: make(map[string]*document.Document),
	}
}

func (w *Workspace) fullPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(w.rootPath, relPath)
}

// Load reads and tokenizes a file, returning the cached document if it has
// already been loaded.
func (w *Workspace) Load(relPath string) (*document.Document, error) {
	fullPath := w.fullPath(relPath)

	w.mu.Lock()
	defer w.mu.Unlock()

	if d, ok := w.documents[fullPath]; ok {
		return d, nil
	}

	bytes, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	d := document.New(string(bytes))
	w.documents[fullPath] = d

	return d, nil
}

// Reload drops a cached file and loads it again.
func (w *Workspace) Reload(relPath string) (*document.Document, error) {
	w.mu.Lock()
	delete(w.documents, w.fullPath(relPath))
	w.mu.Unlock()

	return w.Load(relPath)
}

// Open registers a document with the given contents, replacing any previous
// one with the same key.
func (w *Workspace) Open(key, text string) *document.Document {
	d := document.New(text)

	w.mu.Lock()
	w.documents[key] = d
	w.mu.Unlock()

	return d
}

// With runs fn on an open document while holding the workspace lock.
func (w *Workspace) With(key string, fn func(d *document.Document) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, ok := w.documents[key]
	if !ok {
		return fmt.Errorf("%q: %w", key, ErrNotOpen)
	}

	return fn(d)
}

func (w *Workspace) Close(key string) {
	w.mu.Lock()
	delete(w.documents, key)
	w.mu.Unlock()
}

func (w *Workspace) Keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	keys := maps.Keys(w.documents)
	slices.Sort(keys)

	return keys
}
