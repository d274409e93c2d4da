package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pipe01/xmlhl/internal/workspace"
)

type Watcher struct {
	watchingDirs map[string]struct{}

	// absolute path to the name it was given with
	watchingFiles map[string]string

	ws      *workspace.Workspace
	watcher *fsnotify.Watcher
}

func NewWatcher(ws *workspace.Workspace) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watchingDirs:  make(map[string]struct{}),
		watchingFiles: make(map[string]string),
		ws:            ws,
		watcher:       watcher,
	}
	go w.eventLoop()

	return w, nil
}

func (w *Watcher) WatchFile(path string) error {
	fullPath, _ := filepath.Abs(path)
	w.watchingFiles[fullPath] = path

	// Editors often replace files instead of writing them, so watch the
	// directory rather than the file.
	dir := filepath.Dir(fullPath)
	if _, ok := w.watchingDirs[dir]; ok {
		return nil
	}

	err := w.watcher.Add(dir)
	if err != nil {
		return err
	}

	w.watchingDirs[dir] = struct{}{}

	return nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			fname, _ := filepath.Abs(event.Name)

			name, ok := w.watchingFiles[fname]
			if !ok {
				continue
			}

			w.fileModified(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) fileModified(name string) {
	log.Infof("file %q modified, tokenizing again...", name)

	if _, err := w.ws.Reload(name); err != nil {
		log.Errorf("failed to reload file %q: %s", name, err)
		return
	}

	if err := renderAll(w.ws); err != nil {
		log.Errorf("failed to render files: %s", err)
	}
}
