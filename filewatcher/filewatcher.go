// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package filewatcher re-runs a callback when watched source files change.
package filewatcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/organon-lang/organon/logging"
)

// OnChange is invoked with the path that triggered the event. Removals and
// renames report the old name.
type OnChange func(context.Context, string)

type FileWatcher struct {
	paths    []string
	onChange OnChange
	logger   logging.Logger
}

func NewFileWatcher(paths []string, onChange OnChange, logger logging.Logger) *FileWatcher {
	return &FileWatcher{
		paths:    paths,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins watching. The watcher and its goroutine shut down when ctx is
// canceled.
func (w *FileWatcher) Start(ctx context.Context) error {
	watcher, err := w.getWatcher()
	if err != nil {
		return err
	}
	go w.readWatcher(ctx, watcher)
	return nil
}

func (w *FileWatcher) getWatcher() (*fsnotify.Watcher, error) {
	watchPaths, err := getWatchPaths(w.paths)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, path := range watchPaths {
		w.logger.WithFields(map[string]any{"path": path}).Debug("Watching path.")
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return watcher, nil
}

func (w *FileWatcher) readWatcher(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			mask := fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
			if (evt.Op&mask) != 0 && w.matches(evt.Name) {
				w.logger.WithFields(map[string]any{"event": evt.String()}).Debug("Registered file event.")
				w.onChange(ctx, evt.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watch error: %v", err)
		}
	}
}

// matches reports whether name is one of the watched paths or sits below a
// watched directory. Directory watches see events for every sibling, so events
// for unrelated files in a shared parent directory are dropped here.
func (w *FileWatcher) matches(name string) bool {
	name = filepath.Clean(name)
	for _, p := range w.paths {
		p = filepath.Clean(p)
		if name == p || strings.HasPrefix(name, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// getWatchPaths resolves the directories to register with fsnotify. Files are
// watched through their parent directory since editors commonly replace files
// by rename, which drops a direct file watch.
func getWatchPaths(rootPaths []string) ([]string, error) {
	paths := []string{}

	for _, path := range rootPaths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, filepath.Dir(path))
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}
