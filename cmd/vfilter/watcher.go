package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/config"
)

// scriptWatcher reports the contents of a filter script whenever the file
// is written or replaced.
type scriptWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan string
	log     *logrus.Entry
}

// newScriptWatcher watches the directory holding path, so editors that
// save by renaming are seen too.
func newScriptWatcher(path string, log *logrus.Entry) (*scriptWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	return &scriptWatcher{
		path:    abs,
		watcher: w,
		updates: make(chan string, 1),
		log: log.WithFields(logrus.Fields{
			"component": "scriptWatcher",
			"script":    abs,
		}),
	}, nil
}

// Updates delivers the latest script text. At most one update is queued;
// a newer one replaces it.
func (s *scriptWatcher) Updates() <-chan string {
	return s.updates
}

// Run forwards script changes until ctx is cancelled or the watcher is
// closed.
func (s *scriptWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.reload()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.WithFields(logrus.Fields{
				"function": "scriptWatcher.Run",
				"error":    err.Error(),
			}).Warn("Watch error")
		}
	}
}

func (s *scriptWatcher) reload() {
	text, err := config.ReadScript(s.path)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "scriptWatcher.reload",
			"error":    err.Error(),
		}).Warn("Failed to read changed script")
		return
	}

	// replace a queued update nobody consumed yet
	select {
	case <-s.updates:
	default:
	}
	s.updates <- text

	s.log.WithFields(logrus.Fields{
		"function": "scriptWatcher.reload",
	}).Debug("Script change queued")
}

// Close stops watching.
func (s *scriptWatcher) Close() error {
	return s.watcher.Close()
}
