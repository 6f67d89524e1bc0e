package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/ontology-explorer/pkg/logging"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	// ChangeTypeModified covers writes, creates and renames onto the source
	ChangeTypeModified ChangeType = iota
	// ChangeTypeRemoved means the source no longer exists at its path
	ChangeTypeRemoved
)

func (t ChangeType) String() string {
	if t == ChangeTypeRemoved {
		return "removed"
	}
	return "modified"
}

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// batchWindow groups the burst of events a single save produces
const batchWindow = 50 * time.Millisecond

// FileWatcher watches one ontology source file. The parent directory is
// watched instead of the file so editors that save by rename keep working.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
	stop    sync.Once
}

// NewFileWatcher creates a watcher for the source at path
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		path:    abs,
		events:  make(chan ChangeEvent, 16),
	}, nil
}

// Start begins watching. Events stop and the channel closes when ctx ends.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("watching ontology source", "path", fw.path)
	go fw.processEvents(ctx)
	return nil
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.Stop()

	var pending *ChangeEvent
	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}

			kind := ChangeTypeModified
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				kind = ChangeTypeRemoved
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logging.Trace("source event", "op", event.Op.String(), "path", event.Name)

			if pending == nil {
				pending = &ChangeEvent{}
			}
			// the last operation decides: a rename away followed by a create is a modification
			pending.Type = kind
			pending.Paths = appendUnique(pending.Paths, event.Name)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			if pending == nil {
				continue
			}
			pending.Timestamp = time.Now()
			select {
			case fw.events <- *pending:
			case <-ctx.Done():
				return
			}
			pending = nil

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

func appendUnique(paths []string, p string) []string {
	for _, existing := range paths {
		if existing == p {
			return paths
		}
	}
	return append(paths, p)
}

// Path returns the absolute path being watched
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop releases the underlying watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stop.Do(func() {
		err = fw.watcher.Close()
	})
	return err
}
