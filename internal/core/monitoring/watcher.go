// Package monitoring turns file system notifications under the log root into
// refresh hints. Polling stays the source of truth; a missed event only
// delays a refresh until the next tick.
package monitoring

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sumonitor/go-sumonitor/internal/core/model"
	"github.com/sumonitor/go-sumonitor/internal/util"
)

type FileWatcher struct {
	watcher *fsnotify.Watcher
	root    string
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewFileWatcher watches root and every directory below it. Directories
// created later are added as they appear.
func NewFileWatcher(root string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		root:    root,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	if err := fw.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}

	fw.wg.Add(1)
	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addTree(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if err := fw.watcher.Add(p); err != nil {
				util.LogDebug("Cannot watch directory", util.F("path", p), util.F("error", err))
			}
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer fw.wg.Done()
	defer close(fw.events)

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fw.addTree(event.Name)
					// files may have been written before the watch was added
					fw.emit(model.FileEvent{Path: event.Name, Operation: event.Op.String()})
					continue
				}
			}

			if isLogFile(event.Name) && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				fw.emit(model.FileEvent{Path: event.Name, Operation: event.Op.String()})
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// emit drops the event when the consumer is behind; one pending hint is
// as good as many.
func (fw *FileWatcher) emit(event model.FileEvent) {
	select {
	case fw.events <- event:
	default:
	}
}

func isLogFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".jsonl")
}

// Events is closed after Close
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}
