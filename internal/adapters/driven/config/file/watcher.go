package file

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of filesystem events. Editors commonly
// emit several events for one logical save.
const debounceWindow = 100 * time.Millisecond

// Watch starts watching the backing file for external changes. After the
// file changes and has been reloaded, onChange is invoked. The returned
// stop function releases the watch and is safe to call more than once.
func (s *ConfigStore) Watch(onChange func()) (func(), error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	// Watch the directory rather than the file itself: editors and our
	// own atomic saves replace the file, which would invalidate a watch
	// on the old inode.
	if err := fw.Add(filepath.Dir(s.filePath)); err != nil {
		fw.Close() //nolint:errcheck
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	done := make(chan struct{})
	go s.watchLoop(fw, done, onChange)

	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			close(done)
			fw.Close() //nolint:errcheck
		})
	}
	return stop, nil
}

// watchLoop reloads the store on relevant events until the watch stops.
func (s *ConfigStore) watchLoop(fw *fsnotify.Watcher, done <-chan struct{}, onChange func()) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if ev.Name != s.filePath {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.Load(); err != nil {
				// Keep the previous config on a bad partial edit.
				continue
			}
			onChange()

		case _, ok := <-fw.Errors:
			if !ok {
				return
			}
		}
	}
}
