// Package watch monitors the .studio/signals directory for control
// files. Dropping an "abort" or "pause" file there signals a running
// workflow from outside the process.
package watch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Signals watches the control directory of one project.
type Signals struct {
	signalsDir string

	mu    sync.RWMutex
	abort bool
	pause bool

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewSignals creates a watcher over <projectRoot>/.studio/signals,
// creating the directory as needed. When the filesystem watcher cannot
// be started, the Signals still works via Refresh polling.
func NewSignals(projectRoot string) (*Signals, error) {
	signalsDir := filepath.Join(projectRoot, ".studio", "signals")
	if err := os.MkdirAll(signalsDir, 0755); err != nil {
		return nil, err
	}

	s := &Signals{
		signalsDir: signalsDir,
		done:       make(chan struct{}),
	}
	s.Refresh()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return s, nil
	}
	if err := watcher.Add(signalsDir); err != nil {
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

func (s *Signals) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			s.mu.Lock()
			switch filepath.Base(event.Name) {
			case "abort":
				s.abort = true
			case "pause":
				s.pause = true
			}
			s.mu.Unlock()
		case <-s.watcher.Errors:
			// keep watching
		}
	}
}

// Refresh re-reads the signal files directly. Used as a polling
// fallback and at startup, since files may predate the watcher.
func (s *Signals) Refresh() {
	abort := fileExists(filepath.Join(s.signalsDir, "abort"))
	pause := fileExists(filepath.Join(s.signalsDir, "pause"))
	s.mu.Lock()
	s.abort = s.abort || abort
	s.pause = s.pause || pause
	s.mu.Unlock()
}

// AbortRequested reports whether an abort control file was seen.
func (s *Signals) AbortRequested() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.abort
}

// PauseRequested reports whether a pause control file was seen.
func (s *Signals) PauseRequested() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pause
}

// Clear removes all control files and resets the flags.
func (s *Signals) Clear() {
	os.Remove(filepath.Join(s.signalsDir, "abort"))
	os.Remove(filepath.Join(s.signalsDir, "pause"))
	s.mu.Lock()
	s.abort = false
	s.pause = false
	s.mu.Unlock()
}

// Done is closed when the watcher is closed. Pollers built around
// Refresh select on it to stop with the Signals.
func (s *Signals) Done() <-chan struct{} {
	return s.done
}

// Close stops the watcher.
func (s *Signals) Close() {
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
