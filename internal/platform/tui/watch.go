package tui

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before a change is reported.
const watchDebounce = 100 * time.Millisecond

// LevelWatcher reports changes to a single level file. It watches the
// parent directory so editors that replace the file on save are seen.
type LevelWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewLevelWatcher starts watching path.
func NewLevelWatcher(path string) (*LevelWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	lw := &LevelWatcher{
		watcher: w,
		path:    abs,
		Events:  make(chan string, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go lw.run()
	return lw, nil
}

// Path returns the absolute path being watched.
func (w *LevelWatcher) Path() string { return w.path }

// Close stops the watcher and closes both channels.
func (w *LevelWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *LevelWatcher) run() {
	defer close(w.done)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case <-timer.C:
			select {
			case w.Events <- w.path:
			default: // A change is already pending
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

// LevelChangedMsg carries a reloaded level file, or the error reading it.
type LevelChangedMsg struct {
	Path string
	Data []byte
	Err  error
}

// waitForLevelChange blocks until the watcher reports a change and reads
// the new contents. It returns nil once the watcher is closed.
func waitForLevelChange(w *LevelWatcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			data, err := os.ReadFile(path) //#nosec G304 -- the level file the user chose to play
			return LevelChangedMsg{Path: path, Data: data, Err: err}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return LevelChangedMsg{Path: w.path, Err: err}
		}
	}
}
