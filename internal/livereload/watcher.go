package livereload

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/blogdeck/internal/logging"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before calling back.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a directory tree and calls onChange once per burst of
// changes. Hidden files and directories, and editor backup files, are
// ignored.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	delay    time.Duration
	onChange func()
	log      zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching root and every non-hidden directory below it.
// A non-positive delay uses DefaultDebounce.
func NewWatcher(root string, delay time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		delay:    delay,
		onChange: onChange,
		log:      logging.Component("watcher"),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && ignored(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Start handles events until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if ignored(filepath.Base(event.Name)) {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}

	// New directories are watched too.
	if event.Has(fsnotify.Create) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			_ = w.watcher.Add(event.Name)
		}
	}

	w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change")

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		w.timer = nil
		w.mu.Unlock()
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Stop ends watching and cancels a pending callback.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp")
}
