// Package watch reloads a Python source file when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/pyscope/internal/logger"
)

// MaxSourceSize bounds how much of a source file is loaded
const MaxSourceSize = 1 << 20

// Event is a reloaded source file or a watch failure
type Event struct {
	Path    string
	Content string
	Err     error
}

// Watcher delivers the content of one file each time it is written
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	log      *logger.Logger
}

// New watches path. The parent directory is watched so editors that save
// by rename are still observed.
func New(path string, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	if err := ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		fsw:      fsw,
		log:      log.WithComponent("watch"),
	}, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run forwards reload events to out until ctx is done or the watcher is
// closed. Bursts of writes within the debounce window produce one event.
func (w *Watcher) Run(ctx context.Context, out chan<- Event) error {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	send := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.log.DebugWithFields("source changed", []logger.Field{logger.F("op", event.Op.String())})

			if w.debounce <= 0 {
				if !send(w.reload()) {
					return ctx.Err()
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if !send(w.reload()) {
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error: %v", err)
			if !send(Event{Path: w.path, Err: err}) {
				return ctx.Err()
			}
		}
	}
}

func (w *Watcher) reload() Event {
	content, err := ReadSource(w.path)
	return Event{Path: w.path, Content: content, Err: err}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// ReadSource loads a source file, rejecting oversized input
func ReadSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxSourceSize {
		return "", fmt.Errorf("%s is too large (%d bytes, max %d)", path, info.Size(), MaxSourceSize)
	}

	// #nosec G304 - path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// ValidatePath rejects paths that should never be loaded as source
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") || strings.HasPrefix(absPath, "/dev/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}
