// Package watcher converts images as they land in a directory.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/ico256/internal/domain/source"
	"github.com/bnema/ico256/internal/domain/validation"
	"github.com/bnema/ico256/internal/logging"
)

// DefaultDebounce is how long a path must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled file. Errors are logged and never stop the watcher.
type Handler func(ctx context.Context, path string) error

type pending struct {
	path string
	gen  uint64
}

type debounced struct {
	timer *time.Timer
	gen   uint64
}

// Watcher debounces fsnotify events on a single directory and hands each
// settled image file to a Handler, one at a time.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	fsw      *fsnotify.Watcher

	timers map[string]*debounced
	gen    uint64
	ready  chan pending
	done   chan struct{}
}

// New starts watching dir. Events are buffered until Run is called.
// debounce <= 0 uses DefaultDebounce.
func New(dir string, debounce time.Duration, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watcher handler is nil")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		fsw:      fsw,
		timers:   make(map[string]*debounced),
		ready:    make(chan pending),
		done:     make(chan struct{}),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run processes events until ctx is cancelled. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "watcher")
	log := logging.FromContext(ctx)
	defer w.stop()

	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching for images")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !Relevant(event) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("file event")
			w.schedule(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case p := <-w.ready:
			current, ok := w.timers[p.path]
			if !ok || current.gen != p.gen {
				continue
			}
			delete(w.timers, p.path)
			w.handle(ctx, p.path)
		}
	}
}

// Close releases the underlying watcher when Run is never called.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	if prev, ok := w.timers[path]; ok {
		prev.timer.Stop()
	}
	w.gen++
	p := pending{path: path, gen: w.gen}
	timer := time.AfterFunc(w.debounce, func() {
		select {
		case w.ready <- p:
		case <-w.done:
		case <-ctx.Done():
		}
	})
	w.timers[path] = &debounced{timer: timer, gen: p.gen}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	log := logging.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("file vanished before conversion")
		return
	}
	if info.IsDir() {
		return
	}

	start := time.Now()
	if err := w.handler(ctx, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("conversion failed")
		return
	}
	log.Info().Str("path", path).Dur("took", time.Since(start)).Msg("converted")
}

func (w *Watcher) stop() {
	close(w.done)
	for path, d := range w.timers {
		d.timer.Stop()
		delete(w.timers, path)
	}
	_ = w.fsw.Close()
}

// Relevant reports whether event creates or writes a visible file with an
// accepted image extension.
func Relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
		return false
	}
	return validation.IsAcceptedMediaType(source.MediaTypeFromName(name))
}
