package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/artpar/recordmap/core/schema"
)

// Holder provides thread-safe access to the declared schemas of a models
// directory, with hot reload support.
type Holder struct {
	mu       sync.RWMutex
	decls    map[string]schema.Declaration
	dir      string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(map[string]schema.Declaration)
	stopCh   chan struct{}
}

// NewHolder creates a holder and loads the initial declarations.
func NewHolder(dir string, logger zerolog.Logger) (*Holder, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	h := &Holder{
		dir:    absDir,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	if err := h.load(); err != nil {
		return nil, err
	}

	return h, nil
}

// Get returns the current declarations keyed by table name (thread-safe).
func (h *Holder) Get() map[string]schema.Declaration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.decls
}

// Declaration returns the declaration for one table, if declared.
func (h *Holder) Declaration(table string) (schema.Declaration, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	decl, ok := h.decls[table]
	return decl, ok
}

// Reload reloads the declarations from disk.
// Returns error if loading fails (keeps old declarations).
func (h *Holder) Reload() error {
	h.logger.Info().Str("dir", h.dir).Msg("reloading schema declarations")

	if err := h.load(); err != nil {
		h.logger.Error().Err(err).Msg("declaration reload failed, keeping old declarations")
		return fmt.Errorf("reload declarations: %w", err)
	}

	h.mu.RLock()
	decls := h.decls
	h.mu.RUnlock()
	for _, fn := range h.onChange {
		fn(decls)
	}

	h.logger.Info().Int("tables", len(decls)).Msg("schema declarations reloaded")
	return nil
}

// OnChange registers a callback to be called when declarations change.
func (h *Holder) OnChange(fn func(map[string]schema.Declaration)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// Watch starts watching the models directory for changes.
// Changes trigger automatic reload.
func (h *Holder) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("dir", h.dir).Msg("watching schema declarations for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading declarations")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Stop stops watching for file changes and signals.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *Holder) load() error {
	parsed, err := schema.ParseDir(h.dir)
	if err != nil {
		return err
	}

	decls := make(map[string]schema.Declaration, len(parsed))
	for _, decl := range parsed {
		if _, dup := decls[decl.Table]; dup {
			return fmt.Errorf("duplicate declaration for table %q", decl.Table)
		}
		decls[decl.Table] = decl
	}

	h.mu.Lock()
	h.decls = decls
	h.mu.Unlock()
	return nil
}

func (h *Holder) watchLoop() {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			name := event.Name
			if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
				continue
			}

			// React to write, create and remove (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", name).
					Msg("declaration file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
