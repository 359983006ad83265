// Package app runs the interactive terminal preview: it owns a document,
// feeds terminal input into edit operations and redraws after each event.
package app

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/inkwell/internal/config"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

// Options configures the application.
type Options struct {
	// File is loaded on startup when set.
	File string

	// Config holds the settings; nil means defaults.
	Config *config.Config

	// ReadOnly rejects edits.
	ReadOnly bool
}

// Application couples a document with a terminal preview.
type Application struct {
	mu sync.Mutex

	doc     *engine.Document
	cfg     *config.Config
	term    *backend.Terminal
	preview *backend.Preview

	// pasting is set between bracketed paste markers.
	pasting bool
	paste   []rune

	running atomic.Bool
	ready   chan struct{}
	done    chan struct{}
	once    sync.Once

	opts Options
}

// New creates an Application and loads opts.File.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.CheckFont(); err != nil {
		logger.Warnf("config: %v", err)
	}
	app := &Application{
		cfg:   cfg,
		ready: make(chan struct{}),
		done:  make(chan struct{}),
		opts:  opts,
	}

	docOpts := DocumentOptions(cfg)
	if opts.ReadOnly {
		docOpts = append(docOpts, engine.WithReadOnly())
	}
	app.doc = engine.New(docOpts...)

	if opts.File != "" {
		if err := app.load(opts.File); err != nil {
			app.doc.Close()
			return nil, err
		}
	}
	return app, nil
}

// DocumentOptions converts settings into document options.
func DocumentOptions(cfg *config.Config) []engine.Option {
	opts := []engine.Option{
		engine.WithSize(cfg.Layout.Width, cfg.Layout.Height),
		engine.WithScrollbarWidth(cfg.Layout.ScrollbarWidth),
		engine.WithProps(cfg.DefaultProps()),
		engine.WithMaxUndoEntries(cfg.History.Limit),
	}
	if cfg.Layout.SingleLine {
		opts = append(opts, engine.WithSingleLine())
	}
	return opts
}

func (app *Application) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return NewOperationError("load", path, err)
	}
	defer f.Close()
	if err := app.doc.Load(f); err != nil {
		return NewOperationError("load", path, err)
	}
	logger.Infof("loaded %s: %d characters, %d paragraphs", path, app.doc.Len(), app.doc.Paragraphs())
	return nil
}

// Document returns the edited document.
func (app *Application) Document() *engine.Document {
	return app.doc
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(term *backend.Terminal) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.term = term
	app.preview = backend.NewPreview(term)
	return nil
}

// Run starts the event loop and blocks until quit or Shutdown. An
// Application runs once.
func (app *Application) Run() error {
	if app.term == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.Shutdown()

	if err := app.term.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.term.Shutdown()

	w, h := app.term.Size()
	app.handleResize(backend.Event{Type: backend.EventResize, Width: w, Height: h})

	events := make(chan backend.Event)
	go func() {
		for {
			ev := app.term.PollEvent()
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	app.redraw()
	close(app.ready)
	for {
		select {
		case <-app.done:
			return nil
		case ev := <-events:
			err := app.handleBackendEvent(ev)
			if errors.Is(err, ErrQuit) {
				return ErrQuit
			}
			if err != nil {
				logger.Warnf("%v", err)
			}
			app.redraw()
		}
	}
}

func (app *Application) redraw() {
	if err := app.preview.DrawDocument(app.doc); err != nil {
		logger.Warnf("draw: %v", err)
	}
}

// Shutdown stops the event loop. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.once.Do(func() { close(app.done) })
}

// Close releases the document. Call it after Run returns.
func (app *Application) Close() error {
	return app.doc.Close()
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Status describes the document for the log on exit.
func (app *Application) Status() string {
	sel := app.doc.Selection()
	return fmt.Sprintf("%d characters, %d paragraphs, selection %v, %d undo", app.doc.Len(), app.doc.Paragraphs(), sel, app.doc.UndoCount())
}
