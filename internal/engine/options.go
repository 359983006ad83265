package engine

import (
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// Default configuration values.
const (
	DefaultWidth          = 640
	DefaultHeight         = 480
	DefaultMaxUndoEntries = history.DefaultMaxEntries
)

// Option configures a Document during creation.
type Option func(*Document)

// WithContent sets the initial content of the document.
func WithContent(content string) Option {
	return func(d *Document) {
		d.initContent = content
	}
}

// WithSize sets the layout area in pixels. A height of zero disables the
// scrollbar.
func WithSize(width, height int) Option {
	return func(d *Document) {
		d.width = width
		d.height = height
	}
}

// WithProps sets the properties of new text.
func WithProps(p style.Props) Option {
	return func(d *Document) {
		d.props = p.Merge(style.DefaultProps())
	}
}

// WithShaper replaces the font cache used for layout. The document does
// not close a shaper it was given.
func WithShaper(s layout.Shaper) Option {
	return func(d *Document) {
		d.shaper = s
	}
}

// WithSingleLine lays the document out on one unbounded line. Inserted
// line breaks become spaces.
func WithSingleLine() Option {
	return func(d *Document) {
		d.singleLine = true
	}
}

// WithScrollbarWidth sets the width reserved for a vertical scrollbar.
func WithScrollbarWidth(w int) Option {
	return func(d *Document) {
		if w >= 0 {
			d.scrollbarWidth = w
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(d *Document) {
		if max > 0 {
			d.maxUndoEntries = max
		}
	}
}

// WithReadOnly creates a read-only document.
// Edits return ErrReadOnly.
func WithReadOnly() Option {
	return func(d *Document) {
		d.readOnly = true
	}
}
