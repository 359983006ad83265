package history

import (
	"time"

	"github.com/dshills/inkwell/internal/engine/style"
)

// Record is an immutable snapshot of the document text, selection and
// styled ranges.
type Record struct {
	text      []rune
	anchor    int
	active    int
	ranges    []style.Range
	label     string
	timestamp time.Time
}

// NewRecord snapshots the given state. Inputs are copied.
func NewRecord(label string, text []rune, anchor, active int, ranges []style.Range) *Record {
	return &Record{
		text:      append([]rune(nil), text...),
		anchor:    anchor,
		active:    active,
		ranges:    append([]style.Range(nil), ranges...),
		label:     label,
		timestamp: time.Now(),
	}
}

// Text returns the snapshot text.
func (r *Record) Text() string {
	return string(r.text)
}

// Runes returns a copy of the snapshot text.
func (r *Record) Runes() []rune {
	return append([]rune(nil), r.text...)
}

// Anchor returns the selection anchor offset.
func (r *Record) Anchor() int {
	return r.anchor
}

// Active returns the active insertion point offset.
func (r *Record) Active() int {
	return r.active
}

// Ranges returns a copy of the styled ranges.
func (r *Record) Ranges() []style.Range {
	return append([]style.Range(nil), r.ranges...)
}

// Label describes the edit that followed this snapshot.
func (r *Record) Label() string {
	return r.label
}

// Timestamp returns when the snapshot was taken.
func (r *Record) Timestamp() time.Time {
	return r.timestamp
}
