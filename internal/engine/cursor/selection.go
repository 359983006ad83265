package cursor

import (
	"fmt"

	"github.com/dshills/inkwell/internal/engine/buffer"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Selection is an immutable value type.
type Selection struct {
	Anchor int // Where selection started
	Active int // Insertion point
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active int) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// NewCaret creates a selection with no extent.
func NewCaret(offset int) Selection {
	return Selection{Anchor: offset, Active: offset}
}

// IsEmpty returns true if the selection has no extent (just a caret).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Len returns the number of selected characters.
func (s Selection) Len() int {
	if s.Anchor <= s.Active {
		return s.Active - s.Anchor
	}
	return s.Anchor - s.Active
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return buffer.NewRange(s.Anchor, s.Active)
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Active)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Active)
}

// IsBackward returns true if the active end precedes the anchor.
func (s Selection) IsBackward() bool {
	return s.Active < s.Anchor
}

// Extend moves the active end, keeping the anchor.
func (s Selection) Extend(offset int) Selection {
	return Selection{Anchor: s.Anchor, Active: offset}
}

// MoveTo collapses the selection to a caret at offset.
func (s Selection) MoveTo(offset int) Selection {
	return NewCaret(offset)
}

// Collapse collapses the selection to its active end.
func (s Selection) Collapse() Selection {
	return NewCaret(s.Active)
}

// Clamp constrains both ends to [0, maxOffset].
func (s Selection) Clamp(maxOffset int) Selection {
	clamp := func(o int) int { return min(max(o, 0), maxOffset) }
	return Selection{Anchor: clamp(s.Anchor), Active: clamp(s.Active)}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Active)
	}
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Active)
}
