// Package dirty tracks which laid-out segments an edit has invalidated.
package dirty

import "fmt"

// ChangeType represents the kind of change that dirtied the layout.
type ChangeType uint8

const (
	// ChangeInsert indicates text was inserted.
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates text was deleted.
	ChangeDelete

	// ChangeReplace indicates text was replaced.
	ChangeReplace

	// ChangeStyle indicates only styling changed (no content change).
	ChangeStyle

	// ChangeResize indicates the layout area was resized.
	ChangeResize

	// ChangeReset indicates the whole document was replaced.
	ChangeReset
)

// String returns the string representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	case ChangeStyle:
		return "style"
	case ChangeResize:
		return "resize"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

const (
	// All as First means every segment is rebuilt.
	All = -1
	// ToEnd as Last means nothing after First survives.
	ToEnd = -1
)

// Bounds is the segment window invalidated since the last rebuild.
//
// Segment indices refer to the list as it was before the edit. Segments
// after Last survive with their offsets shifted by Delta and their owning
// range index shifted by RangeDelta.
type Bounds struct {
	First      int
	Last       int
	Delta      int
	RangeDelta int
	Change     ChangeType

	dirty bool
}

// Clean returns bounds with nothing to rebuild.
func Clean() Bounds {
	return Bounds{First: All, Last: ToEnd}
}

// IsDirty reports whether a rebuild is pending.
func (b *Bounds) IsDirty() bool {
	return b.dirty
}

// IsAll reports whether the whole list must be rebuilt.
func (b *Bounds) IsAll() bool {
	return b.dirty && b.First == All
}

// Mark records an edit affecting segments [first, last]. A second mark
// before Reset widens to a full rebuild, since indices and deltas of the
// two edits live in different coordinates.
func (b *Bounds) Mark(ct ChangeType, first, last, delta, rangeDelta int) {
	if b.dirty {
		b.MarkAll(ct)
		return
	}
	if first < 0 {
		b.MarkAll(ct)
		return
	}
	if last != ToEnd && last < first {
		last = first
	}
	*b = Bounds{First: first, Last: last, Delta: delta, RangeDelta: rangeDelta, Change: ct, dirty: true}
}

// MarkAll requests a full rebuild.
func (b *Bounds) MarkAll(ct ChangeType) {
	*b = Bounds{First: All, Last: ToEnd, Change: ct, dirty: true}
}

// Reset marks the layout clean.
func (b *Bounds) Reset() {
	*b = Clean()
}

// Keeps reports whether segment i survives the rebuild unchanged.
func (b *Bounds) Keeps(i int) bool {
	if !b.dirty {
		return true
	}
	if b.First == All {
		return false
	}
	return i < b.First || (b.Last != ToEnd && i > b.Last)
}

func (b Bounds) String() string {
	if !b.dirty {
		return "clean"
	}
	if b.First == All {
		return fmt.Sprintf("%s: all", b.Change)
	}
	last := "end"
	if b.Last != ToEnd {
		last = fmt.Sprint(b.Last)
	}
	return fmt.Sprintf("%s: [%d..%s] delta %+d ranges %+d", b.Change, b.First, last, b.Delta, b.RangeDelta)
}
