package cursor

import (
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/renderer/segment"
)

// Endpoint is one side of a selection with its cached lookups.
type Endpoint struct {
	Offset int
	// PreferPrev associates a wrap-boundary offset with the segment ending there.
	PreferPrev bool

	Range        int
	RangeStart   int
	Segment      int
	SegmentStart int

	valid bool
}

// Valid reports whether the cached lookups are current.
func (e *Endpoint) Valid() bool {
	return e.valid
}

// Invalidate drops the cached lookups.
func (e *Endpoint) Invalidate() {
	e.valid = false
}

// Resolve refreshes the cached range and segment of this endpoint only.
// With no segments the range comes from the style list and Segment is -1.
func (e *Endpoint) Resolve(ranges *style.List, segs *segment.List) {
	e.Segment = SegmentAt(segs, e.Offset, e.PreferPrev)
	if e.Segment < 0 {
		e.SegmentStart = e.Offset
		e.Range, e.RangeStart = ranges.Locate(e.Offset, e.PreferPrev)
	} else {
		s := segs.At(e.Segment)
		e.SegmentStart = s.Start
		e.Range = min(s.Range, ranges.Len()-1)
		e.RangeStart = ranges.Start(e.Range)
	}
	e.valid = true
}

// SegmentAt returns the index of the segment holding offset, or -1 when
// segs is empty. Offsets past the end map to the last segment.
func SegmentAt(segs *segment.List, offset int, preferPrev bool) int {
	idx := -1
	for i, s := range segs.All() {
		if s.Start > offset {
			break
		}
		idx = i
	}
	if idx < 0 {
		if segs.Len() == 0 {
			return -1
		}
		return 0
	}
	if idx > 0 && preferPrev && offset == segs.At(idx).Start {
		// A boundary after a paragraph break always stays with the
		// following segment.
		if segs.At(idx-1).Break == 0 {
			return idx - 1
		}
	}
	return idx
}

// State is the caret/selection of a document.
type State struct {
	Anchor Endpoint
	Active Endpoint
}

// NewState returns a caret at offset.
func NewState(offset int) *State {
	return &State{
		Anchor: Endpoint{Offset: offset},
		Active: Endpoint{Offset: offset},
	}
}

// Selection returns the offsets as a Selection value.
func (s *State) Selection() Selection {
	return Selection{Anchor: s.Anchor.Offset, Active: s.Active.Offset}
}

// Set moves both endpoints and invalidates their caches. Wrap-boundary
// association is cleared.
func (s *State) Set(anchor, active int) {
	s.Anchor = Endpoint{Offset: anchor}
	s.Active = Endpoint{Offset: active}
	s.Invalidate()
}

// SetSelection moves both endpoints to sel.
func (s *State) SetSelection(sel Selection) {
	s.Set(sel.Anchor, sel.Active)
}

// Invalidate drops both endpoint caches.
func (s *State) Invalidate() {
	s.Anchor.Invalidate()
	s.Active.Invalidate()
}

// Resolve refreshes any endpoint whose cache is stale.
func (s *State) Resolve(ranges *style.List, segs *segment.List) {
	if !s.Anchor.valid {
		s.Anchor.Resolve(ranges, segs)
	}
	if !s.Active.valid {
		s.Active.Resolve(ranges, segs)
	}
}
