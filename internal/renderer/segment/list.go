package segment

import (
	"image"
	"iter"
)

// List is an ordered, owning sequence of segments.
type List struct {
	segs []*Segment
}

// Len returns the number of segments.
func (l *List) Len() int {
	return len(l.segs)
}

// At returns the segment at index i.
func (l *List) At(i int) *Segment {
	return l.segs[i]
}

// First returns the first segment, or nil.
func (l *List) First() *Segment {
	if len(l.segs) == 0 {
		return nil
	}
	return l.segs[0]
}

// Last returns the last segment, or nil.
func (l *List) Last() *Segment {
	if len(l.segs) == 0 {
		return nil
	}
	return l.segs[len(l.segs)-1]
}

// All iterates over the segments in order.
func (l *List) All() iter.Seq2[int, *Segment] {
	return func(yield func(int, *Segment) bool) {
		for i, s := range l.segs {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Append takes ownership of s.
func (l *List) Append(s *Segment) {
	l.segs = append(l.segs, s)
}

// RemoveHead releases and removes the first segment.
func (l *List) RemoveHead() {
	if len(l.segs) == 0 {
		return
	}
	l.segs[0].release()
	l.segs[0] = nil
	l.segs = l.segs[1:]
}

// RemoveTail releases and removes the last segment.
func (l *List) RemoveTail() {
	if len(l.segs) == 0 {
		return
	}
	n := len(l.segs) - 1
	l.segs[n].release()
	l.segs[n] = nil
	l.segs = l.segs[:n]
}

// RemoveFrom releases and removes every segment from index i on.
func (l *List) RemoveFrom(i int) {
	i = max(i, 0)
	for len(l.segs) > i {
		l.RemoveTail()
	}
}

// RemoveAll releases every segment.
func (l *List) RemoveAll() {
	l.RemoveFrom(0)
	l.segs = nil
}

// TakeFrom moves the segments from index i on into a new list.
func (l *List) TakeFrom(i int) *List {
	i = min(max(i, 0), len(l.segs))
	moved := &List{segs: append([]*Segment(nil), l.segs[i:]...)}
	clear(l.segs[i:])
	l.segs = l.segs[:i]
	return moved
}

// Splice moves every segment of src to the end of l, leaving src empty.
func (l *List) Splice(src *List) {
	l.segs = append(l.segs, src.segs...)
	src.segs = nil
}

// Shift moves the character offsets and owning range indices of every segment.
func (l *List) Shift(delta, rangeDelta int) {
	for _, s := range l.segs {
		s.Start += delta
		s.Stop += delta
		s.Range += rangeDelta
	}
}

// Offset moves every segment down by dy pixels and dline lines.
func (l *List) Offset(dy, dline int) {
	if dy == 0 && dline == 0 {
		return
	}
	for _, s := range l.segs {
		s.LineTop += dy
		s.Line += dline
		s.Rect = s.Rect.Add(image.Pt(0, dy))
	}
}

// Consumed returns the total number of characters covered.
func (l *List) Consumed() int {
	n := 0
	for _, s := range l.segs {
		n += s.Len()
	}
	return n
}

// Height returns the bottom of the last line.
func (l *List) Height() int {
	last := l.Last()
	if last == nil {
		return 0
	}
	return last.LineTop + last.LineHeight
}

// Lines returns the number of visual lines.
func (l *List) Lines() int {
	last := l.Last()
	if last == nil {
		return 0
	}
	return last.Line + 1
}

// LineStart returns the index of the first segment on the line of segment i.
func (l *List) LineStart(i int) int {
	for i > 0 && l.segs[i-1].Line == l.segs[i].Line {
		i--
	}
	return i
}

// LineEnd returns the index of the last segment on the line of segment i.
func (l *List) LineEnd(i int) int {
	for i+1 < len(l.segs) && l.segs[i+1].Line == l.segs[i].Line {
		i++
	}
	return i
}
