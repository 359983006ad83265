package style

import (
	"errors"
	"fmt"

	"github.com/dshills/inkwell/internal/assert"
)

const component = "style"

// Errors returned by Validate.
var (
	ErrNegativeCount   = errors.New("negative range count")
	ErrStrayEmptyRange = errors.New("zero-length range in the middle of the list")
	ErrMissingStart    = errors.New("first range is not a paragraph start")
)

// List is an ordered run-length list of ranges partitioning a document.
type List struct {
	ranges []Range
}

// NewList returns a list holding a single paragraph-start range of the
// given length.
func NewList(length int, base Props) *List {
	if length < 0 {
		assert.Violation(component, "negative document length %d", length)
		length = 0
	}
	return &List{ranges: []Range{{Props: base, ParagraphStart: true, Count: length}}}
}

// FromRanges builds a list from a copy of rs.
func FromRanges(rs []Range) *List {
	if len(rs) == 0 {
		return NewList(0, DefaultProps())
	}
	return &List{ranges: append([]Range(nil), rs...)}
}

// Len returns the number of ranges.
func (l *List) Len() int {
	return len(l.ranges)
}

// At returns the range at index i.
func (l *List) At(i int) Range {
	return l.ranges[i]
}

// Ranges returns a copy of all ranges.
func (l *List) Ranges() []Range {
	return append([]Range(nil), l.ranges...)
}

// Start returns the offset of the first character of range i.
func (l *List) Start(i int) int {
	pos := 0
	for k := 0; k < i && k < len(l.ranges); k++ {
		pos += l.ranges[k].Count
	}
	return pos
}

// TextLen returns the sum of all counts.
func (l *List) TextLen() int {
	n := 0
	for _, r := range l.ranges {
		n += r.Count
	}
	return n
}

// Paragraphs returns the number of ranges flagged as paragraph starts.
func (l *List) Paragraphs() int {
	n := 0
	for _, r := range l.ranges {
		if r.ParagraphStart {
			n++
		}
	}
	return n
}

// Locate returns the index and start offset of the range holding offset.
// When offset sits on a boundary and preferPrev is set, the range ending
// there wins. An offset at the end of the text maps to the last range.
func (l *List) Locate(offset int, preferPrev bool) (index, start int) {
	offset = assert.Clamp(component, "locate offset", offset, 0, l.TextLen())
	if preferPrev && offset > 0 {
		return l.locate(offset - 1)
	}
	return l.locate(offset)
}

func (l *List) locate(offset int) (int, int) {
	pos := 0
	for i, r := range l.ranges {
		if offset < pos+r.Count {
			return i, pos
		}
		pos += r.Count
	}
	last := len(l.ranges) - 1
	return last, pos - l.ranges[last].Count
}

// SplitAt makes offset a range boundary and returns the index of the first
// range starting there. It returns Len() when offset is the end of the text
// and no trailing empty range exists.
func (l *List) SplitAt(offset int) int {
	offset = assert.Clamp(component, "split offset", offset, 0, l.TextLen())

	pos := 0
	for i, r := range l.ranges {
		if pos == offset {
			return i
		}
		end := pos + r.Count
		if offset < end {
			left, right := r, r
			left.Count = offset - pos
			right.Count = end - offset
			right.ParagraphStart = false

			l.ranges = append(l.ranges, Range{})
			copy(l.ranges[i+2:], l.ranges[i+1:])
			l.ranges[i] = left
			l.ranges[i+1] = right
			return i + 1
		}
		pos = end
	}
	return len(l.ranges)
}

// Boundary is SplitAt that also opens a zero-length trailing range, styled
// like the last one, when offset is the end of the text.
func (l *List) Boundary(offset int) int {
	i := l.SplitAt(offset)
	if i == len(l.ranges) {
		r := l.ranges[i-1]
		r.Count = 0
		l.ranges = append(l.ranges, r)
	}
	return i
}

// MarkParagraphs sets every range's paragraph flag from isStart, called
// with the range's start offset. The first range always starts one.
func (l *List) MarkParagraphs(isStart func(offset int) bool) {
	pos := 0
	for i := range l.ranges {
		l.ranges[i].ParagraphStart = i == 0 || isStart(pos)
		pos += l.ranges[i].Count
	}
}

// Insert grows the range receiving count new characters at offset and
// returns its index. With inheritPrev the range ending at offset grows,
// otherwise the range starting there.
func (l *List) Insert(offset, count int, inheritPrev bool) int {
	if count < 0 {
		assert.Violation(component, "insert of negative count %d", count)
		count = 0
	}
	i, _ := l.Locate(offset, inheritPrev)
	l.ranges[i].Count += count
	return i
}

// InsertWithProps inserts end-start characters at start and gives them
// newProps applied over the style they would otherwise inherit.
func (l *List) InsertWithProps(start, end int, newProps Props, inheritPrev bool) {
	if end < start {
		assert.Violation(component, "insert range [%d,%d) reversed", start, end)
		return
	}
	l.Insert(start, end-start, inheritPrev)
	if !newProps.IsUnchanged() {
		l.Apply(start, end, newProps)
	}
}

// Apply merges p into every range overlapping [start, end), splitting at
// both ends as needed.
func (l *List) Apply(start, end int, p Props) {
	total := l.TextLen()
	start = assert.Clamp(component, "apply start", start, 0, total)
	end = assert.Clamp(component, "apply end", end, start, total)
	if start == end || p.IsUnchanged() {
		return
	}
	i := l.SplitAt(start)
	j := l.SplitAt(end)
	for k := i; k < j; k++ {
		l.ranges[k].Props = p.Merge(l.ranges[k].Props)
	}
}

// Delete removes the characters in [start, end). Ranges emptied by the
// deletion stay in place until CleanUp.
func (l *List) Delete(start, end int) {
	total := l.TextLen()
	start = assert.Clamp(component, "delete start", start, 0, total)
	end = assert.Clamp(component, "delete end", end, start, total)

	pos := 0
	for i := range l.ranges {
		rs := pos
		re := pos + l.ranges[i].Count
		pos = re
		lo, hi := max(rs, start), min(re, end)
		if lo < hi {
			l.ranges[i].Count -= hi - lo
		}
		if re >= end {
			break
		}
	}
}

// CleanUp drops zero-length ranges other than the last, moving their
// paragraph flag to the following range, and merges neighbours with
// identical properties. Only a trailing empty paragraph is carried by a
// zero-length range.
// A range that starts a paragraph is never merged into its predecessor.
func (l *List) CleanUp() {
	out := make([]Range, 0, len(l.ranges))
	for i := 0; i < len(l.ranges); i++ {
		r := l.ranges[i]
		if r.Count < 0 {
			assert.Violation(component, "range %d has count %d", i, r.Count)
			r.Count = 0
		}
		last := i == len(l.ranges)-1
		if r.Count == 0 && !last {
			if r.ParagraphStart {
				l.ranges[i+1].ParagraphStart = true
			}
			continue
		}
		if n := len(out); n > 0 && !r.ParagraphStart && out[n-1].SameStyle(r) {
			out[n-1].Count += r.Count
			continue
		}
		out = append(out, r)
	}
	out[0].ParagraphStart = true
	l.ranges = out
}

// Validate checks the partition invariants against a text length.
func (l *List) Validate(textLen int) error {
	if len(l.ranges) == 0 {
		return errors.New("empty range list")
	}
	if !l.ranges[0].ParagraphStart {
		return ErrMissingStart
	}
	sum := 0
	for i, r := range l.ranges {
		if r.Count < 0 {
			return fmt.Errorf("range %d: %w", i, ErrNegativeCount)
		}
		if r.Count == 0 && i != len(l.ranges)-1 {
			return fmt.Errorf("range %d: %w", i, ErrStrayEmptyRange)
		}
		sum += r.Count
	}
	if sum != textLen {
		return fmt.Errorf("ranges cover %d characters, text has %d", sum, textLen)
	}
	return nil
}
