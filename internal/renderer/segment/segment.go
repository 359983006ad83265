// Package segment holds laid-out text segments and owns their shaping handles.
//
// A List is the only owner of the handles of the segments it contains.
// Removing a segment releases its handles; moving segments between lists
// with TakeFrom and Splice transfers them without release.
package segment

import (
	"fmt"
	"image"

	"github.com/dshills/inkwell/internal/renderer/shaping"
)

// Segment is a span of characters broken to fit one visual line.
type Segment struct {
	// Range is the index of the owning style range.
	Range int
	// Start and Stop delimit the consumed characters, including any
	// trailing paragraph break.
	Start int
	Stop  int
	// Break is the number of trailing break characters absorbed.
	Break int

	Rect       image.Rectangle
	Width      int
	Line       int
	LineTop    int
	LineHeight int
	Ascent     int
	// Descent is the segment's own font descent.
	Descent int

	ParagraphStart bool
	// Truncated marks the unshaped remainder of a paragraph the engine
	// could not break. It has no handles and no width.
	Truncated bool

	run *shaping.Run
	src *shaping.TextSource
}

// New creates a segment owning run and src. Either may be nil for a
// segment that covers no visible characters.
func New(rangeIndex, start, stop int, run *shaping.Run, src *shaping.TextSource) *Segment {
	s := &Segment{Range: rangeIndex, Start: start, Stop: stop, run: run, src: src}
	if run != nil {
		s.Width = run.Width()
	}
	return s
}

// Len returns the number of consumed characters.
func (s *Segment) Len() int {
	return s.Stop - s.Start
}

// VisibleStop returns the end of the characters before any absorbed break.
func (s *Segment) VisibleStop() int {
	return s.Stop - s.Break
}

// Left returns the x position of the segment on its line.
func (s *Segment) Left() int {
	return s.Rect.Min.X
}

// Run returns the glyph geometry, or nil.
func (s *Segment) Run() *shaping.Run {
	return s.run
}

// Source returns the shaped text, or nil.
func (s *Segment) Source() *shaping.TextSource {
	return s.src
}

// X returns the pixel x of the offset, clamped to the segment.
func (s *Segment) X(offset int) int {
	if s.run == nil {
		return s.Rect.Min.X
	}
	return s.Rect.Min.X + s.run.X(offset-s.Start)
}

// Baseline returns the y of the line baseline.
func (s *Segment) Baseline() int {
	return s.LineTop + s.Ascent
}

// Equal reports whether two segments have the same geometry and span.
func (s *Segment) Equal(o *Segment) bool {
	return s.Range == o.Range && s.Start == o.Start && s.Stop == o.Stop &&
		s.Break == o.Break && s.Rect == o.Rect && s.Width == o.Width &&
		s.Line == o.Line && s.LineTop == o.LineTop && s.LineHeight == o.LineHeight &&
		s.Ascent == o.Ascent && s.Descent == o.Descent && s.ParagraphStart == o.ParagraphStart &&
		s.Truncated == o.Truncated
}

func (s *Segment) String() string {
	return fmt.Sprintf("seg{r%d [%d:%d) line %d rect %v}", s.Range, s.Start, s.Stop, s.Line, s.Rect)
}

func (s *Segment) release() {
	if s.run != nil {
		s.run.Release()
		s.run = nil
	}
	if s.src != nil {
		s.src.Release()
		s.src = nil
	}
}
