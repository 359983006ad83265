// Package layout breaks styled text into positioned line segments.
//
// The Builder keeps a segment.List between rebuilds. An edit marks a dirty
// window of segment indices; the next Rebuild keeps segments ahead of the
// window, moves the ones after it into a transient old chain shifted by the
// edit's character delta, and shapes forward from the window. At every line
// start the head of the old chain is checked: when it starts at the current
// offset on the left edge, the whole chain is spliced back and the rebuild
// stops early.
package layout

import (
	"image"
	"unicode"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/segment"
	"github.com/dshills/inkwell/internal/renderer/shaping"
)

const (
	// maxAttempts bounds the passes that may flip the scrollbar. A second
	// flip settles on showing it, which costs at most one more pass.
	maxAttempts = 2

	// DefaultScrollbarWidth is the width reserved for a vertical scrollbar.
	DefaultScrollbarWidth = 16
)

// Shaper provides a shaping engine per set of character properties.
type Shaper interface {
	Engine(p style.Props) (shaping.Engine, error)
}

// Builder produces and repairs the segment list of a document.
type Builder struct {
	shaper         Shaper
	width          int
	height         int
	scrollbarWidth int
	singleLine     bool
	scrollbar      bool

	segs   segment.List
	bounds dirty.Bounds
	stats  Stats
}

// NewBuilder creates a builder for a layout area of width x height pixels.
// A height of zero never shows a scrollbar.
func NewBuilder(shaper Shaper, width, height int) *Builder {
	b := &Builder{
		shaper:         shaper,
		width:          width,
		height:         height,
		scrollbarWidth: DefaultScrollbarWidth,
	}
	b.bounds.MarkAll(dirty.ChangeReset)
	return b
}

// Segments returns the current segment list. It is stale while IsDirty.
func (b *Builder) Segments() *segment.List {
	return &b.segs
}

// Stats returns layout counters.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Bounds returns the pending dirty bounds.
func (b *Builder) Bounds() dirty.Bounds {
	return b.bounds
}

// IsDirty reports whether a rebuild is pending.
func (b *Builder) IsDirty() bool {
	return b.bounds.IsDirty()
}

// Size returns the layout area.
func (b *Builder) Size() (width, height int) {
	return b.width, b.height
}

// SetSize changes the layout area and invalidates everything.
func (b *Builder) SetSize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	b.width, b.height = width, height
	b.bounds.MarkAll(dirty.ChangeResize)
}

// SetScrollbarWidth changes the width reserved for the scrollbar.
func (b *Builder) SetScrollbarWidth(w int) {
	w = max(w, 0)
	if w == b.scrollbarWidth {
		return
	}
	b.scrollbarWidth = w
	if b.scrollbar {
		b.bounds.MarkAll(dirty.ChangeResize)
	}
}

// SingleLine reports whether lines are never wrapped.
func (b *Builder) SingleLine() bool {
	return b.singleLine
}

// SetSingleLine switches between single- and multi-line layout.
func (b *Builder) SetSingleLine(v bool) {
	if v == b.singleLine {
		return
	}
	b.singleLine = v
	b.bounds.MarkAll(dirty.ChangeResize)
}

// ScrollbarVisible reports whether the last layout reserved a scrollbar.
func (b *Builder) ScrollbarVisible() bool {
	return b.scrollbar
}

// ContentHeight returns the height of the laid-out text.
func (b *Builder) ContentHeight() int {
	return b.segs.Height()
}

// LineWidth returns the width available to a line.
func (b *Builder) LineWidth() int {
	if b.singleLine {
		return shaping.MaxWidth
	}
	w := b.width
	if b.scrollbar {
		w -= b.scrollbarWidth
	}
	return max(w, 1)
}

// MarkAll requests a full rebuild.
func (b *Builder) MarkAll(ct dirty.ChangeType) {
	b.bounds.MarkAll(ct)
}

// Edit describes a change already applied to the text and ranges.
type Edit struct {
	Kind       dirty.ChangeType
	Start, End int // replaced span, in offsets before the edit
	Delta      int // net character change
	RangeDelta int // change in range count
}

// Invalidate marks the segments touched by e as laid out now. text and
// ranges are the state after the edit. The window opens on the line before
// the one holding the start of the word ahead of the edit, unless that
// line starts a paragraph: a shorter word or range may move back up there.
func (b *Builder) Invalidate(text []rune, ranges *style.List, e Edit) {
	if b.bounds.IsDirty() || b.segs.Len() == 0 {
		b.bounds.MarkAll(e.Kind)
		return
	}
	first := b.segs.LineStart(b.indexAt(reflowStart(text, ranges, e.Start)))
	if first > 0 && !b.segs.At(first).ParagraphStart {
		first = b.segs.LineStart(first - 1)
	}
	last := b.segs.LineEnd(b.indexAt(max(e.Start, e.End)))
	b.bounds.Mark(e.Kind, first, last, e.Delta, e.RangeDelta)
	logger.DebugTagf("layout", "invalidate %s", b.bounds)
}

// reflowStart returns the earliest offset whose line breaking an edit at
// start can change: the start of the word before start, never crossing a
// paragraph break or the start of the range holding start-1. Text before
// start is the same before and after the edit.
func reflowStart(text []rune, ranges *style.List, start int) int {
	start = min(start, len(text))
	if start <= 0 || ranges.Len() == 0 {
		return 0
	}
	_, rs := ranges.Locate(start-1, false)
	q := start
	for q > rs && unicode.IsSpace(text[q-1]) && !buffer.IsBreak(text[q-1]) {
		q--
	}
	for q > rs && !unicode.IsSpace(text[q-1]) {
		q--
	}
	return q
}

// indexAt returns the last segment starting at or before offset.
func (b *Builder) indexAt(offset int) int {
	idx := 0
	for i, s := range b.segs.All() {
		if s.Start > offset {
			break
		}
		idx = i
	}
	return idx
}

// Close releases every segment.
func (b *Builder) Close() {
	b.segs.RemoveAll()
	b.bounds.MarkAll(dirty.ChangeReset)
}

// Rebuild brings the segment list up to date with text and ranges. It
// returns a *TruncatedError when some paragraphs could not be broken; the
// list is complete and consistent either way.
func (b *Builder) Rebuild(text []rune, ranges *style.List) error {
	if !b.bounds.IsDirty() {
		return nil
	}
	b.stats.Passes++
	b.stats.Kept, b.stats.Built, b.stats.Reused, b.stats.Restarts = 0, 0, 0, 0

	bounds := b.bounds
	var truncated []int
	for attempt := 1; ; attempt++ {
		truncated = b.pass(text, ranges, bounds)
		if attempt > maxAttempts {
			break
		}
		need := !b.singleLine && b.height > 0 && b.segs.Height() > b.height
		if need == b.scrollbar {
			break
		}
		if attempt == maxAttempts {
			// The text fits only without the scrollbar's width.
			logger.Warnf("layout: scrollbar flipped twice at width %d, keeping it shown", b.width)
			if b.scrollbar {
				break
			}
			need = true
		}
		logger.DebugTagf("layout", "scrollbar %v -> %v, relayout", b.scrollbar, need)
		b.scrollbar = need
		b.stats.Restarts++
		bounds = dirty.Clean()
		bounds.MarkAll(dirty.ChangeResize)
	}
	b.bounds.Reset()

	if len(truncated) > 0 {
		logger.Warnf("layout: could not break paragraph(s) %v at width %d", truncated, b.LineWidth())
		return &TruncatedError{Paragraphs: truncated}
	}
	return nil
}

// pass runs one layout attempt and returns truncated paragraph numbers.
func (b *Builder) pass(text []rune, ranges *style.List, bounds dirty.Bounds) []int {
	// Segments ahead of the window stay; those after it become the old
	// chain, shifted into post-edit coordinates.
	keep := 0
	for keep < b.segs.Len() && bounds.Keeps(keep) {
		keep++
	}
	tail := keep
	for tail < b.segs.Len() && !bounds.Keeps(tail) {
		tail++
	}
	old := b.segs.TakeFrom(tail)
	defer old.RemoveAll()
	old.Shift(bounds.Delta, bounds.RangeDelta)
	b.segs.RemoveFrom(keep)
	b.stats.Kept = keep

	p := &pass{b: b, text: text, ranges: ranges, old: old, width: b.LineWidth()}
	p.resume()
	p.run()
	return p.truncated
}

// pass holds the state of one layout attempt.
type pass struct {
	b      *Builder
	text   []rune
	ranges *style.List
	old    *segment.List
	width  int

	offset    int
	rangeIdx  int
	top       int
	line      int
	x         int
	lineStart int
	ascent    int
	descent   int
	height    int

	truncating bool
	truncated  []int
	done       bool
}

// resume derives the starting context from the last kept segment.
func (p *pass) resume() {
	p.lineStart = p.b.segs.Len()
	if last := p.b.segs.Last(); last != nil {
		p.offset = last.Stop
		p.top = last.LineTop + last.LineHeight
		p.line = last.Line + 1
		p.truncating = last.Truncated && last.Break == 0
	}
	p.rangeIdx = p.ranges.Len()
	start := 0
	for i := 0; i < p.ranges.Len(); i++ {
		n := p.ranges.At(i).Count
		if p.offset < start+n || (n == 0 && p.offset == start) {
			p.rangeIdx = i
			break
		}
		start += n
	}
}

func (p *pass) run() {
	start := 0
	if p.rangeIdx < p.ranges.Len() {
		start = p.ranges.Start(p.rangeIdx)
	}
	for i := p.rangeIdx; i < p.ranges.Len() && !p.done; i++ {
		r := p.ranges.At(i)
		p.layoutRange(i, r, start, start+r.Count)
		start += r.Count
	}
	if p.done {
		return
	}
	p.finishLine()

	total := len(p.text)
	if total == 0 || buffer.AfterBreak(p.text, total) {
		last := p.ranges.Len() - 1
		if p.reuse(total, last) {
			return
		}
		eng := p.engine(last)
		s := segment.New(last, total, total, nil, nil)
		p.place(s, metricsOf(eng))
		p.finishLine()
	}
}

// layoutRange lays out the characters of range i in [rs, re) from the
// current offset.
func (p *pass) layoutRange(i int, r style.Range, rs, re int) {
	pos := max(p.offset, rs)
	if pos >= re {
		return
	}
	eng := p.engine(i)
	for pos < re && !p.done {
		brk := buffer.NextBreak(p.text, pos, re)
		visEnd := brk
		consumedEnd := re
		if brk < re {
			consumedEnd = min(brk+buffer.BreakLen(p.text, brk), re)
		}

		if p.truncating || eng == nil {
			pos = p.truncate(i, pos, visEnd, consumedEnd, eng)
			continue
		}

		if visEnd == pos {
			// Break-only chunk: an empty paragraph or the break after a
			// range boundary.
			if p.x == 0 && p.reuse(pos, i) {
				return
			}
			s := segment.New(i, pos, consumedEnd, nil, nil)
			s.Break = consumedEnd - visEnd
			p.place(s, eng.Metrics())
			p.finishLine()
			pos = consumedEnd
			continue
		}

		for pos < visEnd && !p.done {
			first := p.x == 0 && p.b.segs.Len() == p.lineStart
			if first && p.reuse(pos, i) {
				return
			}
			req := shaping.Request{
				Start:     pos,
				End:       visEnd,
				Width:     p.width - p.x,
				Preferred: shaping.WordBreak,
			}
			if first {
				req.Fallback = shaping.ClipBreak
			}
			p.b.stats.ShapeCalls++
			run, src, ok := eng.NextSegment(p.text, req)
			if !ok {
				if !first {
					p.finishLine()
					continue
				}
				p.truncating = true
				pos = p.truncate(i, pos, visEnd, consumedEnd, eng)
				break
			}
			stop := pos + run.Len()
			s := segment.New(i, pos, stop, run, src)
			if stop == visEnd && consumedEnd > visEnd {
				s.Stop = consumedEnd
				s.Break = consumedEnd - visEnd
			}
			p.place(s, run.Metrics())
			p.b.stats.Built++
			pos = s.Stop
			if stop < visEnd || s.Break > 0 {
				p.finishLine()
			}
		}
	}
}

// truncate covers [pos, consumedEnd) with a zero-width segment and
// returns the new offset. Consuming a break ends the truncated paragraph.
func (p *pass) truncate(i, pos, visEnd, consumedEnd int, eng shaping.Engine) int {
	p.truncating = true
	para := buffer.CountBreaks(p.text[:pos])
	if n := len(p.truncated); n == 0 || p.truncated[n-1] != para {
		p.truncated = append(p.truncated, para)
	}
	s := segment.New(i, pos, consumedEnd, nil, nil)
	s.Truncated = true
	s.Break = consumedEnd - visEnd
	p.place(s, metricsOf(eng))
	if s.Break > 0 {
		p.truncating = false
		p.finishLine()
	}
	return consumedEnd
}

// reuse splices the old chain back when its head starts a line at pos.
func (p *pass) reuse(pos, rangeIdx int) bool {
	for p.old.Len() > 0 && p.old.First().Start < pos {
		p.old.RemoveHead()
	}
	h := p.old.First()
	if h == nil || h.Start != pos || h.Left() != 0 || h.Range != rangeIdx {
		return false
	}
	if h.ParagraphStart != p.paragraphStart(pos) {
		return false
	}
	p.old.Offset(p.top-h.LineTop, p.line-h.Line)
	p.b.stats.Reused += p.old.Len()
	logger.DebugTagf("layout", "reusing %d segment(s) from offset %d", p.old.Len(), pos)
	p.b.segs.Splice(p.old)
	p.done = true
	return true
}

func (p *pass) paragraphStart(pos int) bool {
	return pos == 0 || buffer.AfterBreak(p.text, pos)
}

func (p *pass) engine(i int) shaping.Engine {
	props := p.ranges.At(i).Props
	eng, err := p.b.shaper.Engine(props)
	if err != nil {
		logger.Errorf("layout: no shaping engine for %s: %v", props, err)
		return nil
	}
	return eng
}

func metricsOf(eng shaping.Engine) shaping.Metrics {
	if eng == nil {
		return shaping.Metrics{}
	}
	return eng.Metrics()
}

// place appends s to the current line.
func (p *pass) place(s *segment.Segment, m shaping.Metrics) {
	s.ParagraphStart = p.paragraphStart(s.Start)
	s.Descent = m.Descent
	s.Rect = image.Rect(p.x, p.top, p.x+s.Width, p.top)
	p.x += s.Width
	p.ascent = max(p.ascent, m.Ascent)
	p.descent = max(p.descent, m.Descent)
	p.height = max(p.height, m.Height)
	p.b.segs.Append(s)
}

// finishLine aligns the segments of the current line on a shared baseline.
func (p *pass) finishLine() {
	if p.b.segs.Len() == p.lineStart {
		return
	}
	h := max(p.ascent+p.descent, p.height)
	for i := p.lineStart; i < p.b.segs.Len(); i++ {
		s := p.b.segs.At(i)
		s.Line = p.line
		s.LineTop = p.top
		s.LineHeight = h
		s.Ascent = p.ascent
		s.Rect = image.Rect(s.Rect.Min.X, p.top, s.Rect.Min.X+s.Width, p.top+h)
	}
	p.top += h
	p.line++
	p.x = 0
	p.ascent, p.descent, p.height = 0, 0, 0
	p.lineStart = p.b.segs.Len()
}
