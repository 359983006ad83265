package backend

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/renderer/segment"
	"github.com/dshills/inkwell/internal/renderer/shaping"
)

// Frame is everything a preview draws.
type Frame struct {
	Text       []rune
	Ranges     []style.Range
	Segments   *segment.List
	Selection  cursor.Selection
	PreferPrev bool
	Status     string
}

// Preview draws frames line by line with a status row at the bottom.
type Preview struct {
	term *Terminal
	top  int
	last Frame
}

// NewPreview creates a preview on term.
func NewPreview(term *Terminal) *Preview {
	return &Preview{term: term}
}

// Top returns the first layout line shown.
func (p *Preview) Top() int {
	return p.top
}

// DrawDocument lays d out and draws it.
func (p *Preview) DrawDocument(d *engine.Document) error {
	segs, err := d.Segments()
	if err != nil && !errors.Is(err, engine.ErrTruncated) {
		return err
	}
	_, active, _ := d.Endpoints()
	sel := d.Selection()
	status := fmt.Sprintf("%d:%d  %d chars  %d paragraphs", sel.Anchor, sel.Active, d.Len(), d.Paragraphs())
	if d.CanUndo() {
		status += "  [modified]"
	}
	p.Draw(Frame{
		Text:       []rune(d.Text()),
		Ranges:     d.Ranges(),
		Segments:   segs,
		Selection:  sel,
		PreferPrev: active.PreferPrev,
		Status:     status,
	})
	return err
}

// Draw renders f and places the terminal cursor at the caret. The view
// scrolls to keep the caret line visible.
func (p *Preview) Draw(f Frame) {
	width, height := p.term.Size()
	rows := max(height-1, 1)
	p.term.Clear()
	p.last = f
	trueColor := p.term.HasTrueColor()

	caretSeg := cursor.SegmentAt(f.Segments, f.Selection.Active, f.PreferPrev)
	if caretSeg >= 0 {
		line := f.Segments.At(caretSeg).Line
		if line < p.top {
			p.top = line
		} else if line >= p.top+rows {
			p.top = line - rows + 1
		}
	}

	selStart, selEnd := f.Selection.Start(), f.Selection.End()
	caretX, caretY := -1, -1
	col, line := 0, -1
	for i, s := range f.Segments.All() {
		if s.Line != line {
			col, line = 0, s.Line
		}
		row := s.Line - p.top
		if row < 0 || row >= rows {
			continue
		}
		st := tcell.StyleDefault
		if s.Range < len(f.Ranges) {
			st = convertProps(f.Ranges[s.Range].Props, trueColor)
		}
		for off := s.Start; off < s.VisibleStop(); off++ {
			if i == caretSeg && off == f.Selection.Active {
				caretX, caretY = col, row
			}
			cell := st
			if off >= selStart && off < selEnd {
				cell = cell.Reverse(true)
			}
			col = p.put(col, row, f.Text[off], cell)
		}
		if i == caretSeg && caretX < 0 {
			caretX, caretY = col, row
		}
		if s.Truncated && col < width {
			p.term.SetCell(col, row, '…', st)
			col++
		}
	}

	status := runewidth.Truncate(f.Status, width, "…")
	x := 0
	for _, r := range status {
		p.term.SetCell(x, rows, r, tcell.StyleDefault.Reverse(true))
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		p.term.SetCell(x, rows, ' ', tcell.StyleDefault.Reverse(true))
	}

	if caretX >= 0 {
		p.term.ShowCursor(caretX, caretY)
	} else {
		p.term.HideCursor()
	}
	p.term.Show()
}

// OffsetAt returns the offset under a cell of the last frame drawn. Cells
// past the end of a line map to the end of its text.
func (p *Preview) OffsetAt(x, y int) (int, bool) {
	segs := p.last.Segments
	if segs == nil || y < 0 {
		return 0, false
	}
	line := p.top + y
	col, found, offset := 0, false, 0
	for _, s := range segs.All() {
		if s.Line != line {
			if found {
				break
			}
			continue
		}
		found = true
		for off := s.Start; off < s.VisibleStop(); off++ {
			next := advance(col, p.last.Text[off])
			if x < next {
				return off, true
			}
			col = next
		}
		offset = s.VisibleStop()
	}
	return offset, found
}

// advance returns the column after drawing r at col.
func advance(col int, r rune) int {
	if r == '\t' {
		return (col/shaping.TabStop + 1) * shaping.TabStop
	}
	return col + runewidth.RuneWidth(r)
}

// put draws r at (col, row) and returns the next column.
func (p *Preview) put(col, row int, r rune, st tcell.Style) int {
	if r == '\t' {
		for next := advance(col, r); col < next; col++ {
			p.term.SetCell(col, row, ' ', st)
		}
		return col
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return col
	}
	p.term.SetCell(col, row, r, st)
	return col + w
}
