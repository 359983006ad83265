package script

import (
	"errors"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/renderer/segment"
	"github.com/dshills/inkwell/internal/renderer/viewport"
)

// Dump lays d out and returns its text, selection, ranges and segments as
// JSON. A truncated layout is dumped together with its error.
func Dump(d *engine.Document) ([]byte, error) {
	segs, layoutErr := d.Segments()
	if layoutErr != nil && !errors.Is(layoutErr, engine.ErrTruncated) {
		return nil, layoutErr
	}

	out := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.SetBytes(out, path, value)
		}
	}

	sel := d.Selection()
	set("text", d.Text())
	set("length", d.Len())
	set("paragraphs", d.Paragraphs())
	set("selection.anchor", sel.Anchor)
	set("selection.active", sel.Active)

	set("ranges", []any{})
	for i, r := range d.Ranges() {
		p := fmt.Sprintf("ranges.%d.", i)
		set(p+"count", r.Count)
		set(p+"paragraph_start", r.ParagraphStart)
		set(p+"font", r.Font.Family)
		set(p+"bold", r.Font.Bold)
		set(p+"italic", r.Font.Italic)
		set(p+"size", r.Size)
		set(p+"foreground", r.Foreground.Hex())
		set(p+"background", r.Background.Hex())
	}

	set("segments", []any{})
	for i, s := range segs.All() {
		p := fmt.Sprintf("segments.%d.", i)
		set(p+"range", s.Range)
		set(p+"start", s.Start)
		set(p+"stop", s.Stop)
		set(p+"line", s.Line)
		set(p+"x", s.Rect.Min.X)
		set(p+"y", s.Rect.Min.Y)
		set(p+"width", s.Width)
		set(p+"line_height", s.LineHeight)
		set(p+"baseline", s.Baseline())
		if s.Break > 0 {
			set(p+"break", s.Break)
		}
		if s.ParagraphStart {
			set(p+"paragraph_start", true)
		}
		if s.Truncated {
			set(p+"truncated", true)
		}
	}

	st := d.LayoutStats()
	h, _ := d.ContentHeight()
	set("layout.content_height", h)
	set("layout.lines", segs.Lines())
	set("layout.scrollbar", d.ScrollbarVisible())
	set("layout.shape_calls", st.ShapeCalls)
	set("layout.passes", st.Passes)
	dumpView(d, segs, set)
	set("history.undo", d.UndoCount())
	set("history.redo", d.RedoCount())

	var te *engine.TruncatedError
	if errors.As(layoutErr, &te) {
		set("layout.truncated_paragraphs", te.Paragraphs)
	}
	if err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	return out, nil
}

// dumpView records where a viewport of the document's size scrolls to keep
// the caret clear of the default margins.
func dumpView(d *engine.Document, segs *segment.List, set func(string, any)) {
	v := viewport.NewViewport(d.Size())
	v.SetMarginsFromConfig(viewport.DefaultMargins())
	if _, err := d.ScrollToCaret(v); err != nil && !errors.Is(err, engine.ErrTruncated) {
		return
	}
	sel := d.Selection()
	caret, _ := d.CaretRect(sel.Active, false)
	first, last := v.VisibleSegments(segs)
	pt := v.ToScreen(caret.Min)
	set("view.top", v.Top())
	set("view.left", v.Left())
	set("view.first_segment", first)
	set("view.last_segment", last)
	set("view.caret.x", pt.X)
	set("view.caret.y", pt.Y)
	set("view.caret_visible", v.IsVisible(caret))
}
