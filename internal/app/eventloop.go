package app

import (
	"errors"
	"image"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/backend"
)

// Terminal cells approximate the default face.
const (
	pixelsPerColumn = 7
	pixelsPerRow    = 13
)

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventPaste:
		return app.handlePasteEvent(ev)
	default:
		return nil
	}
}

// handleResize wraps the layout to the terminal width.
func (app *Application) handleResize(ev backend.Event) error {
	rows := max(ev.Height-1, 1)
	app.doc.Resize(max(ev.Width*pixelsPerColumn, 1), rows*pixelsPerRow)
	return nil
}

// handleKeyEvent maps a key onto an edit or caret movement.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if app.pasting {
		switch ev.Key {
		case backend.KeyRune:
			app.paste = append(app.paste, ev.Rune)
		case backend.KeyEnter:
			app.paste = append(app.paste, '\n')
		case backend.KeyTab:
			app.paste = append(app.paste, '\t')
		}
		return nil
	}

	d := app.doc
	extend := ev.Mod.Has(backend.ModShift)
	var err error
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyRune:
		err = d.Type(string(ev.Rune))
	case backend.KeyEnter:
		err = d.InsertBreak()
	case backend.KeyTab:
		err = d.Type("\t")
	case backend.KeyBackspace:
		err = d.Backspace()
	case backend.KeyDelete:
		err = d.DeleteForward()
	case backend.KeyLeft:
		d.MoveCaret(-1, extend)
	case backend.KeyRight:
		d.MoveCaret(1, extend)
	case backend.KeyHome:
		err = app.moveToLineEdge(false, extend)
	case backend.KeyEnd:
		err = app.moveToLineEdge(true, extend)
	case backend.KeyUp:
		err = app.moveLine(-1, extend)
	case backend.KeyDown:
		err = app.moveLine(1, extend)
	case backend.KeyCtrlA:
		d.SelectAll()
	case backend.KeyCtrlB:
		err = app.toggleBold()
	case backend.KeyCtrlZ:
		err = d.Undo()
	case backend.KeyCtrlY:
		err = d.Redo()
	}
	if errors.Is(err, engine.ErrNothingToUndo) || errors.Is(err, engine.ErrNothingToRedo) {
		logger.Debugf("%v", err)
		return nil
	}
	if errors.Is(err, engine.ErrTruncated) {
		return nil
	}
	return err
}

// handlePasteEvent collects bracketed paste text and inserts it at the end
// marker as one undoable edit.
func (app *Application) handlePasteEvent(ev backend.Event) error {
	if ev.PasteStart {
		app.pasting = true
		app.paste = app.paste[:0]
		return nil
	}
	app.pasting = false
	if len(app.paste) == 0 {
		return nil
	}
	return app.doc.Paste(string(app.paste))
}

// handleMouseEvent places the caret under a click; a drag extends.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	if !ev.MousePressed {
		return nil
	}
	offset, ok := app.preview.OffsetAt(ev.MouseX, ev.MouseY)
	if !ok {
		return nil
	}
	anchor := offset
	if ev.Mod.Has(backend.ModShift) {
		anchor = app.doc.Selection().Anchor
	}
	return app.doc.SetSelection(anchor, offset)
}

// moveToLineEdge moves the caret to the start or end of its layout line.
func (app *Application) moveToLineEdge(end, extend bool) error {
	d := app.doc
	segs, err := d.Segments()
	if err != nil && !errors.Is(err, engine.ErrTruncated) {
		return err
	}
	_, active, _ := d.Endpoints()
	i := cursor.SegmentAt(segs, active.Offset, active.PreferPrev)
	if i < 0 {
		return nil
	}
	offset := segs.At(segs.LineStart(i)).Start
	if end {
		offset = segs.At(segs.LineEnd(i)).VisibleStop()
	}
	anchor := offset
	if extend {
		anchor = d.Selection().Anchor
	}
	return d.SetSelection(anchor, offset)
}

// moveLine moves the caret dir lines up or down, keeping its x position.
func (app *Application) moveLine(dir int, extend bool) error {
	d := app.doc
	_, active, err := d.Endpoints()
	if err != nil && !errors.Is(err, engine.ErrTruncated) {
		return err
	}
	rect, err := d.CaretRect(active.Offset, active.PreferPrev)
	if err != nil && !errors.Is(err, engine.ErrTruncated) {
		return err
	}
	y := rect.Min.Y - 1
	if dir > 0 {
		y = rect.Max.Y
	}
	if y < 0 {
		return nil
	}
	return d.SetCaretAt(image.Pt(rect.Min.X, y), extend)
}

// toggleBold makes the selection bold unless it already starts bold.
func (app *Application) toggleBold() error {
	d := app.doc
	sel := d.Selection()
	if sel.IsEmpty() {
		return nil
	}
	cur := d.PropsAt(sel.Start(), false)
	p := style.Unchanged()
	p.Font = cur.Font
	p.Font.Bold = !cur.Font.Bold
	return d.FormatSelection(p)
}
