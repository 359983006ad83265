// Package engine provides the rich-text document for Inkwell.
//
// A Document combines the text buffer, the styled range list, the
// caret/selection state, snapshot undo/redo and the incremental layout
// builder behind one API.
//
// # Edits
//
// Every edit (Insert, Type, Paste, Delete, Backspace, InsertBreak, Format,
// SetText) pushes a snapshot of the text, selection and ranges onto the
// undo stack, clears the redo stack, mutates the buffer and ranges, and
// marks the affected segments dirty. Layout is lazy: Layout, Segments,
// CaretRect and OffsetAt rebuild first when needed.
//
// # Concurrency
//
// A Document is not safe for concurrent use. It is driven by a single
// mutator and never computes in the background.
//
// # Basic Usage
//
//	d := engine.New(engine.WithContent("Hello World"), engine.WithSize(400, 300))
//	defer d.Close()
//
//	d.SetSelection(5, 5)
//	d.Type("!")         // "Hello! World"
//	d.Undo()            // "Hello World"
//
//	bold := style.Unchanged()
//	bold.Font = style.Font{Family: "Go", Bold: true}
//	d.Format(0, 5, bold)
//
//	rect, _ := d.CaretRect(5, false)
package engine
