// Package history provides undo/redo for the document engine.
//
// History keeps two independent LIFO stacks of immutable document
// snapshots. Before a mutating edit the engine records the current state:
//
//	h := history.NewHistory(100)
//	h.Checkpoint(history.NewRecord("Typing", text, anchor, active, ranges))
//
// Undo pops the newest snapshot for the caller to restore and files the
// state being replaced on the redo stack; Redo is the mirror operation.
// A fresh checkpoint clears the redo stack.
//
// # Ownership
//
// A Record is owned by exactly one stack at a time. Pop hands the record to
// the caller; the stacks never copy records.
package history
