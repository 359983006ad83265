package history

import (
	"errors"
	"time"

	"github.com/dshills/inkwell/internal/logger"
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// OperationInfo describes a stacked snapshot.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// History manages the undo and redo stacks of one document.
type History struct {
	undo       Stack
	redo       Stack
	maxEntries int
}

// NewHistory creates a history keeping at most maxEntries undo records.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Checkpoint records the state preceding a fresh edit.
// Clears the redo stack.
func (h *History) Checkpoint(rec *Record) {
	h.undo.Push(rec)
	h.redo.Clear()
	if n := h.undo.trim(h.maxEntries); n > 0 {
		logger.DebugTagf("history", "dropped %d oldest undo records", n)
	}
}

// Undo pops the newest undo record and returns it for restoring. current,
// the state being replaced, moves onto the redo stack.
func (h *History) Undo(current *Record) (*Record, error) {
	rec, ok := h.undo.Pop()
	if !ok {
		return nil, ErrNothingToUndo
	}
	h.redo.Push(current)
	return rec, nil
}

// Redo pops the newest redo record and returns it for restoring. current
// moves onto the undo stack.
func (h *History) Redo(current *Record) (*Record, error) {
	rec, ok := h.redo.Pop()
	if !ok {
		return nil, ErrNothingToRedo
	}
	h.undo.Push(current)
	h.undo.trim(h.maxEntries)
	return rec, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return !h.undo.IsEmpty()
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return !h.redo.IsEmpty()
}

// UndoCount returns the number of undo records.
func (h *History) UndoCount() int {
	return h.undo.Len()
}

// RedoCount returns the number of redo records.
func (h *History) RedoCount() int {
	return h.redo.Len()
}

// PeekUndo describes the next undo without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	return peek(&h.undo)
}

// PeekRedo describes the next redo without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	return peek(&h.redo)
}

func peek(s *Stack) (OperationInfo, bool) {
	rec, ok := s.Peek()
	if !ok {
		return OperationInfo{}, false
	}
	return OperationInfo{Description: rec.Label(), Timestamp: rec.Timestamp()}, true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undo.Clear()
	h.redo.Clear()
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.maxEntries = max
	h.undo.trim(max)
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	return h.maxEntries
}
