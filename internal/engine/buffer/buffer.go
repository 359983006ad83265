package buffer

import (
	"errors"
	"io"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer is a rune-indexed text buffer.
type Buffer struct {
	runes []rune
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{runes: []rune(s)}
}

// NewBufferFromReader creates a buffer from an io.Reader, normalising
// CRLF and CR line endings to LF.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(NormalizeLineEndings(string(data))), nil
}

// NormalizeLineEndings converts CRLF and CR to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// Runes returns the underlying runes. Callers must not modify them.
func (b *Buffer) Runes() []rune {
	return b.runes
}

// Len returns the number of characters.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end int) (string, error) {
	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	return string(b.runes[start:end]), nil
}

// RuneAt returns the rune at offset.
func (b *Buffer) RuneAt(offset int) (rune, bool) {
	if offset < 0 || offset >= len(b.runes) {
		return 0, false
	}
	return b.runes[offset], true
}

// Paragraphs returns the number of paragraphs (breaks + 1).
func (b *Buffer) Paragraphs() int {
	return CountBreaks(b.runes) + 1
}

// SetText replaces the whole content.
func (b *Buffer) SetText(s string) {
	b.runes = []rune(s)
}

// SetRunes replaces the whole content with a copy of r.
func (b *Buffer) SetRunes(r []rune) {
	b.runes = append(b.runes[:0:0], r...)
}

// Insert inserts s at offset and returns the number of characters added.
func (b *Buffer) Insert(offset int, s string) (int, error) {
	if offset < 0 || offset > len(b.runes) {
		return 0, ErrOffsetOutOfRange
	}
	ins := []rune(s)
	if len(ins) == 0 {
		return 0, nil
	}
	out := make([]rune, 0, len(b.runes)+len(ins))
	out = append(out, b.runes[:offset]...)
	out = append(out, ins...)
	out = append(out, b.runes[offset:]...)
	b.runes = out
	return len(ins), nil
}

// Delete removes [start, end) and returns the removed text.
func (b *Buffer) Delete(start, end int) (string, error) {
	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	removed := string(b.runes[start:end])
	b.runes = append(b.runes[:start:start], b.runes[end:]...)
	return removed, nil
}

func (b *Buffer) checkRange(start, end int) error {
	if start < 0 || end > len(b.runes) {
		return ErrOffsetOutOfRange
	}
	if start > end {
		return ErrRangeInvalid
	}
	return nil
}
