package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/inkwell/internal/engine/buffer"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/logger"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/layout"
	"github.com/dshills/inkwell/internal/renderer/segment"
	"github.com/dshills/inkwell/internal/renderer/shaping"
	"github.com/dshills/inkwell/internal/renderer/viewport"
)

// Re-export commonly used types for convenience.
type (
	// Selection is an anchor/active pair of offsets.
	Selection = cursor.Selection

	// Props is a set of character properties.
	Props = style.Props

	// Range is one styled run of the document.
	Range = style.Range

	// TruncatedError lists paragraphs that could not be laid out.
	TruncatedError = layout.TruncatedError
)

// Edit labels recorded in history.
const (
	LabelTyping    = "Typing"
	LabelPaste     = "Paste"
	LabelDelete    = "Delete"
	LabelBreak     = "Paragraph Break"
	LabelFormat    = "Format"
	LabelSetText   = "Set Text"
	LabelInsert    = "Insert"
	LabelBackspace = "Backspace"
)

// Document is an editable styled text with incremental layout.
type Document struct {
	buf     *buffer.Buffer
	ranges  *style.List
	sel     *cursor.State
	history *history.History
	builder *layout.Builder
	shaper  layout.Shaper
	cache   *shaping.Cache

	// Configuration
	width          int
	height         int
	scrollbarWidth int
	singleLine     bool
	maxUndoEntries int
	props          style.Props
	readOnly       bool

	// Initialization
	initContent string
}

// New creates a Document with the given options.
func New(opts ...Option) *Document {
	d := &Document{
		width:          DefaultWidth,
		height:         DefaultHeight,
		scrollbarWidth: layout.DefaultScrollbarWidth,
		maxUndoEntries: DefaultMaxUndoEntries,
		props:          style.DefaultProps(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.shaper == nil {
		d.cache = shaping.NewCache(nil)
		d.shaper = d.cache
	}
	d.builder = layout.NewBuilder(d.shaper, d.width, d.height)
	d.builder.SetScrollbarWidth(d.scrollbarWidth)
	d.builder.SetSingleLine(d.singleLine)
	d.history = history.NewHistory(d.maxUndoEntries)
	d.sel = cursor.NewState(0)
	d.buf = buffer.NewBuffer()
	d.setContent(d.prepare(d.initContent))
	return d
}

// NewFromReader creates a Document from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.Load(r); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Close releases layout resources. The document must not be used after.
func (d *Document) Close() error {
	d.builder.Close()
	if d.cache != nil {
		return d.cache.Close()
	}
	return nil
}

// ============================================================================
// Whole-document operations
// ============================================================================

// Reset empties the document and its history.
func (d *Document) Reset() {
	d.setContent("")
	d.history.Clear()
}

// Load replaces the document with the text read from r and clears history.
// Line endings are normalised to LF and the text to NFC.
func (d *Document) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if !utf8.Valid(data) {
		logger.Warnf("load document: invalid UTF-8 replaced")
		data = []byte(strings.ToValidUTF8(string(data), string(utf8.RuneError)))
	}
	d.setContent(d.prepare(norm.NFC.String(string(data))))
	d.history.Clear()
	return nil
}

// SetText replaces the whole text with one range in the base style.
// It can be undone.
func (d *Document) SetText(s string) error {
	if d.readOnly {
		return ErrReadOnly
	}
	d.checkpoint(LabelSetText)
	d.setContent(d.prepare(s))
	return nil
}

func (d *Document) setContent(s string) {
	d.buf.SetText(s)
	d.ranges = style.NewList(d.buf.Len(), d.props)
	d.sel.Set(0, 0)
	d.builder.MarkAll(dirty.ChangeReset)
}

// prepare normalises line endings; single-line documents get spaces.
func (d *Document) prepare(s string) string {
	s = buffer.NormalizeLineEndings(s)
	if d.singleLine {
		s = strings.Map(func(r rune) rune {
			if buffer.IsBreak(r) {
				return ' '
			}
			return r
		}, s)
	}
	return s
}

// ============================================================================
// Read operations
// ============================================================================

// Text returns the full document text.
func (d *Document) Text() string {
	return d.buf.Text()
}

// TextRange returns the text in [start, end).
func (d *Document) TextRange(start, end int) (string, error) {
	return d.buf.TextRange(start, end)
}

// Len returns the number of characters.
func (d *Document) Len() int {
	return d.buf.Len()
}

// Paragraphs returns the number of paragraphs.
func (d *Document) Paragraphs() int {
	return d.buf.Paragraphs()
}

// Ranges returns a copy of the styled ranges.
func (d *Document) Ranges() []Range {
	return d.ranges.Ranges()
}

// RangeCount returns the number of styled ranges.
func (d *Document) RangeCount() int {
	return d.ranges.Len()
}

// PropsAt returns the properties of the character at offset, or of the
// character before it when preferPrev is set.
func (d *Document) PropsAt(offset int, preferPrev bool) Props {
	i, _ := d.ranges.Locate(offset, preferPrev)
	return d.ranges.At(i).Props
}

// IsReadOnly reports whether edits are rejected.
func (d *Document) IsReadOnly() bool {
	return d.readOnly
}

// SingleLine reports whether the document is laid out on one line.
func (d *Document) SingleLine() bool {
	return d.singleLine
}

// Check verifies the range partition and, when layout is clean, the
// segment coverage of the text.
func (d *Document) Check() error {
	if err := d.ranges.Validate(d.buf.Len()); err != nil {
		return err
	}
	if d.builder.IsDirty() {
		return nil
	}
	segs := d.builder.Segments()
	if got := segs.Consumed(); got != d.buf.Len() {
		return fmt.Errorf("segments cover %d characters, text has %d", got, d.buf.Len())
	}
	for i := 1; i < segs.Len(); i++ {
		if segs.At(i).Start <= segs.At(i-1).Start {
			return fmt.Errorf("segment %d starts at %d, not after %d", i, segs.At(i).Start, segs.At(i-1).Start)
		}
	}
	return nil
}

// ============================================================================
// Selection
// ============================================================================

// Selection returns the current selection.
func (d *Document) Selection() Selection {
	return d.sel.Selection()
}

// SetSelection sets the anchor and active offsets.
func (d *Document) SetSelection(anchor, active int) error {
	n := d.buf.Len()
	if anchor < 0 || anchor > n || active < 0 || active > n {
		return fmt.Errorf("%w: selection %d->%d in %d", ErrOffsetOutOfRange, anchor, active, n)
	}
	d.sel.Set(anchor, active)
	return nil
}

// SelectAll selects the whole document.
func (d *Document) SelectAll() {
	d.sel.Set(0, d.buf.Len())
}

// MoveCaret moves the active end by delta characters, clamped to the
// document. With extend the anchor stays put. Line break pairs and
// grapheme clusters are stepped over whole.
func (d *Document) MoveCaret(delta int, extend bool) {
	active := d.sel.Active.Offset
	for ; delta > 0 && active < d.buf.Len(); delta-- {
		active += d.clusterAfter(active)
	}
	for ; delta < 0 && active > 0; delta++ {
		active -= d.clusterBefore(active)
	}
	anchor := active
	if extend {
		anchor = d.sel.Anchor.Offset
	}
	d.sel.Set(anchor, active)
}

// Endpoints resolves and returns the anchor and active endpoints with
// their cached range and segment indices.
func (d *Document) Endpoints() (anchor, active cursor.Endpoint, err error) {
	err = d.Layout()
	d.sel.Resolve(d.ranges, d.builder.Segments())
	return d.sel.Anchor, d.sel.Active, err
}

// clusterBefore returns the length of the grapheme cluster ending at offset.
func (d *Document) clusterBefore(offset int) int {
	text := d.buf.Runes()
	from := max(offset-maxClusterRunes, 0)
	if b := buffer.TrailingBreakLen(text, from, offset); b > 0 {
		return b
	}
	s := string(text[from:offset])
	last := 1
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		last = utf8.RuneCountInString(cluster)
	}
	return last
}

// clusterAfter returns the length of the grapheme cluster starting at offset.
func (d *Document) clusterAfter(offset int) int {
	text := d.buf.Runes()
	if b := buffer.BreakLen(text, offset); b > 0 {
		return b
	}
	to := min(offset+maxClusterRunes, len(text))
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(text[offset:to]), -1)
	return max(utf8.RuneCountInString(cluster), 1)
}

// maxClusterRunes bounds the context scanned for one grapheme cluster.
const maxClusterRunes = 32

// ============================================================================
// Edit operations
// ============================================================================

// Insert inserts s at offset. The new text takes the style of the text
// before it within the same paragraph, otherwise of the text after it.
// The caret moves to the end of the insertion.
func (d *Document) Insert(offset int, s string) error {
	return d.replace(offset, offset, s, style.Unchanged(), LabelInsert)
}

// InsertWithProps inserts s at offset like Insert, then applies p over the
// new text. Sentinel fields of p keep the inherited style.
func (d *Document) InsertWithProps(offset int, s string, p Props) error {
	return d.replace(offset, offset, s, p, LabelInsert)
}

// TypeWithProps replaces the selection with s styled by p over the
// inherited style.
func (d *Document) TypeWithProps(s string, p Props) error {
	sel := d.sel.Selection()
	return d.replace(sel.Start(), sel.End(), s, p, LabelTyping)
}

// Type replaces the selection with s.
func (d *Document) Type(s string) error {
	sel := d.sel.Selection()
	return d.replace(sel.Start(), sel.End(), s, style.Unchanged(), LabelTyping)
}

// Paste replaces the selection with s, which may span paragraphs.
func (d *Document) Paste(s string) error {
	sel := d.sel.Selection()
	return d.replace(sel.Start(), sel.End(), s, style.Unchanged(), LabelPaste)
}

// InsertBreak replaces the selection with a paragraph break.
func (d *Document) InsertBreak() error {
	sel := d.sel.Selection()
	return d.replace(sel.Start(), sel.End(), "\n", style.Unchanged(), LabelBreak)
}

// Delete removes [start, end). The caret moves to start.
func (d *Document) Delete(start, end int) error {
	return d.replace(start, end, "", style.Unchanged(), LabelDelete)
}

// DeleteSelection removes the selected text.
func (d *Document) DeleteSelection() error {
	sel := d.sel.Selection()
	if sel.IsEmpty() {
		return nil
	}
	return d.replace(sel.Start(), sel.End(), "", style.Unchanged(), LabelDelete)
}

// Backspace removes the selection, or the grapheme cluster before the
// caret. At the start of the document it does nothing.
func (d *Document) Backspace() error {
	sel := d.sel.Selection()
	if !sel.IsEmpty() {
		return d.replace(sel.Start(), sel.End(), "", style.Unchanged(), LabelBackspace)
	}
	if sel.Active == 0 {
		return nil
	}
	return d.replace(sel.Active-d.clusterBefore(sel.Active), sel.Active, "", style.Unchanged(), LabelBackspace)
}

// DeleteForward removes the selection, or the grapheme cluster after the
// caret.
func (d *Document) DeleteForward() error {
	sel := d.sel.Selection()
	if !sel.IsEmpty() {
		return d.replace(sel.Start(), sel.End(), "", style.Unchanged(), LabelDelete)
	}
	if sel.Active >= d.buf.Len() {
		return nil
	}
	return d.replace(sel.Active, sel.Active+d.clusterAfter(sel.Active), "", style.Unchanged(), LabelDelete)
}

// Format applies p over [start, end). Sentinel fields of p leave the
// existing properties alone.
func (d *Document) Format(start, end int, p Props) error {
	if err := d.checkEdit(start, end); err != nil {
		return err
	}
	if start == end || p.IsUnchanged() {
		return nil
	}
	d.flushLayout()
	d.checkpoint(LabelFormat)

	before := d.ranges.Len()
	d.ranges.Apply(start, end, p)
	d.ranges.CleanUp()
	d.builder.Invalidate(d.buf.Runes(), d.ranges, layout.Edit{
		Kind:       dirty.ChangeStyle,
		Start:      start,
		End:        end,
		RangeDelta: d.ranges.Len() - before,
	})
	d.sel.Invalidate()
	return nil
}

// FormatSelection applies p over the selection.
func (d *Document) FormatSelection(p Props) error {
	sel := d.sel.Selection()
	return d.Format(sel.Start(), sel.End(), p)
}

func (d *Document) checkEdit(start, end int) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if start < 0 || end > d.buf.Len() {
		return fmt.Errorf("%w: [%d:%d) in %d", ErrOffsetOutOfRange, start, end, d.buf.Len())
	}
	if end < start {
		return fmt.Errorf("%w: [%d:%d)", ErrRangeInvalid, start, end)
	}
	return nil
}

// replace is the single mutation path for text edits. Fields of p that
// are not sentinels override the style the new text inherits.
func (d *Document) replace(start, end int, s string, p Props, label string) error {
	if err := d.checkEdit(start, end); err != nil {
		return err
	}
	s = d.prepare(s)
	n := utf8.RuneCountInString(s)
	if start == end && n == 0 {
		return nil
	}
	d.flushLayout()
	d.checkpoint(label)

	before := d.ranges.Len()
	if end > start {
		d.ranges.Delete(start, end)
		if _, err := d.buf.Delete(start, end); err != nil {
			return err
		}
	}
	if n > 0 {
		inherit := start > 0 && !buffer.AfterBreak(d.buf.Runes(), start)
		d.ranges.InsertWithProps(start, start+n, p, inherit)
		if _, err := d.buf.Insert(start, s); err != nil {
			return err
		}
	}
	d.splitParagraphs(start, start+n)

	ct := dirty.ChangeReplace
	switch {
	case end == start:
		ct = dirty.ChangeInsert
	case n == 0:
		ct = dirty.ChangeDelete
	}
	d.builder.Invalidate(d.buf.Runes(), d.ranges, layout.Edit{
		Kind:       ct,
		Start:      start,
		End:        end,
		Delta:      n - (end - start),
		RangeDelta: d.ranges.Len() - before,
	})
	d.sel.Set(start+n, start+n)
	return nil
}

// splitParagraphs opens a range after every break in [from, to) and
// refreshes the paragraph-start flags.
func (d *Document) splitParagraphs(from, to int) {
	text := d.buf.Runes()
	for i := from; i < to; i++ {
		if l := buffer.BreakLen(text, i); l > 0 {
			d.ranges.Boundary(i + l)
			i += l - 1
		}
	}
	d.ranges.MarkParagraphs(func(offset int) bool { return buffer.AfterBreak(text, offset) })
	d.ranges.CleanUp()
}

// flushLayout brings layout up to date so that dirty marks for the next
// edit refer to current segments. Truncation was already reported.
func (d *Document) flushLayout() {
	if err := d.Layout(); err != nil && !errors.Is(err, ErrTruncated) {
		logger.Errorf("layout before edit: %v", err)
	}
}

// ============================================================================
// History
// ============================================================================

func (d *Document) snapshot(label string) *history.Record {
	sel := d.sel.Selection()
	return history.NewRecord(label, d.buf.Runes(), sel.Anchor, sel.Active, d.ranges.Ranges())
}

func (d *Document) checkpoint(label string) {
	d.history.Checkpoint(d.snapshot(label))
}

func (d *Document) restore(rec *history.Record) {
	d.buf.SetRunes(rec.Runes())
	d.ranges = style.FromRanges(rec.Ranges())
	d.sel.Set(rec.Anchor(), rec.Active())
	d.builder.MarkAll(dirty.ChangeReplace)
}

// Undo restores the state before the last edit.
func (d *Document) Undo() error {
	if d.readOnly {
		return ErrReadOnly
	}
	info, ok := d.history.PeekUndo()
	if !ok {
		return ErrNothingToUndo
	}
	rec, err := d.history.Undo(d.snapshot(info.Description))
	if err != nil {
		return err
	}
	d.restore(rec)
	return nil
}

// Redo re-applies the last undone edit.
func (d *Document) Redo() error {
	if d.readOnly {
		return ErrReadOnly
	}
	info, ok := d.history.PeekRedo()
	if !ok {
		return ErrNothingToRedo
	}
	rec, err := d.history.Redo(d.snapshot(info.Description))
	if err != nil {
		return err
	}
	d.restore(rec)
	return nil
}

// CanUndo returns true if undo is available.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// UndoCount returns the number of undo records.
func (d *Document) UndoCount() int {
	return d.history.UndoCount()
}

// RedoCount returns the number of redo records.
func (d *Document) RedoCount() int {
	return d.history.RedoCount()
}

// SetMaxUndoEntries changes the undo depth, dropping the oldest records.
func (d *Document) SetMaxUndoEntries(n int) {
	d.history.SetMaxEntries(n)
}

// ============================================================================
// Layout
// ============================================================================

// Layout rebuilds dirty segments. A *TruncatedError leaves a complete,
// usable layout.
func (d *Document) Layout() error {
	if !d.builder.IsDirty() {
		return nil
	}
	err := d.builder.Rebuild(d.buf.Runes(), d.ranges)
	d.sel.Invalidate()
	return err
}

// Segments lays out the document and returns its segments.
func (d *Document) Segments() (*segment.List, error) {
	err := d.Layout()
	return d.builder.Segments(), err
}

// Bounds returns the pending dirty bounds.
func (d *Document) Bounds() dirty.Bounds {
	return d.builder.Bounds()
}

// LayoutStats returns layout counters.
func (d *Document) LayoutStats() layout.Stats {
	return d.builder.Stats()
}

// Resize changes the layout area.
func (d *Document) Resize(width, height int) {
	d.width, d.height = width, height
	d.builder.SetSize(width, height)
}

// Size returns the layout area.
func (d *Document) Size() (width, height int) {
	return d.width, d.height
}

// ContentHeight lays out the document and returns its height.
func (d *Document) ContentHeight() (int, error) {
	err := d.Layout()
	return d.builder.ContentHeight(), err
}

// ScrollbarVisible reports whether the layout reserves a scrollbar.
func (d *Document) ScrollbarVisible() bool {
	return d.builder.ScrollbarVisible()
}

// CaretRect returns the one-pixel-wide caret rectangle at offset.
func (d *Document) CaretRect(offset int, preferPrev bool) (image.Rectangle, error) {
	err := d.Layout()
	if err != nil && !errors.Is(err, ErrTruncated) {
		return image.Rectangle{}, err
	}
	offset = min(max(offset, 0), d.buf.Len())
	segs := d.builder.Segments()
	i := cursor.SegmentAt(segs, offset, preferPrev)
	if i < 0 {
		return image.Rect(0, 0, 1, 0), err
	}
	s := segs.At(i)
	x := s.X(min(max(offset, s.Start), s.VisibleStop()))
	return image.Rect(x, s.LineTop, x+1, s.LineTop+s.LineHeight), err
}

// OffsetAt returns the offset nearest to a point in document pixels and
// whether it associates with the segment ending there.
func (d *Document) OffsetAt(pt image.Point) (offset int, preferPrev bool, err error) {
	err = d.Layout()
	if err != nil && !errors.Is(err, ErrTruncated) {
		return 0, false, err
	}
	segs := d.builder.Segments()
	if segs.Len() == 0 {
		return 0, false, err
	}

	// Find the line under pt.Y, clamping to the first and last lines.
	idx := segs.Len() - 1
	for i, s := range segs.All() {
		if pt.Y < s.LineTop+s.LineHeight {
			idx = i
			break
		}
	}
	first, last := segs.LineStart(idx), segs.LineEnd(idx)

	target := segs.At(last)
	for i := first; i <= last; i++ {
		if pt.X < segs.At(i).Rect.Max.X {
			target = segs.At(i)
			break
		}
	}
	offset = target.Start
	if run := target.Run(); run != nil {
		offset += run.Index(pt.X - target.Left())
	}
	offset = min(offset, target.VisibleStop())

	end := segs.At(last)
	preferPrev = offset == end.Stop && end.Break == 0 && last+1 < segs.Len()
	return offset, preferPrev, err
}

// ScrollToCaret sizes v to the content and scrolls it to keep the caret
// visible. It reports whether v moved.
func (d *Document) ScrollToCaret(v *viewport.Viewport) (bool, error) {
	rect, err := d.CaretRect(d.sel.Active.Offset, d.sel.Active.PreferPrev)
	if err != nil && !errors.Is(err, ErrTruncated) {
		return false, err
	}
	width := 0
	for _, s := range d.builder.Segments().All() {
		width = max(width, s.Rect.Max.X)
	}
	v.SetContentSize(width, d.builder.ContentHeight())
	return v.EnsureVisible(rect), err
}

// SetCaretAt moves the caret to the offset under a point, or extends the
// selection there.
func (d *Document) SetCaretAt(pt image.Point, extend bool) error {
	offset, preferPrev, err := d.OffsetAt(pt)
	if err != nil && !errors.Is(err, ErrTruncated) {
		return err
	}
	anchor := offset
	if extend {
		anchor = d.sel.Anchor.Offset
	}
	d.sel.Set(anchor, offset)
	d.sel.Active.PreferPrev = preferPrev
	return nil
}
