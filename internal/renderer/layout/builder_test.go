package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/renderer/dirty"
	"github.com/dshills/inkwell/internal/renderer/segment"
	"github.com/dshills/inkwell/internal/renderer/shaping"
)

// The default Fixed face advances 7px per character with 11/2 ascent/descent.

type span struct {
	start, stop, line int
}

func build(t *testing.T, text string, width, height int) (*Builder, *shaping.Cache, *style.List) {
	t.Helper()
	cache := shaping.NewCache(nil)
	t.Cleanup(func() { cache.Close() })
	b := NewBuilder(cache, width, height)
	t.Cleanup(b.Close)
	runes := []rune(text)
	ranges := style.NewList(len(runes), style.DefaultProps())
	if err := b.Rebuild(runes, ranges); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	return b, cache, ranges
}

func spans(l *segment.List) []span {
	var out []span
	for _, s := range l.All() {
		out = append(out, span{s.Start, s.Stop, s.Line})
	}
	return out
}

func checkSpans(t *testing.T, l *segment.List, want []span) {
	t.Helper()
	got := spans(l)
	if len(got) != len(want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func checkPartition(t *testing.T, l *segment.List, textLen int) {
	t.Helper()
	if got := l.Consumed(); got != textLen {
		t.Errorf("Consumed() = %d, want %d", got, textLen)
	}
	for i := 1; i < l.Len(); i++ {
		if l.At(i).Start <= l.At(i-1).Start {
			t.Errorf("segment %d starts at %d, not after %d", i, l.At(i).Start, l.At(i-1).Start)
		}
	}
}

func TestBuilderLayouts(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []span
	}{
		{"empty", "", 700, []span{{0, 0, 0}}},
		{"single", "Hello", 700, []span{{0, 5, 0}}},
		{"wrap", "Hello World", 60, []span{{0, 6, 0}, {6, 11, 1}}},
		{"paragraphs", "ab\ncd\n", 700, []span{{0, 3, 0}, {3, 6, 1}, {6, 6, 2}}},
		{"empty paragraph", "a\n\nb", 700, []span{{0, 2, 0}, {2, 3, 1}, {3, 4, 2}}},
		{"clip long word", "abcdefghij", 30, []span{{0, 4, 0}, {4, 8, 1}, {8, 10, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, _ := build(t, tt.text, tt.width, 0)
			checkSpans(t, b.Segments(), tt.want)
			checkPartition(t, b.Segments(), len([]rune(tt.text)))
			if b.IsDirty() {
				t.Error("IsDirty() = true after Rebuild")
			}
		})
	}
}

func TestBuilderGeometry(t *testing.T) {
	b, _, _ := build(t, "Hello World", 60, 0)
	segs := b.Segments()
	first, second := segs.At(0), segs.At(1)
	if first.Width != 42 || first.LineHeight != 13 || first.Ascent != 11 {
		t.Errorf("first = width %d height %d ascent %d, want 42 13 11", first.Width, first.LineHeight, first.Ascent)
	}
	if second.LineTop != 13 || second.Rect.Min.Y != 13 || second.Rect.Max.X != 35 {
		t.Errorf("second top %d rect %v, want top 13 rect (0,13)-(35,26)", second.LineTop, second.Rect)
	}
	if b.ContentHeight() != 26 {
		t.Errorf("ContentHeight() = %d, want 26", b.ContentHeight())
	}
	if first.Break != 0 || !first.ParagraphStart || second.ParagraphStart {
		t.Errorf("flags = break %d ps %v/%v", first.Break, first.ParagraphStart, second.ParagraphStart)
	}
}

func TestBuilderBreakAbsorbed(t *testing.T) {
	b, _, _ := build(t, "ab\ncd", 700, 0)
	s := b.Segments().At(0)
	if s.Break != 1 || s.VisibleStop() != 2 || s.Width != 14 {
		t.Errorf("segment = break %d visible stop %d width %d, want 1 2 14", s.Break, s.VisibleStop(), s.Width)
	}
	if !b.Segments().At(1).ParagraphStart {
		t.Error("segment after break is not a paragraph start")
	}
}

func TestBuilderBaselineAlignment(t *testing.T) {
	cache := shaping.NewCache(nil)
	defer cache.Close()
	b := NewBuilder(cache, 700, 0)
	defer b.Close()

	text := []rune("Hello World")
	ranges := style.NewList(len(text), style.DefaultProps())
	big := style.Unchanged()
	big.Size = 26
	ranges.Apply(0, 5, big)
	if err := b.Rebuild(text, ranges); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	segs := b.Segments()
	if segs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", segs.Len())
	}
	for i, s := range segs.All() {
		if s.Ascent != 22 || s.LineHeight != 26 || s.LineTop != 0 {
			t.Errorf("segment %d ascent %d height %d top %d, want 22 26 0", i, s.Ascent, s.LineHeight, s.LineTop)
		}
	}
	if s := segs.At(1); s.Range != 1 || s.Left() != 70 || s.Descent != 2 {
		t.Errorf("second segment range %d left %d descent %d, want 1 70 2", s.Range, s.Left(), s.Descent)
	}
}

func TestBuilderRetryOnNewLine(t *testing.T) {
	cache := shaping.NewCache(nil)
	defer cache.Close()
	b := NewBuilder(cache, 60, 0)
	defer b.Close()

	text := []rune("HelloWorld")
	ranges := style.NewList(len(text), style.DefaultProps())
	bold := style.Unchanged()
	bold.Font = style.Font{Family: style.DefaultFamily, Bold: true}
	ranges.Apply(0, 5, bold)
	if err := b.Rebuild(text, ranges); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	checkSpans(t, b.Segments(), []span{{0, 5, 0}, {5, 10, 1}})
	// Second range fails beside the first, then fits on a fresh line.
	if got := b.Stats().ShapeCalls; got != 3 {
		t.Errorf("ShapeCalls = %d, want 3", got)
	}
}

func TestBuilderTruncation(t *testing.T) {
	cache := shaping.NewCache(nil)
	defer cache.Close()
	b := NewBuilder(cache, 5, 0)
	defer b.Close()

	text := []rune("ab\ncd")
	ranges := style.NewList(len(text), style.DefaultProps())
	err := b.Rebuild(text, ranges)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Rebuild() error = %v, want ErrTruncated", err)
	}
	var te *TruncatedError
	if !errors.As(err, &te) || len(te.Paragraphs) != 2 || te.Paragraphs[0] != 0 || te.Paragraphs[1] != 1 {
		t.Fatalf("TruncatedError = %+v, want paragraphs [0 1]", te)
	}
	checkSpans(t, b.Segments(), []span{{0, 3, 0}, {3, 5, 1}})
	checkPartition(t, b.Segments(), len(text))
	for i, s := range b.Segments().All() {
		if !s.Truncated || s.Width != 0 || s.Run() != nil {
			t.Errorf("segment %d = %v, want a truncated zero-width segment", i, s)
		}
	}
	if b.IsDirty() {
		t.Error("IsDirty() = true after a truncated rebuild")
	}
}

func TestBuilderScrollbarRestart(t *testing.T) {
	b, _, _ := build(t, "a\nb\nc", 100, 26)
	if !b.ScrollbarVisible() {
		t.Fatal("ScrollbarVisible() = false, want true")
	}
	if got := b.Stats().Restarts; got != 1 {
		t.Errorf("Restarts = %d, want 1", got)
	}
	if got := b.LineWidth(); got != 100-DefaultScrollbarWidth {
		t.Errorf("LineWidth() = %d, want %d", got, 100-DefaultScrollbarWidth)
	}

	text := []rune("a")
	b.MarkAll(dirty.ChangeReset)
	if err := b.Rebuild(text, style.NewList(1, style.DefaultProps())); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if b.ScrollbarVisible() {
		t.Error("ScrollbarVisible() = true after shrinking content")
	}
	if got := b.Stats().Restarts; got != 1 {
		t.Errorf("Restarts = %d, want 1", got)
	}
}

func TestBuilderScrollbarSettlesShown(t *testing.T) {
	// At width 60 "aaaa" and the 26px "BB" share a line and "C" wraps
	// alone: 52px of content. At 44 "BB" wraps and "C" joins it: 39px.
	// Content therefore overflows a 46px area only without the scrollbar.
	text := []rune("aaaaBBC")
	ranges := style.NewList(len(text), style.DefaultProps())
	ranges.Apply(4, 7, style.Props{Size: 26, Foreground: style.ColorUnchanged, Background: style.ColorUnchanged})
	ranges.Apply(6, 7, style.Props{Foreground: style.Red, Background: style.ColorUnchanged})
	cache := shaping.NewCache(nil)
	t.Cleanup(func() { cache.Close() })
	b := NewBuilder(cache, 60, 46)
	t.Cleanup(b.Close)

	for _, name := range []string{"first", "forced"} {
		if name == "forced" {
			b.MarkAll(dirty.ChangeReset)
		}
		if err := b.Rebuild(text, ranges); err != nil {
			t.Fatalf("%s Rebuild() error = %v", name, err)
		}
		if !b.ScrollbarVisible() {
			t.Errorf("%s: ScrollbarVisible() = false, want true", name)
		}
		checkSpans(t, b.Segments(), []span{{0, 4, 0}, {4, 6, 1}, {6, 7, 1}})
		if got := b.ContentHeight(); got != 39 {
			t.Errorf("%s: ContentHeight() = %d, want 39", name, got)
		}
	}
	if got := b.Stats().Restarts; got != 2 {
		t.Errorf("Restarts after forced rebuild = %d, want 2", got)
	}
}

func TestBuilderScrollbarNarrowsLines(t *testing.T) {
	// "aaaaaa bbbbbb" is 91px: it fits 100px but not 84px.
	b, _, _ := build(t, "aaaaaa bbbbbb\nc\nd", 100, 26)
	checkSpans(t, b.Segments(), []span{{0, 7, 0}, {7, 14, 1}, {14, 16, 2}, {16, 17, 3}})
}

func TestBuilderSingleLine(t *testing.T) {
	cache := shaping.NewCache(nil)
	defer cache.Close()
	b := NewBuilder(cache, 30, 10)
	defer b.Close()
	b.SetSingleLine(true)

	text := []rune(strings.Repeat("word ", 50))
	if err := b.Rebuild(text, style.NewList(len(text), style.DefaultProps())); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if b.Segments().Len() != 1 || b.Segments().Lines() != 1 {
		t.Errorf("single line produced %d segments on %d lines", b.Segments().Len(), b.Segments().Lines())
	}
	if b.ScrollbarVisible() {
		t.Error("ScrollbarVisible() = true in single-line mode")
	}
}

func TestBuilderIdempotent(t *testing.T) {
	b, _, ranges := build(t, "Hello World\nsecond paragraph here\n", 60, 0)
	text := []rune("Hello World\nsecond paragraph here\n")
	before := b.Stats().ShapeCalls
	if err := b.Rebuild(text, ranges); err != nil {
		t.Fatal(err)
	}
	if got := b.Stats().ShapeCalls; got != before {
		t.Errorf("clean Rebuild() shaped %d segments", got-before)
	}

	want := spans(b.Segments())
	b.MarkAll(dirty.ChangeReset)
	if err := b.Rebuild(text, ranges); err != nil {
		t.Fatal(err)
	}
	checkSpans(t, b.Segments(), want)
}

func TestBuilderReleasesHandles(t *testing.T) {
	b, cache, ranges := build(t, "one two three four\nfive", 50, 0)
	withRuns := 0
	for _, s := range b.Segments().All() {
		if s.Run() != nil {
			withRuns++
		}
	}
	if runs, srcs := cache.Tracker().Live(); runs != withRuns || srcs != withRuns {
		t.Errorf("Live() = %d, %d, want %d", runs, srcs, withRuns)
	}

	b.MarkAll(dirty.ChangeReset)
	if err := b.Rebuild([]rune("one two three four\nfive"), ranges); err != nil {
		t.Fatal(err)
	}
	if runs, _ := cache.Tracker().Live(); runs != withRuns {
		t.Errorf("Live() runs after full rebuild = %d, want %d", runs, withRuns)
	}
	b.Close()
	if runs, srcs := cache.Tracker().Live(); runs != 0 || srcs != 0 {
		t.Errorf("Live() after Close = %d, %d, want 0, 0", runs, srcs)
	}
}

func TestBuilderResizeMarksDirty(t *testing.T) {
	b, _, _ := build(t, "Hello", 100, 0)
	b.SetSize(100, 0)
	if b.IsDirty() {
		t.Error("SetSize() with the same size marked dirty")
	}
	b.SetSize(50, 0)
	bounds := b.Bounds()
	if !bounds.IsAll() {
		t.Errorf("Bounds() = %v, want a full rebuild", bounds)
	}
}

const para = "lorem ipsum dolor sit amet consectetur"

func TestBuilderIncrementalReuse(t *testing.T) {
	src := strings.Repeat(para+"\n", 20)
	b, cache, ranges := build(t, src, 140, 0)
	full := b.Stats().ShapeCalls
	if full != 40 {
		t.Fatalf("full layout ShapeCalls = %d, want 40", full)
	}

	// Insert one character in paragraph 10, after "lorem ".
	offset := 10*(len(para)+1) + 6
	runes := []rune(src)
	text := append(append(append([]rune(nil), runes[:offset]...), 'x'), runes[offset:]...)
	ranges.Insert(offset, 1, true)
	b.Invalidate(text, ranges, Edit{Kind: dirty.ChangeInsert, Start: offset, End: offset, Delta: 1})
	if err := b.Rebuild(text, ranges); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	st := b.Stats()
	if got := st.ShapeCalls - full; got != 1 {
		t.Errorf("incremental ShapeCalls = %d, want 1", got)
	}
	if st.Reused == 0 || st.Kept != 20 {
		t.Errorf("Stats = %+v, want 20 kept and reuse", st)
	}
	checkPartition(t, b.Segments(), len(text))

	fresh := NewBuilder(cache, 140, 0)
	defer fresh.Close()
	if err := fresh.Rebuild(text, ranges); err != nil {
		t.Fatal(err)
	}
	if fresh.Segments().Len() != b.Segments().Len() {
		t.Fatalf("incremental Len() = %d, full Len() = %d", b.Segments().Len(), fresh.Segments().Len())
	}
	for i, s := range b.Segments().All() {
		if !s.Equal(fresh.Segments().At(i)) {
			t.Errorf("segment %d = %v, full layout has %v", i, s, fresh.Segments().At(i))
		}
	}
}

func TestBuilderIncrementalRewrap(t *testing.T) {
	src := strings.Repeat(para+"\n", 5)
	b, cache, ranges := build(t, src, 140, 0)

	// Deleting "lorem " from paragraph 2 pulls words up a line.
	start := 2 * (len(para) + 1)
	runes := []rune(src)
	text := append(append([]rune(nil), runes[:start]...), runes[start+6:]...)
	ranges.Delete(start, start+6)
	ranges.CleanUp()
	b.Invalidate(text, ranges, Edit{Kind: dirty.ChangeDelete, Start: start, End: start + 6, Delta: -6})
	if err := b.Rebuild(text, ranges); err != nil {
		t.Fatal(err)
	}
	checkPartition(t, b.Segments(), len(text))

	fresh := NewBuilder(cache, 140, 0)
	defer fresh.Close()
	if err := fresh.Rebuild(text, ranges); err != nil {
		t.Fatal(err)
	}
	checkSpans(t, b.Segments(), spans(fresh.Segments()))
	for i, s := range b.Segments().All() {
		if !s.Equal(fresh.Segments().At(i)) {
			t.Errorf("segment %d = %v, full layout has %v", i, s, fresh.Segments().At(i))
		}
	}
}
