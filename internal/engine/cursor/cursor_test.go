package cursor

import (
	"testing"

	"github.com/dshills/inkwell/internal/engine/style"
	"github.com/dshills/inkwell/internal/renderer/segment"
)

func TestSelectionBasics(t *testing.T) {
	tests := []struct {
		name             string
		sel              Selection
		empty            bool
		start, end, size int
		backward         bool
		str              string
	}{
		{"caret", NewCaret(4), true, 4, 4, 0, false, "Caret(4)"},
		{"forward", NewSelection(2, 7), false, 2, 7, 5, false, "Selection(2->7)"},
		{"backward", NewSelection(7, 2), false, 2, 7, 5, true, "Selection(7->2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.sel.Start(); got != tt.start {
				t.Errorf("Start() = %d, want %d", got, tt.start)
			}
			if got := tt.sel.End(); got != tt.end {
				t.Errorf("End() = %d, want %d", got, tt.end)
			}
			if got := tt.sel.Len(); got != tt.size {
				t.Errorf("Len() = %d, want %d", got, tt.size)
			}
			if got := tt.sel.IsBackward(); got != tt.backward {
				t.Errorf("IsBackward() = %v, want %v", got, tt.backward)
			}
			if got := tt.sel.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if r := tt.sel.Range(); r.Start != tt.start || r.End != tt.end {
				t.Errorf("Range() = %v, want [%d:%d)", r, tt.start, tt.end)
			}
		})
	}
}

func TestSelectionMoves(t *testing.T) {
	s := NewSelection(3, 5)
	if got := s.Extend(9); got != NewSelection(3, 9) {
		t.Errorf("Extend(9) = %v", got)
	}
	if got := s.MoveTo(1); got != NewCaret(1) {
		t.Errorf("MoveTo(1) = %v", got)
	}
	if got := s.Collapse(); got != NewCaret(5) {
		t.Errorf("Collapse() = %v", got)
	}
	if got := NewSelection(-2, 40).Clamp(10); got != NewSelection(0, 10) {
		t.Errorf("Clamp(10) = %v", got)
	}
}

// segs builds a list from [start, stop, break] triples.
func segs(spans ...[3]int) *segment.List {
	l := &segment.List{}
	for i, sp := range spans {
		s := segment.New(0, sp[0], sp[1], nil, nil)
		s.Break = sp[2]
		s.Line = i
		l.Append(s)
	}
	return l
}

func TestSegmentAt(t *testing.T) {
	// "Hello wide\nworld\n" wrapped after "Hello ", trailing empty paragraph.
	list := segs([3]int{0, 6, 0}, [3]int{6, 11, 1}, [3]int{11, 17, 1}, [3]int{17, 17, 0})
	tests := []struct {
		name       string
		offset     int
		preferPrev bool
		want       int
	}{
		{"start", 0, false, 0},
		{"start prefer prev", 0, true, 0},
		{"inside", 3, false, 0},
		{"wrap boundary", 6, false, 1},
		{"wrap boundary prefer prev", 6, true, 0},
		{"before break", 10, false, 1},
		{"after break", 11, false, 2},
		{"after break prefer prev", 11, true, 2},
		{"trailing empty paragraph", 17, true, 3},
		{"past end", 40, false, 3},
		{"negative", -3, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentAt(list, tt.offset, tt.preferPrev); got != tt.want {
				t.Errorf("SegmentAt(%d, %v) = %d, want %d", tt.offset, tt.preferPrev, got, tt.want)
			}
		})
	}
}

func TestSegmentAtEmpty(t *testing.T) {
	if got := SegmentAt(&segment.List{}, 0, false); got != -1 {
		t.Errorf("SegmentAt(empty) = %d, want -1", got)
	}
}

func TestEndpointResolve(t *testing.T) {
	ranges := style.NewList(11, style.DefaultProps())
	bold := style.Unchanged()
	bold.Font = style.Font{Family: style.DefaultFamily, Bold: true}
	ranges.Apply(0, 5, bold)

	list := segs([3]int{0, 5, 0}, [3]int{5, 11, 0})
	list.At(1).Range = 1

	e := Endpoint{Offset: 7}
	e.Resolve(ranges, list)
	if !e.Valid() {
		t.Fatal("Valid() = false after Resolve")
	}
	if e.Segment != 1 || e.SegmentStart != 5 || e.Range != 1 || e.RangeStart != 5 {
		t.Errorf("Resolve() = seg %d@%d range %d@%d, want seg 1@5 range 1@5",
			e.Segment, e.SegmentStart, e.Range, e.RangeStart)
	}

	// Without layout the style list answers.
	e = Endpoint{Offset: 5, PreferPrev: true}
	e.Resolve(ranges, &segment.List{})
	if e.Segment != -1 || e.Range != 0 || e.RangeStart != 0 {
		t.Errorf("Resolve() without segments = seg %d range %d@%d, want -1, 0@0", e.Segment, e.Range, e.RangeStart)
	}
}

func TestStateResolvesOnlyStaleEndpoints(t *testing.T) {
	ranges := style.NewList(11, style.DefaultProps())
	list := segs([3]int{0, 6, 0}, [3]int{6, 11, 0})

	st := NewState(0)
	st.Set(2, 8)
	st.Resolve(ranges, list)
	if st.Anchor.Segment != 0 || st.Active.Segment != 1 {
		t.Fatalf("Resolve() segments = %d, %d, want 0, 1", st.Anchor.Segment, st.Active.Segment)
	}

	// Move the active endpoint without invalidating the anchor.
	st.Anchor.Segment = 42
	st.Active.Offset = 1
	st.Active.Invalidate()
	st.Resolve(ranges, list)
	if st.Anchor.Segment != 42 {
		t.Errorf("Anchor.Segment = %d, want the untouched cache 42", st.Anchor.Segment)
	}
	if st.Active.Segment != 0 {
		t.Errorf("Active.Segment = %d, want 0", st.Active.Segment)
	}
	if got := st.Selection(); got != NewSelection(2, 1) {
		t.Errorf("Selection() = %v, want Selection(2->1)", got)
	}

	st.SetSelection(NewCaret(3))
	if st.Anchor.Valid() || st.Active.Valid() {
		t.Error("SetSelection() left caches valid")
	}
}
