package dirty

import "testing"

func TestChangeTypeString(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeInsert, "insert"},
		{ChangeDelete, "delete"},
		{ChangeReplace, "replace"},
		{ChangeStyle, "style"},
		{ChangeResize, "resize"},
		{ChangeReset, "reset"},
		{ChangeType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestBoundsMark(t *testing.T) {
	b := Clean()
	if b.IsDirty() {
		t.Fatal("Clean().IsDirty() = true")
	}
	b.Mark(ChangeInsert, 2, 4, 3, 0)
	if !b.IsDirty() || b.IsAll() {
		t.Fatalf("after Mark IsDirty=%v IsAll=%v, want true false", b.IsDirty(), b.IsAll())
	}
	keeps := []struct {
		i    int
		want bool
	}{{0, true}, {1, true}, {2, false}, {4, false}, {5, true}}
	for _, tt := range keeps {
		if got := b.Keeps(tt.i); got != tt.want {
			t.Errorf("Keeps(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
	if got, want := b.String(), "insert: [2..4] delta +3 ranges +0"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBoundsToEnd(t *testing.T) {
	b := Clean()
	b.Mark(ChangeDelete, 3, ToEnd, -2, 0)
	if b.Keeps(10) {
		t.Error("Keeps(10) = true, want false")
	}
	if !b.Keeps(2) {
		t.Error("Keeps(2) = false, want true")
	}
}

func TestBoundsSecondMarkWidens(t *testing.T) {
	b := Clean()
	b.Mark(ChangeInsert, 2, 2, 1, 0)
	b.Mark(ChangeDelete, 5, 5, -1, 0)
	if !b.IsAll() {
		t.Errorf("IsAll() = false after two marks, want true")
	}
	if b.Keeps(0) {
		t.Error("Keeps(0) = true during full rebuild")
	}
}

func TestBoundsNegativeFirst(t *testing.T) {
	b := Clean()
	b.Mark(ChangeInsert, -1, 3, 1, 0)
	if !b.IsAll() {
		t.Error("Mark(-1) did not request a full rebuild")
	}
}

func TestBoundsReset(t *testing.T) {
	b := Clean()
	b.MarkAll(ChangeResize)
	if got := b.String(); got != "resize: all" {
		t.Errorf("String() = %q, want %q", got, "resize: all")
	}
	b.Reset()
	if b.IsDirty() || b.String() != "clean" {
		t.Errorf("after Reset IsDirty=%v String=%q", b.IsDirty(), b.String())
	}
}
