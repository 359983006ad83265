package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/style"
)

const scenario = `{
	"text": "Hello World",
	"ops": [
		{"op": "select", "anchor": 5, "active": 5},
		{"op": "type", "text": "!"},
		{"op": "format", "start": 0, "end": 5, "bold": true, "size": 20},
		{"op": "undo"},
		{"op": "undo"},
		{"op": "select", "anchor": 5, "active": 5},
		{"op": "break"}
	]
}`

func run(t *testing.T, src string) *engine.Document {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d := engine.New(s.Options()...)
	t.Cleanup(func() { d.Close() })
	if err := s.Apply(d); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	return d
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(scenario))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !s.HasText || s.Text != "Hello World" {
		t.Errorf("Text = %q (has %v)", s.Text, s.HasText)
	}
	if len(s.Ops) != 7 {
		t.Fatalf("len(Ops) = %d, want 7", len(s.Ops))
	}
	f := s.Ops[2]
	if f.Kind != OpFormat || !f.Props.Font.Bold || f.Props.Size != 20 {
		t.Errorf("format op = %+v", f)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"not json", `{"ops": [`, ErrInvalidJSON},
		{"not object", `[1, 2]`, ErrInvalidJSON},
		{"unknown op", `{"ops": [{"op": "explode"}]}`, ErrUnknownOp},
		{"missing arg", `{"ops": [{"op": "delete", "start": 1}]}`, ErrMissingArg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseBadColor(t *testing.T) {
	_, err := Parse([]byte(`{"ops": [{"op": "format", "start": 0, "end": 1, "foreground": "zz"}]}`))
	if err == nil {
		t.Error("expected error for bad colour")
	}
}

func TestApplyScenario(t *testing.T) {
	d := run(t, scenario)
	if got := d.Text(); got != "Hello\n World" {
		t.Errorf("Text() = %q", got)
	}
	if d.Paragraphs() != 2 {
		t.Errorf("Paragraphs() = %d, want 2", d.Paragraphs())
	}
}

func TestApplyStopsAtError(t *testing.T) {
	s, err := Parse([]byte(`{"text": "ab", "ops": [{"op": "delete", "start": 0, "end": 9}, {"op": "type", "text": "x"}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d := engine.New(s.Options()...)
	defer d.Close()
	err = s.Apply(d)
	if !errors.Is(err, engine.ErrOffsetOutOfRange) {
		t.Errorf("Apply() error = %v, want ErrOffsetOutOfRange", err)
	}
	if d.Text() != "ab" {
		t.Errorf("Text() = %q, want %q", d.Text(), "ab")
	}
}

func TestDump(t *testing.T) {
	d := run(t, `{"text": "Hello World", "ops": [{"op": "format", "start": 0, "end": 5, "bold": true}]}`)
	out, err := Dump(d)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !gjson.ValidBytes(out) {
		t.Fatalf("Dump() produced invalid JSON: %s", out)
	}
	checks := []struct {
		path string
		want string
	}{
		{"text", "Hello World"},
		{"ranges.#", "2"},
		{"ranges.0.count", "5"},
		{"ranges.0.bold", "true"},
		{"ranges.1.paragraph_start", "false"},
		{"segments.#", "2"},
		{"segments.1.start", "5"},
		{"segments.1.range", "1"},
		{"history.undo", "1"},
		{"selection.active", "0"},
		{"view.top", "0"},
		{"view.caret_visible", "true"},
	}
	for _, c := range checks {
		if got := gjson.GetBytes(out, c.path).String(); got != c.want {
			t.Errorf("%s = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestDumpEmpty(t *testing.T) {
	d := engine.New()
	defer d.Close()
	out, err := Dump(d)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := gjson.GetBytes(out, "segments.#").Int(); got != 1 {
		t.Errorf("segments.# = %d, want 1", got)
	}
	if got := gjson.GetBytes(out, "ranges.0.count").Int(); got != 0 {
		t.Errorf("ranges.0.count = %d, want 0", got)
	}
}

func TestDumpTruncated(t *testing.T) {
	d := engine.New(engine.WithContent("ab"), engine.WithSize(5, 100))
	defer d.Close()
	out, err := Dump(d)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if got := gjson.GetBytes(out, "layout.truncated_paragraphs.0"); !got.Exists() || got.Int() != 0 {
		t.Errorf("truncated_paragraphs = %s, want [0]", gjson.GetBytes(out, "layout.truncated_paragraphs").Raw)
	}
	if !gjson.GetBytes(out, "segments.0.truncated").Bool() {
		t.Error("segment 0 should be truncated")
	}
}

func TestDumpScrollsToCaret(t *testing.T) {
	text := strings.Repeat(`l\n`, 29) + "l"
	d := run(t, `{"text": "`+text+`", "width": 640, "height": 130, "ops": [{"op": "select", "anchor": 59, "active": 59}]}`)
	out, err := Dump(d)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	checks := []struct {
		path string
		want int64
	}{
		{"view.top", 260},
		{"view.first_segment", 20},
		{"view.last_segment", 30},
		{"view.caret.y", 117},
	}
	for _, c := range checks {
		if got := gjson.GetBytes(out, c.path).Int(); got != c.want {
			t.Errorf("%s = %d, want %d", c.path, got, c.want)
		}
	}
	if !gjson.GetBytes(out, "view.caret_visible").Bool() {
		t.Error("view.caret_visible = false, want true")
	}
}

func TestInsertOpProps(t *testing.T) {
	d := run(t, `{"text": "ab", "ops": [
		{"op": "format", "start": 0, "end": 2, "bold": true},
		{"op": "insert", "offset": 1, "text": "X", "foreground": "#ff0000"},
		{"op": "type", "text": "Y", "size": 20}
	]}`)
	if got := d.Text(); got != "aXYb" {
		t.Fatalf("Text() = %q, want %q", got, "aXYb")
	}
	x := d.PropsAt(1, false)
	if x.Foreground != style.Red || !x.Font.Bold {
		t.Errorf("inserted props = %v, want red and inherited bold", x)
	}
	y := d.PropsAt(2, false)
	if y.Size != 20 || y.Foreground != style.Red || !y.Font.Bold {
		t.Errorf("typed props = %v, want size 20 over red bold", y)
	}
	if b := d.PropsAt(3, false); b.Foreground == style.Red || b.Size == 20 {
		t.Errorf("text after the insertion changed: %v", b)
	}
}

func TestOptionsWidthOnly(t *testing.T) {
	d := run(t, `{"text": "Hello World", "width": 60}`)
	w, h := d.Size()
	if w != 60 || h != engine.DefaultHeight {
		t.Errorf("Size() = %dx%d, want 60x%d", w, h, engine.DefaultHeight)
	}
}
