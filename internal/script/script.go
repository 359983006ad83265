// Package script replays JSON edit scripts against a document and dumps
// the resulting text, styles and layout as JSON.
//
// A script looks like:
//
//	{
//	  "text": "Hello World",
//	  "width": 320,
//	  "ops": [
//	    {"op": "select", "anchor": 5, "active": 5},
//	    {"op": "type", "text": "!", "foreground": "#c00"},
//	    {"op": "format", "start": 0, "end": 5, "bold": true, "size": 20},
//	    {"op": "undo"}
//	  ]
//	}
package script

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/engine/style"
)

// Errors returned while parsing scripts.
var (
	ErrInvalidJSON = errors.New("invalid JSON")
	ErrUnknownOp   = errors.New("unknown op")
	ErrMissingArg  = errors.New("missing argument")
)

// Kind names a script operation.
type Kind string

// Script operations.
const (
	OpInsert        Kind = "insert"
	OpType          Kind = "type"
	OpPaste         Kind = "paste"
	OpBreak         Kind = "break"
	OpDelete        Kind = "delete"
	OpBackspace     Kind = "backspace"
	OpDeleteForward Kind = "delete_forward"
	OpFormat        Kind = "format"
	OpSelect        Kind = "select"
	OpSelectAll     Kind = "select_all"
	OpMove          Kind = "move"
	OpUndo          Kind = "undo"
	OpRedo          Kind = "redo"
	OpResize        Kind = "resize"
	OpSetText       Kind = "set_text"
)

// required lists the arguments each operation needs.
var required = map[Kind][]string{
	OpInsert:        {"offset", "text"},
	OpType:          {"text"},
	OpPaste:         {"text"},
	OpBreak:         nil,
	OpDelete:        {"start", "end"},
	OpBackspace:     nil,
	OpDeleteForward: nil,
	OpFormat:        {"start", "end"},
	OpSelect:        {"anchor", "active"},
	OpSelectAll:     nil,
	OpMove:          {"delta"},
	OpUndo:          nil,
	OpRedo:          nil,
	OpResize:        {"width", "height"},
	OpSetText:       {"text"},
}

// Op is one scripted edit.
type Op struct {
	Kind   Kind
	Text   string
	Offset int
	Start  int
	End    int
	Anchor int
	Active int
	Delta  int
	Extend bool
	Width  int
	Height int
	Props  style.Props
}

// Script is a parsed edit script.
type Script struct {
	Text    string
	HasText bool
	Width   int
	Height  int
	Ops     []Op
}

// Parse decodes a JSON edit script.
func Parse(data []byte) (*Script, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: script must be an object", ErrInvalidJSON)
	}

	s := &Script{}
	if t := root.Get("text"); t.Exists() {
		s.Text, s.HasText = t.String(), true
	}
	s.Width = int(root.Get("width").Int())
	s.Height = int(root.Get("height").Int())

	var err error
	root.Get("ops").ForEach(func(key, value gjson.Result) bool {
		var op Op
		op, err = parseOp(value)
		if err != nil {
			err = fmt.Errorf("op %d: %w", key.Int(), err)
			return false
		}
		s.Ops = append(s.Ops, op)
		return true
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func parseOp(v gjson.Result) (Op, error) {
	op := Op{Kind: Kind(v.Get("op").String())}
	args, ok := required[op.Kind]
	if !ok {
		return op, fmt.Errorf("%w %q", ErrUnknownOp, op.Kind)
	}
	for _, name := range args {
		if !v.Get(name).Exists() {
			return op, fmt.Errorf("%w %q for %s", ErrMissingArg, name, op.Kind)
		}
	}

	op.Text = v.Get("text").String()
	op.Offset = int(v.Get("offset").Int())
	op.Start = int(v.Get("start").Int())
	op.End = int(v.Get("end").Int())
	op.Anchor = int(v.Get("anchor").Int())
	op.Active = int(v.Get("active").Int())
	op.Delta = int(v.Get("delta").Int())
	op.Extend = v.Get("extend").Bool()
	op.Width = int(v.Get("width").Int())
	op.Height = int(v.Get("height").Int())

	switch op.Kind {
	case OpFormat, OpInsert, OpType:
		p, err := parseProps(v)
		if err != nil {
			return op, err
		}
		op.Props = p
	}
	return op, nil
}

// parseProps reads a style update for format, insert and type. Absent
// fields leave the text alone, or the inherited style for inserted text;
// bold or italic without a font keep the default family.
func parseProps(v gjson.Result) (style.Props, error) {
	p := style.Unchanged()
	font, bold, italic := v.Get("font"), v.Get("bold"), v.Get("italic")
	if font.Exists() || bold.Exists() || italic.Exists() {
		family := font.String()
		if family == "" {
			family = style.DefaultFamily
		}
		p.Font = style.Font{Family: family, Bold: bold.Bool(), Italic: italic.Bool()}
	}
	if size := v.Get("size"); size.Exists() {
		if size.Float() <= 0 {
			return p, fmt.Errorf("size %v must be positive", size.Float())
		}
		p.Size = size.Float()
	}
	for _, c := range []struct {
		name string
		dst  *style.Color
	}{
		{"foreground", &p.Foreground},
		{"background", &p.Background},
	} {
		if r := v.Get(c.name); r.Exists() {
			col, err := style.ParseColor(r.String())
			if err != nil {
				return p, fmt.Errorf("%s: %w", c.name, err)
			}
			*c.dst = col
		}
	}
	return p, nil
}

// Options returns document options for the script's initial state.
func (s *Script) Options() []engine.Option {
	var opts []engine.Option
	if s.HasText {
		opts = append(opts, engine.WithContent(s.Text))
	}
	if w, h, ok := s.size(engine.DefaultWidth, engine.DefaultHeight); ok {
		opts = append(opts, engine.WithSize(w, h))
	}
	return opts
}

// Resize applies the script's layout size to d. A dimension the script
// leaves out keeps its current value.
func (s *Script) Resize(d *engine.Document) {
	if w, h, ok := s.size(d.Size()); ok {
		d.Resize(w, h)
	}
}

// size overrides width and height with the script's positive dimensions
// and reports whether it set any.
func (s *Script) size(width, height int) (int, int, bool) {
	if s.Width > 0 {
		width = s.Width
	}
	if s.Height > 0 {
		height = s.Height
	}
	return width, height, s.Width > 0 || s.Height > 0
}

// Apply runs every op against d, stopping at the first error.
func (s *Script) Apply(d *engine.Document) error {
	for i, op := range s.Ops {
		if err := op.Apply(d); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

// Apply runs the op against d.
func (op Op) Apply(d *engine.Document) error {
	switch op.Kind {
	case OpInsert:
		return d.InsertWithProps(op.Offset, op.Text, op.Props)
	case OpType:
		return d.TypeWithProps(op.Text, op.Props)
	case OpPaste:
		return d.Paste(op.Text)
	case OpBreak:
		return d.InsertBreak()
	case OpDelete:
		return d.Delete(op.Start, op.End)
	case OpBackspace:
		return d.Backspace()
	case OpDeleteForward:
		return d.DeleteForward()
	case OpFormat:
		return d.Format(op.Start, op.End, op.Props)
	case OpSelect:
		return d.SetSelection(op.Anchor, op.Active)
	case OpSelectAll:
		d.SelectAll()
	case OpMove:
		d.MoveCaret(op.Delta, op.Extend)
	case OpUndo:
		return d.Undo()
	case OpRedo:
		return d.Redo()
	case OpResize:
		d.Resize(op.Width, op.Height)
	case OpSetText:
		return d.SetText(op.Text)
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, op.Kind)
	}
	return nil
}
