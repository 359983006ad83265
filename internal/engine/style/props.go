package style

import "fmt"

// SizeUnchanged marks a Props size that an update leaves untouched.
const SizeUnchanged = 0

// Default style values.
const (
	DefaultFamily = "Fixed"
	DefaultSize   = 13
)

// Font describes a typeface. An empty Family means "no change" in an update.
type Font struct {
	Family string
	Bold   bool
	Italic bool
}

// IsZero reports whether the font is the "no change" sentinel.
func (f Font) IsZero() bool {
	return f.Family == ""
}

func (f Font) String() string {
	s := f.Family
	if f.Bold {
		s += " Bold"
	}
	if f.Italic {
		s += " Italic"
	}
	return s
}

// Props is a set of character properties. Used as an update, each field may
// hold its sentinel (empty family, SizeUnchanged, ColorUnchanged) to keep
// the existing value.
type Props struct {
	Font       Font
	Size       float64
	Foreground Color
	Background Color
}

// DefaultProps returns the properties of a fresh document.
func DefaultProps() Props {
	return Props{
		Font:       Font{Family: DefaultFamily},
		Size:       DefaultSize,
		Foreground: Black,
		Background: White,
	}
}

// Unchanged returns an update that changes nothing.
func Unchanged() Props {
	return Props{
		Size:       SizeUnchanged,
		Foreground: ColorUnchanged,
		Background: ColorUnchanged,
	}
}

// IsUnchanged reports whether every field holds its sentinel.
func (p Props) IsUnchanged() bool {
	return p == Unchanged()
}

// Merge returns base with every non-sentinel field of p applied.
func (p Props) Merge(base Props) Props {
	if !p.Font.IsZero() {
		base.Font = p.Font
	}
	if p.Size > SizeUnchanged {
		base.Size = p.Size
	}
	if p.Foreground != ColorUnchanged {
		base.Foreground = p.Foreground
	}
	if p.Background != ColorUnchanged {
		base.Background = p.Background
	}
	return base
}

func (p Props) String() string {
	return fmt.Sprintf("%s %gpt fg=%s bg=%s", p.Font, p.Size, p.Foreground, p.Background)
}

// Range is a run of characters sharing one set of properties.
type Range struct {
	Props
	ParagraphStart bool
	Count          int
}

// SameStyle reports whether both ranges have bit-identical properties.
func (r Range) SameStyle(o Range) bool {
	return r.Props == o.Props
}
