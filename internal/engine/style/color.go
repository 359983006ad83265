package style

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a packed 0xRRGGBB value.
type Color int32

// ColorUnchanged marks a Props colour field that an update leaves untouched.
const ColorUnchanged Color = -1

// Common colours.
const (
	Black Color = 0x000000
	White Color = 0xFFFFFF
	Red   Color = 0xFF0000
	Green Color = 0x00FF00
	Blue  Color = 0x0000FF
	Gray  Color = 0x808080
)

// RGB packs 8-bit components into a Color.
func RGB(r, g, b uint8) Color {
	return Color(int32(r)<<16 | int32(g)<<8 | int32(b))
}

// ParseColor parses "#RGB" or "#RRGGBB" (the leading # is optional).
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return ColorUnchanged, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b), nil
}

// RGB255 returns the 8-bit components.
func (c Color) RGB255() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Colorful converts to a go-colorful value.
func (c Color) Colorful() colorful.Color {
	r, g, b := c.RGB255()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Hex formats the colour as "#rrggbb".
func (c Color) Hex() string {
	if c == ColorUnchanged {
		return ""
	}
	return c.Colorful().Hex()
}

// Blend mixes c towards other by t in [0,1] in Lab space.
func (c Color) Blend(other Color, t float64) Color {
	r, g, b := c.Colorful().BlendLab(other.Colorful(), t).Clamped().RGB255()
	return RGB(r, g, b)
}

func (c Color) String() string {
	if c == ColorUnchanged {
		return "unchanged"
	}
	return c.Hex()
}
