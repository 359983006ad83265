// Package viewport holds the scroll position of a laid-out document.
//
// Layout works in document pixels and never reads the viewport; the
// renderer and the caret-following logic pass a *Viewport around
// explicitly.
package viewport

import (
	"image"

	"github.com/dshills/inkwell/internal/renderer/segment"
)

// Viewport represents the visible portion of the document.
type Viewport struct {
	// Position in document pixels (top-left visible point)
	top  int
	left int

	// Size in pixels
	width  int
	height int

	// Scroll margins (keep the caret this far from edges)
	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int

	// Document size limits
	contentWidth  int
	contentHeight int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{}
	v.Resize(width, height)
	v.SetMarginsFromConfig(NoMargins())
	return v
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	return v.height
}

// Top returns the first visible document y.
func (v *Viewport) Top() int {
	return v.top
}

// Left returns the first visible document x.
func (v *Viewport) Left() int {
	return v.left
}

// Bounds returns the visible area in document coordinates.
func (v *Viewport) Bounds() image.Rectangle {
	return image.Rect(v.left, v.top, v.left+v.width, v.top+v.height)
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clamp()
}

// SetContentSize records the laid-out document size and clamps the scroll
// position to it.
func (v *Viewport) SetContentSize(width, height int) {
	v.contentWidth = max(width, 0)
	v.contentHeight = max(height, 0)
	v.clamp()
}

// SetMargins sets the scroll margins in pixels.
func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.marginTop = top
	v.marginBottom = bottom
	v.marginLeft = left
	v.marginRight = right
}

// Margins returns the current scroll margins.
func (v *Viewport) Margins() (top, bottom, left, right int) {
	return v.marginTop, v.marginBottom, v.marginLeft, v.marginRight
}

// ScrollTo moves the top-left visible point.
func (v *Viewport) ScrollTo(left, top int) {
	v.left, v.top = left, top
	v.clamp()
}

// ScrollBy moves the viewport by a pixel delta.
func (v *Viewport) ScrollBy(dx, dy int) {
	v.ScrollTo(v.left+dx, v.top+dy)
}

func (v *Viewport) clamp() {
	maxTop := max(v.contentHeight-v.height, 0)
	maxLeft := max(v.contentWidth-v.width, 0)
	v.top = min(max(v.top, 0), maxTop)
	v.left = min(max(v.left, 0), maxLeft)
}

// IsVisible reports whether any part of r is visible.
func (v *Viewport) IsVisible(r image.Rectangle) bool {
	return r.Overlaps(v.Bounds()) || (r.Empty() && r.Min.In(v.Bounds()))
}

// ToScreen converts a document point to a viewport point.
func (v *Viewport) ToScreen(p image.Point) image.Point {
	return p.Sub(image.Pt(v.left, v.top))
}

// ToDocument converts a viewport point to a document point.
func (v *Viewport) ToDocument(p image.Point) image.Point {
	return p.Add(image.Pt(v.left, v.top))
}

// EnsureVisible scrolls the minimum distance that brings r, expanded by
// the margins, into view. It reports whether the position changed.
func (v *Viewport) EnsureVisible(r image.Rectangle) bool {
	m := v.effectiveMargins()
	top, left := v.top, v.left

	switch {
	case r.Min.Y-m.Top < v.top:
		v.top = r.Min.Y - m.Top
	case r.Max.Y+m.Bottom > v.top+v.height:
		v.top = r.Max.Y + m.Bottom - v.height
	}
	switch {
	case r.Min.X-m.Left < v.left:
		v.left = r.Min.X - m.Left
	case r.Max.X+m.Right > v.left+v.width:
		v.left = r.Max.X + m.Right - v.width
	}
	v.clamp()
	return top != v.top || left != v.left
}

// VisibleSegments returns the index range [first, last) of segments whose
// lines intersect the viewport.
func (v *Viewport) VisibleSegments(segs *segment.List) (first, last int) {
	first = segs.Len()
	for i, s := range segs.All() {
		if s.LineTop+s.LineHeight <= v.top {
			continue
		}
		if s.LineTop >= v.top+v.height {
			return min(first, i), i
		}
		first = min(first, i)
	}
	return first, segs.Len()
}
