package shaping

import (
	"golang.org/x/image/math/fixed"

	"github.com/dshills/inkwell/internal/assert"
)

const component = "shaping"

// Tracker counts live handles.
type Tracker struct {
	runs    int
	sources int
}

// Live returns the number of unreleased runs and text sources.
func (t *Tracker) Live() (runs, sources int) {
	return t.runs, t.sources
}

// Metrics are vertical font metrics in pixels.
type Metrics struct {
	Ascent  int
	Descent int
	Height  int
}

// Run is the geometry of one shaped span.
type Run struct {
	advances []fixed.Int26_6 // pen position at each character boundary
	width    int
	metrics  Metrics
	owner    *Tracker
	released bool
}

// NewRun creates a run from cumulative pen positions; advances[0] must be
// zero and len(advances) is the span length plus one.
func NewRun(owner *Tracker, advances []fixed.Int26_6, m Metrics) *Run {
	if len(advances) == 0 {
		advances = []fixed.Int26_6{0}
	}
	if owner != nil {
		owner.runs++
	}
	return &Run{
		advances: advances,
		width:    advances[len(advances)-1].Ceil(),
		metrics:  m,
		owner:    owner,
	}
}

// Len returns the number of characters in the run.
func (r *Run) Len() int {
	return len(r.advances) - 1
}

// Width returns the run width in pixels.
func (r *Run) Width() int {
	return r.width
}

// Metrics returns the font metrics the run was shaped with.
func (r *Run) Metrics() Metrics {
	return r.metrics
}

// X returns the pixel offset of character boundary i.
func (r *Run) X(i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(r.advances) {
		return r.width
	}
	return r.advances[i].Round()
}

// Index returns the character boundary nearest to pixel offset x.
func (r *Run) Index(x int) int {
	if x <= 0 {
		return 0
	}
	fx := fixed.I(x)
	for i := 1; i < len(r.advances); i++ {
		if fx < r.advances[i] {
			mid := (r.advances[i-1] + r.advances[i]) / 2
			if fx < mid {
				return i - 1
			}
			return i
		}
	}
	return r.Len()
}

// Released reports whether Release has run.
func (r *Run) Released() bool {
	return r.released
}

// Release returns the run to its owner. A second call is a violation.
func (r *Run) Release() {
	if r.released {
		assert.Violation(component, "run released twice")
		return
	}
	r.released = true
	if r.owner != nil {
		r.owner.runs--
	}
}

// TextSource holds the characters a run was shaped from.
type TextSource struct {
	runes    []rune
	owner    *Tracker
	released bool
}

// NewTextSource copies text into a new source handle.
func NewTextSource(owner *Tracker, text []rune) *TextSource {
	if owner != nil {
		owner.sources++
	}
	return &TextSource{runes: append([]rune(nil), text...), owner: owner}
}

// Text returns the source characters.
func (s *TextSource) Text() string {
	return string(s.runes)
}

// Len returns the number of characters.
func (s *TextSource) Len() int {
	return len(s.runes)
}

// Released reports whether Release has run.
func (s *TextSource) Released() bool {
	return s.released
}

// Release returns the source to its owner. A second call is a violation.
func (s *TextSource) Release() {
	if s.released {
		assert.Violation(component, "text source released twice")
		return
	}
	s.released = true
	s.runes = nil
	if s.owner != nil {
		s.owner.sources--
	}
}
