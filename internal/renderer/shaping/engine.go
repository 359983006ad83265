package shaping

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// BreakKind selects where a span may be cut.
type BreakKind uint8

const (
	// NoBreak disables a strategy.
	NoBreak BreakKind = iota
	// WordBreak cuts only at line-break opportunities.
	WordBreak
	// ClipBreak cuts at any grapheme boundary.
	ClipBreak
)

func (k BreakKind) String() string {
	switch k {
	case WordBreak:
		return "word"
	case ClipBreak:
		return "clip"
	default:
		return "none"
	}
}

// TabStop is the width of a tab in spaces.
const TabStop = 4

// MaxWidth bounds request widths so pen positions stay representable.
const MaxWidth = 1 << 24

// Request asks for the longest prefix of text[Start:End] that fits Width.
type Request struct {
	Start     int
	End       int
	Width     int
	Preferred BreakKind
	Fallback  BreakKind
}

// Engine produces segments for one font.
type Engine interface {
	// NextSegment returns the handles for the proposed prefix, or ok=false
	// when no prefix can be produced under the request's strategies.
	NextSegment(text []rune, req Request) (run *Run, src *TextSource, ok bool)
	Metrics() Metrics
}

// FaceEngine implements Engine on a font.Face.
type FaceEngine struct {
	face    font.Face
	owner   *Tracker
	metrics Metrics
	calls   int
}

// NewFaceEngine wraps face. Handles are counted in owner, which may be nil.
func NewFaceEngine(face font.Face, owner *Tracker) *FaceEngine {
	fm := face.Metrics()
	m := Metrics{
		Ascent:  fm.Ascent.Ceil(),
		Descent: fm.Descent.Ceil(),
		Height:  fm.Height.Ceil(),
	}
	if m.Height < m.Ascent+m.Descent {
		m.Height = m.Ascent + m.Descent
	}
	return &FaceEngine{face: face, owner: owner, metrics: m}
}

// Metrics returns the face metrics in pixels.
func (e *FaceEngine) Metrics() Metrics {
	return e.metrics
}

// Calls returns how many segments were requested.
func (e *FaceEngine) Calls() int {
	return e.calls
}

// Close releases the underlying face.
func (e *FaceEngine) Close() error {
	return e.face.Close()
}

// NextSegment implements Engine.
func (e *FaceEngine) NextSegment(text []rune, req Request) (*Run, *TextSource, bool) {
	e.calls++
	if req.Start < 0 || req.End > len(text) || req.Start >= req.End || req.Width <= 0 {
		return nil, nil, false
	}
	width := min(req.Width, MaxWidth)
	runes := text[req.Start:req.End]
	adv := e.advances(runes)
	limit := fixed.I(width)

	// Trailing whitespace hangs past the edge.
	fits := func(end int) bool {
		k := end
		for k > 0 && unicode.IsSpace(runes[k-1]) {
			k--
		}
		return adv[k] <= limit
	}

	n := len(runes)
	best := 0
	if fits(n) {
		best = n
	}
	for _, kind := range []BreakKind{req.Preferred, req.Fallback} {
		if best > 0 {
			break
		}
		switch kind {
		case WordBreak:
			best = lastFit(string(runes), fits, uniseg.FirstLineSegmentInString)
		case ClipBreak:
			best = lastFit(string(runes), fits, graphemeStep)
		}
	}
	if best == 0 {
		return nil, nil, false
	}
	run := NewRun(e.owner, append([]fixed.Int26_6(nil), adv[:best+1]...), e.metrics)
	return run, NewTextSource(e.owner, runes[:best]), true
}

type stepFunc func(s string, state int) (segment, rest string, mustBreak bool, newState int)

func graphemeStep(s string, state int) (string, string, bool, int) {
	cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
	return cluster, rest, false, newState
}

// lastFit returns the largest boundary from step that still fits.
func lastFit(s string, fits func(int) bool, step stepFunc) int {
	best, pos, state := 0, 0, -1
	for len(s) > 0 {
		var seg string
		seg, s, _, state = step(s, state)
		pos += utf8.RuneCountInString(seg)
		if !fits(pos) {
			break
		}
		best = pos
	}
	return best
}

func (e *FaceEngine) advances(runes []rune) []fixed.Int26_6 {
	adv := make([]fixed.Int26_6, len(runes)+1)
	prev := rune(-1)
	for i, r := range runes {
		a := e.advance(r)
		if prev >= 0 {
			a += e.face.Kern(prev, r)
		}
		adv[i+1] = adv[i] + a
		prev = r
	}
	return adv
}

func (e *FaceEngine) advance(r rune) fixed.Int26_6 {
	if r == '\t' {
		a, _ := e.face.GlyphAdvance(' ')
		return a * TabStop
	}
	if a, ok := e.face.GlyphAdvance(r); ok {
		return a
	}
	a, _ := e.face.GlyphAdvance(unicode.ReplacementChar)
	return a
}
