// Package shaping wraps font faces behind the line-breaking capability the
// layout builder consumes.
//
// An Engine proposes how much of a character span fits in a given width,
// preferring a line-break opportunity (UAX #14, via uniseg) and optionally
// falling back to clipping at a grapheme boundary. Each proposal comes back
// as two handles, a Run (glyph geometry) and a TextSource (the shaped
// characters). Both must be released exactly once; a Tracker counts the
// live handles so leaks and double releases are detectable.
//
// A Cache creates one Engine per distinct font and size lazily and shares it
// across rebuilds until Close.
package shaping
