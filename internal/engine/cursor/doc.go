// Package cursor provides caret and selection state for the document.
//
// Selections use an anchor/active model where:
//   - Anchor: The position where the selection started
//   - Active: The insertion point (where typing occurs)
//
// When Anchor == Active, the selection is a caret with no selected text.
//
// State pairs a Selection with an Endpoint per side. Each endpoint caches
// the style range and layout segment holding its offset; the caches are
// invalidated when ranges or segments change structurally and refreshed
// one endpoint at a time by Resolve.
//
// Offsets sitting exactly on a segment boundary are ambiguous. SegmentAt
// settles them by association:
//   - after a paragraph break the offset belongs to the following segment
//   - before a paragraph break it belongs to the preceding one
//   - on a plain line wrap the caller's preference decides
//
// Basic usage:
//
//	st := cursor.NewState(0)
//	st.Set(5, 5)
//	st.Active.Resolve(ranges, segs)
//	seg := segs.At(st.Active.Segment)
package cursor
