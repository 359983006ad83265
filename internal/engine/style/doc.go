// Package style holds the run-length list of styled ranges that partitions
// a document.
//
// Every character of the document belongs to exactly one Range. Ranges are
// stored in document order and carry a character count rather than offsets,
// so an edit only touches the ranges it overlaps:
//
//	l := style.NewList(11, style.DefaultProps()) // "Hello World"
//	l.Apply(0, 5, style.Props{Font: style.Font{Family: "Go", Bold: true}, Size: 20,
//		Foreground: style.ColorUnchanged, Background: style.ColorUnchanged})
//	l.CleanUp()
//	// l.Len() == 2: {5, bold 20pt} {6, default}
//
// A zero-length range is only kept as the trailing range or as the anchor of
// an empty paragraph. CleanUp removes any other zero-length range and merges
// neighbours whose styles are identical.
package style
