package layout

import (
	"errors"
	"fmt"
)

// ErrTruncated matches any *TruncatedError.
var ErrTruncated = errors.New("layout truncated")

// TruncatedError reports paragraphs the shaping engine could not break.
// The layout is still complete; the listed paragraphs hold zero-width
// truncated segments from the failure point to their end.
type TruncatedError struct {
	Paragraphs []int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("layout truncated in %d paragraph(s) %v", len(e.Paragraphs), e.Paragraphs)
}

// Is reports whether target is ErrTruncated.
func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

// Stats describes layout work.
type Stats struct {
	Passes     int // rebuilds run on dirty bounds
	ShapeCalls int // segment requests, cumulative

	// The fields below describe the most recent rebuild.
	Kept     int // segments ahead of the dirty window left in place
	Built    int // segments produced by the shaping engine
	Reused   int // segments spliced back from the old chain
	Restarts int // relayouts caused by a scrollbar flip
}
