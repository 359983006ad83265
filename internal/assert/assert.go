// Package assert reports violated invariants.
//
// Builds tagged inkdebug panic on the first violation. Release builds log a
// warning and let the caller clamp the offending value.
package assert

import (
	"fmt"

	"github.com/dshills/inkwell/internal/logger"
)

// Violation reports a broken invariant in the named component.
func Violation(component, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if Enabled {
		panic(component + ": " + msg)
	}
	logger.Warnf("%s: invariant violation clamped: %s", component, msg)
}

// Clamp limits v to [lo, hi], reporting a violation when it had to.
func Clamp(component, what string, v, lo, hi int) int {
	if v < lo {
		Violation(component, "%s %d below %d", what, v, lo)
		return lo
	}
	if v > hi {
		Violation(component, "%s %d above %d", what, v, hi)
		return hi
	}
	return v
}
