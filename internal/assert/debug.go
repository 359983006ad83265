//go:build inkdebug

package assert

// Enabled reports whether violations panic.
const Enabled = true
