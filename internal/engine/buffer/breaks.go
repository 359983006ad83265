package buffer

// IsBreak reports whether r ends a paragraph.
func IsBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\u2028', '\u2029':
		return true
	}
	return false
}

// BreakLen returns the length of the break starting at i, or 0.
func BreakLen(text []rune, i int) int {
	if i < 0 || i >= len(text) || !IsBreak(text[i]) {
		return 0
	}
	if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
		return 2
	}
	return 1
}

// NextBreak returns the index of the first break in text[from:to], or to.
func NextBreak(text []rune, from, to int) int {
	for i := from; i < to; i++ {
		if IsBreak(text[i]) {
			return i
		}
	}
	return to
}

// AfterBreak reports whether offset starts a paragraph: the start of the
// text or just after a break.
func AfterBreak(text []rune, offset int) bool {
	if offset <= 0 {
		return true
	}
	if offset > len(text) {
		return false
	}
	prev := text[offset-1]
	if prev == '\r' && offset < len(text) && text[offset] == '\n' {
		return false
	}
	return IsBreak(prev)
}

// CountBreaks returns the number of paragraph breaks in text.
func CountBreaks(text []rune) int {
	n := 0
	for i := 0; i < len(text); {
		if l := BreakLen(text, i); l > 0 {
			n++
			i += l
			continue
		}
		i++
	}
	return n
}

// TrailingBreakLen returns the length of the break ending text[:end],
// or 0.
func TrailingBreakLen(text []rune, start, end int) int {
	if end <= start {
		return 0
	}
	if end-2 >= start && text[end-2] == '\r' && text[end-1] == '\n' {
		return 2
	}
	if IsBreak(text[end-1]) {
		return 1
	}
	return 0
}
