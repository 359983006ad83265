// Package backend draws laid-out documents on a terminal for previewing.
//
// Pixel geometry is mapped onto cells: every layout line becomes a row and
// every character takes the columns its terminal width needs.
package backend

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MousePressed   bool

	// Resize event fields
	Width, Height int

	// Paste event fields
	PasteStart bool
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlA
	KeyCtrlB
	KeyCtrlQ
	KeyCtrlY
	KeyCtrlZ
)

// ModMask represents modifier keys.
type ModMask int

// Modifier key masks.
const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether m includes mod.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}
