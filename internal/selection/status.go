package selection

import "fmt"

// GrabStatus is what the pointer is currently doing to the selection.
type GrabStatus int

const (
	None GrabStatus = iota
	Select
	TopLeft
	TopMid
	TopRight
	MidLeft
	MidRight
	BotLeft
	BotMid
	BotRight
	Move
)

var statusNames = [...]string{
	"none", "select", "top-left", "top-mid", "top-right", "mid-left",
	"mid-right", "bot-left", "bot-mid", "bot-right", "move",
}

func (g GrabStatus) String() string {
	if g < 0 || int(g) >= len(statusNames) {
		return fmt.Sprintf("GrabStatus(%d)", int(g))
	}
	return statusNames[g]
}

// Resizing reports whether g is one of the eight handle states.
func (g GrabStatus) Resizing() bool { return g >= TopLeft && g <= BotRight }

func (g GrabStatus) mirrorX() GrabStatus {
	switch g {
	case TopLeft:
		return TopRight
	case TopRight:
		return TopLeft
	case MidLeft:
		return MidRight
	case MidRight:
		return MidLeft
	case BotLeft:
		return BotRight
	case BotRight:
		return BotLeft
	}
	return g
}

func (g GrabStatus) mirrorY() GrabStatus {
	switch g {
	case TopLeft:
		return BotLeft
	case BotLeft:
		return TopLeft
	case TopMid:
		return BotMid
	case BotMid:
		return TopMid
	case TopRight:
		return BotRight
	case BotRight:
		return TopRight
	}
	return g
}

// Cursor is the pointer shape the window should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorCrosshair
	CursorResizeNorth
	CursorResizeSouth
	CursorResizeWest
	CursorResizeEast
	CursorResizeNorthWest
	CursorResizeNorthEast
	CursorResizeSouthWest
	CursorResizeSouthEast
	CursorGrab
	CursorGrabbing
)

var handleCursors = map[GrabStatus]Cursor{
	TopLeft:  CursorResizeNorthWest,
	TopMid:   CursorResizeNorth,
	TopRight: CursorResizeNorthEast,
	MidLeft:  CursorResizeWest,
	MidRight: CursorResizeEast,
	BotLeft:  CursorResizeSouthWest,
	BotMid:   CursorResizeSouth,
	BotRight: CursorResizeSouthEast,
}
