package wire

// W3C action item and source types
const (
	SourcePointer = "pointer"

	PointerMove = "pointerMove"
	PointerDown = "pointerDown"
	PointerUp   = "pointerUp"
	Pause       = "pause"

	PointerTouch = "touch"
	PointerMouse = "mouse"
	PointerPen   = "pen"
)

// PointerAction is one tick of a pointer input source
type PointerAction struct {
	Type     string `json:"type"`
	Duration *int   `json:"duration,omitempty"`
	X        *int   `json:"x,omitempty"`
	Y        *int   `json:"y,omitempty"`
	Button   *int   `json:"button,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

// PointerParameters describes the kind of pointer device
type PointerParameters struct {
	PointerType string `json:"pointerType"`
}

// PointerSource is one synthetic input device and its action sequence
type PointerSource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Parameters PointerParameters `json:"parameters"`
	Actions    []PointerAction   `json:"actions"`
}

// MoveTo returns a pointerMove to an absolute viewport position
func MoveTo(p Point, duration int) PointerAction {
	x, y := p.X, p.Y
	return PointerAction{Type: PointerMove, Duration: &duration, X: &x, Y: &y}
}

// Press returns a pointerDown of the given button
func Press(button int) PointerAction {
	return PointerAction{Type: PointerDown, Button: &button}
}

// Release returns a pointerUp of the given button
func Release(button int) PointerAction {
	return PointerAction{Type: PointerUp, Button: &button}
}
