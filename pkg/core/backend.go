package core

// Backend defines the UI-automation capability surface the engine drives.
// Implementations: device drivers, browser bridges, the in-memory mock.
// The engine owns control flow; a Backend only locates elements, reads
// their state and performs gestures. All calls are synchronous and the
// session is exclusively owned by the current run.
type Backend interface {
	// LocateByID returns the first element with the given id, or nil if
	// no such element currently exists.
	LocateByID(id string) *Element

	// LocateAllByID returns every element sharing the given id.
	LocateAllByID(id string) []*Element

	// ElementText returns the visible text of an element.
	ElementText(el *Element) string

	// ElementEnabled reports whether an element accepts interaction.
	ElementEnabled(el *Element) bool

	// PerformGesture executes a single gesture.
	PerformGesture(g Gesture) error

	// CaptureScreenshot writes the current screen as PNG to path.
	CaptureScreenshot(path string) error

	// DumpHierarchy returns the UI tree as JSON (diagnostic only).
	DumpHierarchy() string
}

// Element represents a UI element reported by a backend.
type Element struct {
	ID      string `json:"id,omitempty"`
	Text    string `json:"text,omitempty"`
	Bounds  Bounds `json:"bounds"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Focused bool   `json:"focused,omitempty"`
	Class   string `json:"class,omitempty"`
}

// Bounds represents element position and size.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// GestureKind identifies a gesture a backend can perform.
type GestureKind string

// Gesture kinds.
const (
	GestureTap       GestureKind = "tap"
	GestureDoubleTap GestureKind = "doubleTap"
	GestureLongPress GestureKind = "longPress"
	GestureInput     GestureKind = "input"
	GestureClear     GestureKind = "clear"
	GestureScroll    GestureKind = "scroll"
	GestureSwipe     GestureKind = "swipe"
	GestureBack      GestureKind = "back"
	GestureAlertTap  GestureKind = "alertTap"
)

// Gesture describes a single interaction for Backend.PerformGesture.
// Target is nil for gestures that do not act on a located element
// (back, alertTap).
type Gesture struct {
	Kind       GestureKind `json:"kind"`
	Target     *Element    `json:"target,omitempty"`
	Text       string      `json:"text,omitempty"`     // input value, tap sub-text, alert button label
	Direction  string      `json:"direction,omitempty"`
	Amount     int         `json:"amount,omitempty"`
	DurationMs int         `json:"durationMs,omitempty"`
}
