package platform

// WindowID is a platform-neutral window identifier.
//
// A WindowID refers to a live window-system resource that can be destroyed
// by its owner at any moment. Every operation taking a WindowID treats
// "window gone" as an expected outcome, not a programming error.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge coordinate.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge coordinate.
func (r Rect) Bottom() int { return r.Y + r.Height }

// CenterX returns the horizontal center coordinate.
func (r Rect) CenterX() int { return r.X + r.Width/2 }

// CenterY returns the vertical center coordinate.
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// ApproxEqual reports whether two rectangles match within tol pixels per
// edge. Window managers round coordinates during animated transitions, so
// exact comparison would flag phantom movement.
func ApproxEqual(a, b Rect, tol int) bool {
	return abs(a.X-b.X) <= tol &&
		abs(a.Y-b.Y) <= tol &&
		abs(a.Right()-b.Right()) <= tol &&
		abs(a.Bottom()-b.Bottom()) <= tol
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Display describes a physical display: its full pixel bounds and the usable
// work area (bounds minus panels, docks and other reserved regions).
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Work   Rect
}

// WindowKind classifies a top-level window by its window-manager type hints.
type WindowKind int

const (
	// KindNormal is a regular application window (caption, resizable frame).
	KindNormal WindowKind = iota
	// KindTool covers floating tool palettes, utility windows and splash
	// screens — windows that look top-level but are not the app's main window.
	KindTool
	// KindOther covers docks, desktops, notifications and menus.
	KindOther
)

// Window contains metadata and geometry for one visible top-level window.
type Window struct {
	ID     WindowID
	PID    int
	Kind   WindowKind
	Class  string
	Title  string
	Bounds Rect
}

// WindowSystem abstracts the window-system operations the pinning core
// needs. The X11 backend implements it against a live display; tests supply
// a fake. All reads tolerate concurrent mutation by other applications:
// windows may appear, move or vanish between any two calls.
type WindowSystem interface {
	// Displays returns all active displays in the stable spatial order
	// (left coordinate ascending, then top coordinate ascending), with
	// IDs assigned as ordinal indices into that order.
	Displays() ([]Display, error)

	// ListWindows returns a fresh enumeration of currently viewable
	// top-level windows. Each call is a new snapshot, never a continuation.
	ListWindows() ([]Window, error)

	// WindowRect returns the current outer rectangle of a window. An error
	// means the handle is no longer valid; callers treat this as soft.
	WindowRect(id WindowID) (Rect, error)

	// IsViewable reports whether the window still exists and is mapped.
	IsViewable(id WindowID) (bool, error)

	// MoveResize moves and resizes a window without raising it or
	// transferring focus.
	MoveResize(id WindowID, bounds Rect) error

	// Maximize puts the window into the maximized state on whichever
	// display it currently occupies.
	Maximize(id WindowID) error

	// Restore clears the maximized state and de-iconifies the window,
	// returning it to the normal state. Restoring an already-normal
	// window is a no-op.
	Restore(id WindowID) error

	// IsMaximized reports whether the window is currently maximized.
	IsMaximized(id WindowID) (bool, error)
}
