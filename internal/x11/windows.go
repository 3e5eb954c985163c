package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowKind classifies a top-level window by its EWMH type hints.
type WindowKind int

const (
	KindNormal WindowKind = iota
	KindTool
	KindOther
)

// ListClients returns the window manager's current client list.
func (c *Connection) ListClients() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// IsViewable reports whether a window still exists and is mapped on screen.
func (c *Connection) IsViewable(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, err
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// WindowKindOf maps the window's _NET_WM_WINDOW_TYPE to a kind. Windows with
// no type set are treated as normal, matching how most WMs render them.
func (c *Connection) WindowKindOf(windowID xproto.Window) WindowKind {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil || len(types) == 0 {
		return KindNormal
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return KindNormal
		case "_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_UTILITY",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DIALOG":
			return KindTool
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
			"_NET_WM_WINDOW_TYPE_POPUP_MENU",
			"_NET_WM_WINDOW_TYPE_TOOLTIP":
			return KindOther
		}
	}
	return KindNormal
}

// WindowPID returns the process ID that owns the window via _NET_WM_PID.
// Returns 0 when the property is unset.
func (c *Connection) WindowPID(windowID xproto.Window) int {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return int(pid)
}

// WindowClass returns the window's WM_CLASS class name.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowTitle returns the window title, preferring _NET_WM_NAME over the
// legacy WM_NAME property.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}

// WindowRect returns the window's outer rectangle in root coordinates,
// frame decorations included.
func (c *Connection) WindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	x = int(translate.DstX)
	y = int(translate.DstY)
	width = int(geom.Width)
	height = int(geom.Height)

	left, right, top, bottom := c.frameExtents(windowID)
	x -= left
	y -= top
	width += left + right
	height += top + bottom

	return x, y, width, height, nil
}

// MoveResizeWindow moves and resizes a window so that its outer frame lands
// on the given rectangle. Uses EWMH MoveResize for WM compatibility with a
// direct configure as fallback. Neither path raises the window or transfers
// focus.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// The request addresses the client area; shrink by the frame so the
	// decorated window fits the target rectangle.
	left, right, top, bottom := c.frameExtents(windowID)
	cx := x + left
	cy := y + top
	cw := width - left - right
	ch := height - top - bottom
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}

	err := ewmh.MoveresizeWindow(c.XUtil, windowID, cx, cy, cw, ch)
	if err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(cx, cy, cw, ch)
	}
	return nil
}

// frameExtents returns the window decoration sizes, zeros when unavailable.
func (c *Connection) frameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// MaximizeWindow puts a window into the maximized state on the monitor it
// currently occupies.
func (c *Connection) MaximizeWindow(windowID xproto.Window) error {
	if err := ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_MAXIMIZED_VERT")
}

// RestoreWindow clears the maximized state and maps the window if it was
// iconified, leaving it in the normal state.
func (c *Connection) RestoreWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err == nil {
		for _, state := range states {
			switch state {
			case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
				ewmh.WmStateReq(c.XUtil, windowID, 0, state)
			}
		}
	}

	// Mapping a withdrawn/iconified window de-iconifies it per ICCCM
	// without raising or focusing.
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// IsMaximized reports whether the window has both maximized state flags set.
func (c *Connection) IsMaximized(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, err
	}

	hasMaxH := false
	hasMaxV := false
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" {
			hasMaxH = true
		}
		if state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			hasMaxV = true
		}
	}
	return hasMaxH && hasMaxV, nil
}
