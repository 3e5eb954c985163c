//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/toxicorca/launchpin/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform WindowSystem
// interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ WindowSystem = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active displays in spatial order with work areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Work:   Rect{X: m.WorkX, Y: m.WorkY, Width: m.WorkWidth, Height: m.WorkHeight},
		})
	}

	SortDisplays(displays)
	return displays, nil
}

// ListWindows returns a fresh snapshot of viewable top-level windows with
// their owning PID, class, type classification and geometry.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ListClients()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		viewable, err := conn.IsViewable(windowID)
		if err != nil || !viewable {
			// Window vanished mid-enumeration or is iconified; skip.
			continue
		}

		x, y, w, h, err := conn.WindowRect(windowID)
		if err != nil {
			continue
		}

		windows = append(windows, Window{
			ID:     WindowID(windowID),
			PID:    conn.WindowPID(windowID),
			Kind:   kindFromX11(conn.WindowKindOf(windowID)),
			Class:  conn.WindowClass(windowID),
			Title:  conn.WindowTitle(windowID),
			Bounds: Rect{X: x, Y: y, Width: w, Height: h},
		})
	}

	return windows, nil
}

// WindowRect returns the window's current outer rectangle.
func (b *LinuxBackend) WindowRect(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	x, y, w, h, err := conn.WindowRect(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// IsViewable reports whether the window still exists and is mapped.
func (b *LinuxBackend) IsViewable(id WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.IsViewable(xproto.Window(id))
}

// MoveResize moves and resizes a window without raising it or taking focus.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Maximize puts a window into the maximized state.
func (b *LinuxBackend) Maximize(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MaximizeWindow(xproto.Window(id))
}

// Restore returns a window to the normal state.
func (b *LinuxBackend) Restore(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RestoreWindow(xproto.Window(id))
}

// IsMaximized reports whether a window is currently maximized.
func (b *LinuxBackend) IsMaximized(id WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.IsMaximized(xproto.Window(id))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func kindFromX11(k x11.WindowKind) WindowKind {
	switch k {
	case x11.KindNormal:
		return KindNormal
	case x11.KindTool:
		return KindTool
	default:
		return KindOther
	}
}
