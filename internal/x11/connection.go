// Package x11 is the thin EWMH/ICCCM layer: connection handling, RandR
// monitor enumeration with work-area derivation, and window geometry and
// state operations. Everything above this package works in terms of the
// platform abstraction, not X types.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection holds the X server connection and the root window. Atom
// interning happens lazily inside the ewmh helpers on first use.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to the X server named by DISPLAY.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to open display: %w", err)
	}
	return &Connection{XUtil: xu, Root: xu.RootWin()}, nil
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
