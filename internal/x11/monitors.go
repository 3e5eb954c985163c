package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display with its full geometry and the
// usable work area (geometry minus panels and docks).
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int

	WorkX      int
	WorkY      int
	WorkWidth  int
	WorkHeight int
}

// GetMonitors retrieves all active monitors using XRandR. Each monitor's
// work area is derived via deriveWorkArea; a failed work-area query degrades
// to the full monitor geometry rather than failing the enumeration.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			outputName = string(outputInfo.Name)
		}

		m := Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		c.deriveWorkArea(&m)
		monitors = append(monitors, m)
	}

	return monitors, nil
}

// deriveWorkArea fills in the monitor's usable area. Preference order:
// dock struts intersected with this monitor, then _NET_WORKAREA for the
// current desktop, then the full monitor geometry. Every step is
// best-effort; the caller always gets a usable rectangle.
func (c *Connection) deriveWorkArea(monitor *Monitor) {
	monitor.WorkX = monitor.X
	monitor.WorkY = monitor.Y
	monitor.WorkWidth = monitor.Width
	monitor.WorkHeight = monitor.Height

	if c.applyDockStruts(monitor) {
		return
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return
	}

	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}

	wa := workArea[desktopIndex]
	clipped := clipRect(
		region{monitor.X, monitor.Y, monitor.X + monitor.Width, monitor.Y + monitor.Height},
		region{int(wa.X), int(wa.Y), int(wa.X) + int(wa.Width), int(wa.Y) + int(wa.Height)},
	)

	// _NET_WORKAREA is root-screen-global; only apply the part overlapping
	// this monitor.
	if clipped.x2 > clipped.x1 && clipped.y2 > clipped.y1 {
		monitor.WorkX = clipped.x1
		monitor.WorkY = clipped.y1
		monitor.WorkWidth = clipped.x2 - clipped.x1
		monitor.WorkHeight = clipped.y2 - clipped.y1
	}
}

// region is a rectangle in edge form, x2/y2 exclusive.
type region struct {
	x1, y1, x2, y2 int
}

func (r region) width() int  { return r.x2 - r.x1 }
func (r region) height() int { return r.y2 - r.y1 }

func (r region) empty() bool { return r.x2 <= r.x1 || r.y2 <= r.y1 }

func clipRect(a, b region) region {
	out := region{
		x1: max(a.x1, b.x1),
		y1: max(a.y1, b.y1),
		x2: min(a.x2, b.x2),
		y2: min(a.y2, b.y2),
	}
	if out.empty() {
		return region{}
	}
	return out
}

// strutSet accumulates the reserved space on each monitor edge across all
// docks.
type strutSet struct {
	left, right, top, bottom int
}

func (s strutSet) any() bool {
	return s.left > 0 || s.right > 0 || s.top > 0 || s.bottom > 0
}

// applyDockStruts shrinks the monitor's work area by the struts of docks
// overlapping it. Returns false when no dock reserved any space, so the
// caller can fall back to _NET_WORKAREA.
func (c *Connection) applyDockStruts(monitor *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts strutSet
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID)
		if err != nil {
			// Some docks only set the legacy _NET_WM_STRUT, which has no
			// per-edge ranges; treat it as spanning the whole root.
			s, err := ewmh.WmStrutGet(c.XUtil, windowID)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftStartY: 0, LeftEndY: uint(rootH - 1),
				RightStartY: 0, RightEndY: uint(rootH - 1),
				TopStartX: 0, TopEndX: uint(rootW - 1),
				BottomStartX: 0, BottomEndX: uint(rootW - 1),
			}
		}
		accumulateStruts(monitor, rootW, rootH, sp, &struts)
	}

	if !struts.any() {
		return false
	}

	monitor.WorkX = monitor.X + struts.left
	monitor.WorkY = monitor.Y + struts.top
	monitor.WorkWidth = max(1, monitor.Width-(struts.left+struts.right))
	monitor.WorkHeight = max(1, monitor.Height-(struts.top+struts.bottom))
	return true
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// accumulateStruts folds one dock's reserved bands into the per-edge
// accumulator, counting only the part of each band that overlaps the
// monitor. A strut on another monitor's edge must not shrink this one.
func accumulateStruts(monitor *Monitor, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *strutSet) {
	mon := region{monitor.X, monitor.Y, monitor.X + monitor.Width, monitor.Y + monitor.Height}

	if sp.Top > 0 {
		band := region{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)}
		acc.top = max(acc.top, clipRect(mon, band).height())
	}
	if sp.Bottom > 0 {
		band := region{int(sp.BottomStartX), rootH - int(sp.Bottom), int(sp.BottomEndX) + 1, rootH}
		acc.bottom = max(acc.bottom, clipRect(mon, band).height())
	}
	if sp.Left > 0 {
		band := region{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1}
		acc.left = max(acc.left, clipRect(mon, band).width())
	}
	if sp.Right > 0 {
		band := region{rootW - int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY) + 1}
		acc.right = max(acc.right, clipRect(mon, band).width())
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
