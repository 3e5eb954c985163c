// Package placement moves an acquired window onto a target monitor and
// holds it there. The engine's three-phase sequence (restore, park,
// finalize) works around window managers that apply maximize/fill requests
// to the monitor a window was previously associated with rather than the
// one it was just moved to.
package placement

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/platform"
)

// Park rectangle clamps: a medium-sized window fully inside the work area,
// large enough that the WM unambiguously associates it with the monitor.
const (
	parkMinWidth  = 800
	parkMaxWidth  = 1200
	parkMinHeight = 600
	parkMaxHeight = 900
	parkInset     = 200
)

// Normal-mode constraints: preserve the app's size but keep the window
// comfortably inside the work area.
const (
	normalInset     = 20
	normalMinWidth  = 300
	normalMinHeight = 200
	normalFallbackW = 1000
	normalFallbackH = 700
)

// Engine places windows. Idempotent: repeating Place with the same
// arguments converges to the same final rectangle.
type Engine struct {
	sys    platform.WindowSystem
	tuning config.Tuning
	log    zerolog.Logger
}

// NewEngine creates a placement engine.
func NewEngine(sys platform.WindowSystem, tuning config.Tuning, log zerolog.Logger) *Engine {
	return &Engine{sys: sys, tuning: tuning, log: log}
}

// Place transitions the window through restore → park → finalize onto the
// target display. No call in the sequence raises the window or transfers
// focus.
func (e *Engine) Place(win platform.WindowID, target platform.Display, mode Mode) error {
	wasMaximized, err := e.sys.IsMaximized(win)
	if err != nil {
		// State query failed; proceed as if normal and let Restore settle it.
		wasMaximized = false
	}

	// Move/resize requests on a maximized window are ignored or misapplied
	// by most WMs, so always return to the normal state first.
	if err := e.sys.Restore(win); err != nil {
		return fmt.Errorf("failed to restore window: %w", err)
	}
	if wasMaximized {
		time.Sleep(e.tuning.RestoreSettle)
	}

	work := target.Work

	if mode == ModeNormal {
		return e.placeNormal(win, work)
	}

	// Park fully inside the target work area so the WM associates the
	// window with that monitor before the maximize/fill call.
	if err := e.sys.MoveResize(win, ParkRect(work)); err != nil {
		return fmt.Errorf("failed to park window: %w", err)
	}
	time.Sleep(e.tuning.ParkSettle)

	switch mode {
	case ModeMaximize:
		if err := e.sys.Maximize(win); err != nil {
			return fmt.Errorf("failed to maximize window: %w", err)
		}
	case ModeFitWorkArea:
		if err := e.sys.MoveResize(win, work); err != nil {
			return fmt.Errorf("failed to fit window to work area: %w", err)
		}
	default:
		return fmt.Errorf("unsupported placement mode %q", mode)
	}

	e.log.Debug().
		Uint32("window", uint32(win)).
		Int("monitor", target.ID).
		Str("mode", string(mode)).
		Msg("window placed")
	return nil
}

// placeNormal keeps the window's current size (clamped to the work area)
// and moves it to a fixed inset from the work area's top-left corner.
func (e *Engine) placeNormal(win platform.WindowID, work platform.Rect) error {
	width := normalFallbackW
	height := normalFallbackH
	if cur, err := e.sys.WindowRect(win); err == nil {
		width = max(normalMinWidth, min(cur.Width, work.Width-2*normalInset))
		height = max(normalMinHeight, min(cur.Height, work.Height-2*normalInset))
	}

	return e.sys.MoveResize(win, platform.Rect{
		X:      work.X + normalInset,
		Y:      work.Y + normalInset,
		Width:  width,
		Height: height,
	})
}

// ParkRect computes the intermediate parking rectangle for a work area:
// clamped to a medium size, horizontally centered, in the upper third
// vertically, never closer than 20 px to the work area's top-left edge.
func ParkRect(work platform.Rect) platform.Rect {
	w := min(parkMaxWidth, max(parkMinWidth, work.Width-parkInset))
	h := min(parkMaxHeight, max(parkMinHeight, work.Height-parkInset))
	return platform.Rect{
		X:      work.X + max(20, (work.Width-w)/2),
		Y:      work.Y + max(20, (work.Height-h)/3),
		Width:  w,
		Height: h,
	}
}
