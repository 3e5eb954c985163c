package placement

import "fmt"

// Mode selects the final-placement behavior.
type Mode string

const (
	// ModeMaximize puts the window into the WM-maximized state on the
	// target monitor.
	ModeMaximize Mode = "maximize"
	// ModeFitWorkArea fills the target monitor's work area exactly without
	// entering the maximized state.
	ModeFitWorkArea Mode = "workarea"
	// ModeNormal moves the window onto the target monitor keeping its
	// current size.
	ModeNormal Mode = "normal"
)

// ParseMode validates a mode string from the CLI or a shortcut file.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMaximize, ModeFitWorkArea, ModeNormal:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unsupported mode %q (want maximize, workarea or normal)", s)
}
