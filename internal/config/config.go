package config

import "time"

// Tuning holds every timing constant and tolerance used by the acquisition,
// placement and watchdog components. It is built once (defaults plus an
// optional config file) and passed by value into each component at
// construction, so no component reaches into shared mutable state.
type Tuning struct {
	// PollInterval is the sleep between successive window-scan or
	// drift-check cycles.
	PollInterval time.Duration

	// RectTolerance is the per-edge pixel slack when comparing window
	// rectangles. Covers WM rounding during animated transitions.
	RectTolerance int

	// AcquireTimeout bounds the primary window-acquisition attempt.
	AcquireTimeout time.Duration

	// RelaxedTimeout bounds the fallback attempt that matches on window
	// novelty alone.
	RelaxedTimeout time.Duration

	// StableFor is how long a candidate's identity and geometry must stay
	// unchanged before the stability policy accepts it.
	StableFor time.Duration

	// EarlyDetect selects the early-detect acquisition policy: return the
	// first plausible window instead of waiting for geometric stability.
	EarlyDetect bool

	// ChildSamples and ChildSampleEvery control how long the launcher keeps
	// re-sampling the process tree for descendants after spawn. Launcher
	// stubs often exit after starting the real UI process, so the true
	// window owner can be a grandchild unknown at spawn time.
	ChildSamples     int
	ChildSampleEvery time.Duration

	// MinCandidateWidth/Height filter out helper and notification windows
	// during candidate scanning.
	MinCandidateWidth  int
	MinCandidateHeight int

	// RestoreSettle is the pause after un-maximizing a window before
	// issuing further placement calls.
	RestoreSettle time.Duration

	// ParkSettle is the pause after parking a window on the target monitor
	// before the final maximize/fill call.
	ParkSettle time.Duration

	// DefaultObserve is the drift-watchdog duration used when the caller
	// does not specify one.
	DefaultObserve time.Duration
}

// Default returns the built-in tuning values.
func Default() Tuning {
	return Tuning{
		PollInterval:       50 * time.Millisecond,
		RectTolerance:      3,
		AcquireTimeout:     45 * time.Second,
		RelaxedTimeout:     10 * time.Second,
		StableFor:          400 * time.Millisecond,
		EarlyDetect:        true,
		ChildSamples:       15,
		ChildSampleEvery:   50 * time.Millisecond,
		MinCandidateWidth:  200,
		MinCandidateHeight: 150,
		RestoreSettle:      50 * time.Millisecond,
		ParkSettle:         20 * time.Millisecond,
		DefaultObserve:     4 * time.Second,
	}
}
