// Package acquire implements the window-acquisition protocol: a bounded
// polling loop around the candidate scanner that decides when a selected
// window is "the" main window.
package acquire

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/platform"
)

// ErrNoWindow is returned when no qualifying window appeared before the
// attempt's timeout. The caller may retry with relaxed criteria.
var ErrNoWindow = errors.New("no qualifying window appeared")

// SelectFunc runs one candidate scan and reports the current best window.
type SelectFunc func() (platform.WindowID, bool)

// Wait polls selectFn every tuning.PollInterval until a window qualifies or
// the timeout elapses. Under the early-detect policy (the default) the first
// positive result is returned immediately — most applications create their
// main window promptly and the placement engine re-parks it anyway. Under
// the stability policy the selected window must additionally keep the same
// identity and geometry (within tolerance) for tuning.StableFor before it is
// accepted; this suits applications whose startup genuinely thrashes window
// identity or geometry.
//
// The context is checked at every poll boundary; cancellation returns
// ctx.Err().
func Wait(ctx context.Context, sys platform.WindowSystem, selectFn SelectFunc, tuning config.Tuning, timeout time.Duration, log zerolog.Logger) (platform.WindowID, error) {
	deadline := time.Now().Add(timeout)

	if tuning.EarlyDetect {
		return waitEarly(ctx, selectFn, tuning, deadline, log)
	}
	return waitStable(ctx, sys, selectFn, tuning, deadline, log)
}

func waitEarly(ctx context.Context, selectFn SelectFunc, tuning config.Tuning, deadline time.Time, log zerolog.Logger) (platform.WindowID, error) {
	for time.Now().Before(deadline) {
		if cand, ok := selectFn(); ok {
			log.Debug().Uint32("window", uint32(cand)).Msg("window acquired (early detect)")
			return cand, nil
		}
		if err := sleep(ctx, tuning.PollInterval); err != nil {
			return 0, err
		}
	}
	return 0, ErrNoWindow
}

func waitStable(ctx context.Context, sys platform.WindowSystem, selectFn SelectFunc, tuning config.Tuning, deadline time.Time, log zerolog.Logger) (platform.WindowID, error) {
	var (
		current  platform.WindowID
		lastRect platform.Rect
		haveRect bool
		stable   time.Duration
	)

	for time.Now().Before(deadline) {
		cand, ok := selectFn()
		if !ok {
			if err := sleep(ctx, tuning.PollInterval); err != nil {
				return 0, err
			}
			continue
		}

		rect, err := sys.WindowRect(cand)
		if err != nil {
			// Candidate vanished between scan and query; poll again.
			if err := sleep(ctx, tuning.PollInterval); err != nil {
				return 0, err
			}
			continue
		}

		if !haveRect || cand != current || !platform.ApproxEqual(rect, lastRect, tuning.RectTolerance) {
			// New selection or still moving: restart the stability clock.
			current = cand
			lastRect = rect
			haveRect = true
			stable = 0
		} else {
			stable += tuning.PollInterval
		}

		if stable >= tuning.StableFor {
			log.Debug().
				Uint32("window", uint32(current)).
				Dur("stable_for", stable).
				Msg("window acquired (stable)")
			return current, nil
		}

		if err := sleep(ctx, tuning.PollInterval); err != nil {
			return 0, err
		}
	}
	return 0, ErrNoWindow
}

// sleep blocks for d or until the context is cancelled. The sleep/check
// boundary is the protocol's only suspension point.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
