package placement

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/platform"
)

// Watchdog re-applies placement when the target application moves its own
// window after the initial placement (many apps restore a remembered
// geometry late in startup). It only guarantees correction attempts within
// the observation period, not permanent pinning.
type Watchdog struct {
	sys    platform.WindowSystem
	engine *Engine
	tuning config.Tuning
	log    zerolog.Logger
}

// NewWatchdog creates a drift watchdog that corrects via engine.
func NewWatchdog(sys platform.WindowSystem, engine *Engine, tuning config.Tuning, log zerolog.Logger) *Watchdog {
	return &Watchdog{sys: sys, engine: engine, tuning: tuning, log: log}
}

// Observe polls the window for the given duration and re-places it whenever
// it has left the target monitor or its rectangle drifted beyond tolerance
// from the last-applied baseline. The window disappearing is a normal
// terminus (the app may have closed), never an error. Returns early when
// the context is cancelled.
func (w *Watchdog) Observe(ctx context.Context, win platform.WindowID, target platform.Display, mode Mode, duration time.Duration) {
	if duration <= 0 {
		return
	}
	deadline := time.Now().Add(duration)

	last, err := w.sys.WindowRect(win)
	haveLast := err == nil

	for time.Now().Before(deadline) {
		viewable, err := w.sys.IsViewable(win)
		if err != nil || !viewable {
			w.log.Debug().Uint32("window", uint32(win)).Msg("window gone, watchdog done")
			return
		}

		cur, err := w.sys.WindowRect(win)
		if err != nil {
			// Lost a race with window destruction; the viewable check next
			// cycle decides whether to stop.
			if sleepCtx(ctx, w.tuning.PollInterval) != nil {
				return
			}
			continue
		}

		if displays, err := w.sys.Displays(); err == nil {
			disp, ok := platform.DisplayContaining(displays, cur.CenterX(), cur.CenterY())
			offTarget := ok && disp.ID != target.ID
			drifted := !haveLast || !platform.ApproxEqual(cur, last, w.tuning.RectTolerance)

			if offTarget || drifted {
				w.log.Info().
					Uint32("window", uint32(win)).
					Bool("off_monitor", offTarget).
					Msg("drift detected, re-applying placement")
				if err := w.engine.Place(win, target, mode); err != nil {
					w.log.Debug().Err(err).Msg("drift correction failed, will retry next cycle")
				}
				if corrected, err := w.sys.WindowRect(win); err == nil {
					cur = corrected
				}
			}
		}

		last = cur
		haveLast = true

		if sleepCtx(ctx, w.tuning.PollInterval) != nil {
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
