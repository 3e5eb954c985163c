// Package pin orchestrates one launch-and-place operation: validate the
// request, launch the target, acquire its main window, place it on the
// requested monitor and watch for drift. There is no partial success —
// either a window was placed or the operation failed outright.
package pin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/acquire"
	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/launcher"
	"github.com/toxicorca/launchpin/internal/placement"
	"github.com/toxicorca/launchpin/internal/platform"
	"github.com/toxicorca/launchpin/internal/scanner"
)

// Process is the launched target as seen by the pipeline.
type Process interface {
	Pid() int
	OwnedPids(ctx context.Context, samples int, every time.Duration) map[int]struct{}
}

// launchFunc starts the target executable; injected so tests run without
// spawning real processes.
type launchFunc func(exePath string, log zerolog.Logger) (Process, error)

// Request describes one headless launch-and-place operation.
type Request struct {
	ExePath      string
	MonitorIndex int
	Mode         placement.Mode
	Observe      time.Duration
}

// Runner executes requests sequentially. Concurrent Run calls on the same
// Runner serialize: two pipelines would race on the same window-enumeration
// state (both would see, and could grab, each other's windows).
type Runner struct {
	mu     sync.Mutex
	sys    platform.WindowSystem
	launch launchFunc
	nameOf func(pid int) (string, error)
	tuning config.Tuning
	log    zerolog.Logger
}

// NewRunner creates a runner backed by the real process launcher.
func NewRunner(sys platform.WindowSystem, tuning config.Tuning, log zerolog.Logger) *Runner {
	return &Runner{
		sys: sys,
		launch: func(exePath string, log zerolog.Logger) (Process, error) {
			return launcher.Start(exePath, log)
		},
		nameOf: launcher.NameOfPid,
		tuning: tuning,
		log:    log,
	}
}

// Run executes the full pipeline for one request. It blocks for up to the
// acquisition timeouts plus the observation duration, so callers with an
// interactive surface must invoke it off that surface's thread. The context
// is honored at every poll boundary.
//
// Error kinds: *InvalidArgumentError (nothing was started),
// *LaunchError, *WindowNotFoundError, or a wrapped runtime error.
func (r *Runner) Run(ctx context.Context, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// All argument validation happens before any side effect.
	info, err := os.Stat(req.ExePath)
	if err != nil {
		return &InvalidArgumentError{Reason: fmt.Sprintf("executable not found: %s", req.ExePath)}
	}
	if info.IsDir() {
		return &InvalidArgumentError{Reason: fmt.Sprintf("%s is a directory, not an executable", req.ExePath)}
	}
	if _, err := placement.ParseMode(string(req.Mode)); err != nil {
		return &InvalidArgumentError{Reason: err.Error()}
	}
	if req.Observe < 0 {
		return &InvalidArgumentError{Reason: "observe duration must be non-negative"}
	}

	displays, err := r.sys.Displays()
	if err != nil {
		return fmt.Errorf("failed to enumerate monitors: %w", err)
	}
	if len(displays) == 0 {
		return fmt.Errorf("no monitors detected")
	}
	if req.MonitorIndex < 0 || req.MonitorIndex >= len(displays) {
		return &InvalidArgumentError{
			Reason: fmt.Sprintf("monitor index %d out of range (found %d)", req.MonitorIndex, len(displays)),
		}
	}
	target := displays[req.MonitorIndex]

	// Snapshot before launch: the baseline for the novelty signal.
	before := scanner.Snapshot(r.sys)

	proc, err := r.launch(req.ExePath, r.log)
	if err != nil {
		return &LaunchError{Path: req.ExePath, Err: err}
	}

	owned := proc.OwnedPids(ctx, r.tuning.ChildSamples, r.tuning.ChildSampleEvery)
	r.log.Info().
		Int("pid", proc.Pid()).
		Int("owned_pids", len(owned)).
		Str("exe", req.ExePath).
		Msg("launched, waiting for main window")

	sc := scanner.New(r.sys, r.nameOf, r.tuning, r.log)
	primary := scanner.Criteria{
		OwnedPids:   owned,
		ExeBaseName: launcher.ExeBaseName(req.ExePath),
		PreExisting: before,
	}

	started := time.Now()
	win, err := acquire.Wait(ctx, r.sys, func() (platform.WindowID, bool) {
		return sc.Scan(primary)
	}, r.tuning, r.tuning.AcquireTimeout, r.log)

	if errors.Is(err, acquire.ErrNoWindow) {
		// Last resort: broaden the match to any main-style window that
		// appeared since launch. Catches process-tree indirection the
		// PID sampling missed.
		r.log.Warn().Msg("primary window search timed out, retrying on novelty alone")
		relaxed := scanner.Criteria{PreExisting: before}
		win, err = acquire.Wait(ctx, r.sys, func() (platform.WindowID, bool) {
			return sc.Scan(relaxed)
		}, r.tuning, r.tuning.RelaxedTimeout, r.log)
	}
	if err != nil {
		if errors.Is(err, acquire.ErrNoWindow) {
			return &WindowNotFoundError{Elapsed: time.Since(started)}
		}
		return err
	}

	engine := placement.NewEngine(r.sys, r.tuning, r.log)
	if err := engine.Place(win, target, req.Mode); err != nil {
		return fmt.Errorf("placement failed: %w", err)
	}

	if req.Observe > 0 {
		watchdog := placement.NewWatchdog(r.sys, engine, r.tuning, r.log)
		watchdog.Observe(ctx, win, target, req.Mode, req.Observe)
	}

	r.log.Info().
		Uint32("window", uint32(win)).
		Int("monitor", target.ID).
		Str("mode", string(req.Mode)).
		Msg("launched and placed")
	return nil
}
