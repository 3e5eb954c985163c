package placement

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/platform"
)

func TestObserveZeroDurationReturnsImmediately(t *testing.T) {
	sys, _, right := twoDisplays()
	sys.rects[1] = platform.Rect{X: 2000, Y: 100, Width: 800, Height: 600}
	engine := NewEngine(sys, fastTuning(), zerolog.Nop())
	watchdog := NewWatchdog(sys, engine, fastTuning(), zerolog.Nop())

	watchdog.Observe(context.Background(), 1, right, ModeNormal, 0)

	if len(sys.calls) != 0 {
		t.Errorf("zero observe duration must not touch the window, got calls %v", sys.calls)
	}
}

func TestObserveCorrectsDrift(t *testing.T) {
	sys, left, right := twoDisplays()
	engine := NewEngine(sys, fastTuning(), zerolog.Nop())

	// Start correctly placed on the right monitor.
	sys.rects[1] = platform.Rect{X: 2100, Y: 200, Width: 800, Height: 600}

	// The app restores a remembered position on the left monitor shortly
	// after the watchdog starts.
	go func() {
		time.Sleep(10 * time.Millisecond)
		sys.setRect(1, platform.Rect{X: left.Bounds.X + 100, Y: 100, Width: 800, Height: 600})
	}()

	watchdog := NewWatchdog(sys, engine, fastTuning(), zerolog.Nop())
	watchdog.Observe(context.Background(), 1, right, ModeNormal, 150*time.Millisecond)

	got := sys.rect(1)
	if !right.Bounds.Contains(got.CenterX(), got.CenterY()) {
		t.Errorf("window center (%d,%d) not back on target monitor", got.CenterX(), got.CenterY())
	}
}

func TestObserveStopsWhenWindowCloses(t *testing.T) {
	sys, _, right := twoDisplays()
	sys.rects[1] = platform.Rect{X: 2100, Y: 200, Width: 800, Height: 600}
	engine := NewEngine(sys, fastTuning(), zerolog.Nop())
	watchdog := NewWatchdog(sys, engine, fastTuning(), zerolog.Nop())

	go func() {
		time.Sleep(5 * time.Millisecond)
		sys.markGone(1)
	}()

	start := time.Now()
	watchdog.Observe(context.Background(), 1, right, ModeNormal, time.Second)

	// A closed window ends observation well before the deadline.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("watchdog ran %v after the window closed", elapsed)
	}
}

func TestObserveHonorsCancellation(t *testing.T) {
	sys, _, right := twoDisplays()
	sys.rects[1] = platform.Rect{X: 2100, Y: 200, Width: 800, Height: 600}
	engine := NewEngine(sys, fastTuning(), zerolog.Nop())
	watchdog := NewWatchdog(sys, engine, fastTuning(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	watchdog.Observe(ctx, 1, right, ModeNormal, time.Minute)

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("watchdog ran %v after cancellation", elapsed)
	}
}
