package pin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/placement"
	"github.com/toxicorca/launchpin/internal/platform"
)

// fakeSystem is a scripted window system. Windows registered with a delay
// become visible only after that many ListWindows calls, which models the
// gap between process spawn and window creation.
type fakeSystem struct {
	displays  []platform.Display
	windows   []platform.Window
	pending   map[platform.WindowID]int
	maximized map[platform.WindowID]bool
	listCalls int
}

func newFakeSystem(displays ...platform.Display) *fakeSystem {
	return &fakeSystem{
		displays:  displays,
		pending:   make(map[platform.WindowID]int),
		maximized: make(map[platform.WindowID]bool),
	}
}

// addWindow registers a window that appears after `after` enumerations.
func (f *fakeSystem) addWindow(w platform.Window, after int) {
	f.windows = append(f.windows, w)
	f.pending[w.ID] = after
}

func (f *fakeSystem) visible(id platform.WindowID) bool {
	return f.listCalls >= f.pending[id]
}

func (f *fakeSystem) find(id platform.WindowID) (*platform.Window, error) {
	for i := range f.windows {
		if f.windows[i].ID == id && f.visible(id) {
			return &f.windows[i], nil
		}
	}
	return nil, errors.New("no such window")
}

func (f *fakeSystem) Displays() ([]platform.Display, error) {
	return f.displays, nil
}

func (f *fakeSystem) ListWindows() ([]platform.Window, error) {
	f.listCalls++
	var out []platform.Window
	for _, w := range f.windows {
		if f.visible(w.ID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeSystem) WindowRect(id platform.WindowID) (platform.Rect, error) {
	w, err := f.find(id)
	if err != nil {
		return platform.Rect{}, err
	}
	return w.Bounds, nil
}

func (f *fakeSystem) IsViewable(id platform.WindowID) (bool, error) {
	_, err := f.find(id)
	return err == nil, nil
}

func (f *fakeSystem) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	w, err := f.find(id)
	if err != nil {
		return err
	}
	w.Bounds = bounds
	return nil
}

func (f *fakeSystem) Maximize(id platform.WindowID) error {
	w, err := f.find(id)
	if err != nil {
		return err
	}
	f.maximized[id] = true
	if disp, ok := platform.DisplayContaining(f.displays, w.Bounds.CenterX(), w.Bounds.CenterY()); ok {
		w.Bounds = disp.Work
	}
	return nil
}

func (f *fakeSystem) Restore(id platform.WindowID) error {
	if _, err := f.find(id); err != nil {
		return err
	}
	f.maximized[id] = false
	return nil
}

func (f *fakeSystem) IsMaximized(id platform.WindowID) (bool, error) {
	if _, err := f.find(id); err != nil {
		return false, err
	}
	return f.maximized[id], nil
}

// fakeProcess is a launched target with a fixed PID and no descendants.
type fakeProcess struct {
	pid int
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) OwnedPids(context.Context, int, time.Duration) map[int]struct{} {
	return map[int]struct{}{p.pid: {}}
}

func twoDisplays() (platform.Display, platform.Display) {
	left := platform.Display{
		ID:     0,
		Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Work:   platform.Rect{X: 0, Y: 30, Width: 1920, Height: 1050},
	}
	right := platform.Display{
		ID:     1,
		Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
		Work:   platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1040},
	}
	return left, right
}

// fastTuning shrinks every clock so the pipeline completes in milliseconds.
func fastTuning() config.Tuning {
	t := config.Default()
	t.PollInterval = time.Millisecond
	t.AcquireTimeout = 200 * time.Millisecond
	t.RelaxedTimeout = 200 * time.Millisecond
	t.ChildSamples = 0
	t.RestoreSettle = 0
	t.ParkSettle = 0
	return t
}

// testRunner wires a Runner with fake launch and name resolution. names maps
// PIDs to executable base names; launched reports whether launch ran.
func testRunner(sys platform.WindowSystem, tuning config.Tuning, proc Process, launchErr error, names map[int]string, launched *bool) *Runner {
	return &Runner{
		sys: sys,
		launch: func(exePath string, log zerolog.Logger) (Process, error) {
			if launched != nil {
				*launched = true
			}
			if launchErr != nil {
				return nil, launchErr
			}
			return proc, nil
		},
		nameOf: func(pid int) (string, error) {
			if name, ok := names[pid]; ok {
				return name, nil
			}
			return "", fmt.Errorf("no process %d", pid)
		},
		tuning: tuning,
		log:    zerolog.Nop(),
	}
}

// fakeExe creates a file standing in for the target executable.
func fakeExe(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPlacesWindowOnTargetMonitor(t *testing.T) {
	left, right := twoDisplays()
	sys := newFakeSystem(left, right)

	// A pre-existing unrelated window plus the app's main window, which
	// shows up a few scans after launch.
	sys.addWindow(platform.Window{
		ID: 10, PID: 50, Kind: platform.KindNormal,
		Bounds: platform.Rect{X: 0, Y: 40, Width: 1200, Height: 800},
	}, 0)
	sys.addWindow(platform.Window{
		ID: 20, PID: 200, Kind: platform.KindNormal,
		Bounds: platform.Rect{X: 300, Y: 200, Width: 1000, Height: 700},
	}, 3)

	runner := testRunner(sys, fastTuning(), &fakeProcess{pid: 200}, nil, map[int]string{200: "editor"}, nil)
	err := runner.Run(context.Background(), Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 1,
		Mode:         placement.ModeMaximize,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !sys.maximized[20] {
		t.Error("main window should be maximized")
	}
	w, _ := sys.find(20)
	if w.Bounds != right.Work {
		t.Errorf("main window rect = %+v, want %+v", w.Bounds, right.Work)
	}
	if sys.maximized[10] {
		t.Error("unrelated pre-existing window must not be touched")
	}
}

func TestRunRejectsMissingExecutable(t *testing.T) {
	left, right := twoDisplays()
	launched := false
	runner := testRunner(newFakeSystem(left, right), fastTuning(), &fakeProcess{pid: 200}, nil, nil, &launched)

	err := runner.Run(context.Background(), Request{
		ExePath:      "/nonexistent/app",
		MonitorIndex: 0,
		Mode:         placement.ModeMaximize,
	})

	var invalid *InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidArgumentError", err)
	}
	if launched {
		t.Error("nothing may be launched when validation fails")
	}
}

func TestRunRejectsDirectoryAsExecutable(t *testing.T) {
	left, right := twoDisplays()
	runner := testRunner(newFakeSystem(left, right), fastTuning(), &fakeProcess{pid: 200}, nil, nil, nil)

	err := runner.Run(context.Background(), Request{
		ExePath:      t.TempDir(),
		MonitorIndex: 0,
		Mode:         placement.ModeMaximize,
	})

	var invalid *InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidArgumentError", err)
	}
}

func TestRunRejectsOutOfRangeMonitor(t *testing.T) {
	left, right := twoDisplays()
	launched := false
	runner := testRunner(newFakeSystem(left, right), fastTuning(), &fakeProcess{pid: 200}, nil, nil, &launched)

	err := runner.Run(context.Background(), Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 2,
		Mode:         placement.ModeMaximize,
	})

	var invalid *InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidArgumentError", err)
	}
	if launched {
		t.Error("nothing may be launched when the monitor index is invalid")
	}
}

func TestRunRejectsUnknownMode(t *testing.T) {
	left, right := twoDisplays()
	runner := testRunner(newFakeSystem(left, right), fastTuning(), &fakeProcess{pid: 200}, nil, nil, nil)

	err := runner.Run(context.Background(), Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 0,
		Mode:         placement.Mode("fullscreen"),
	})

	var invalid *InvalidArgumentError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidArgumentError", err)
	}
}

func TestRunWrapsLaunchFailure(t *testing.T) {
	left, right := twoDisplays()
	cause := errors.New("permission denied")
	runner := testRunner(newFakeSystem(left, right), fastTuning(), nil, cause, nil, nil)

	err := runner.Run(context.Background(), Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 0,
		Mode:         placement.ModeMaximize,
	})

	var launch *LaunchError
	if !errors.As(err, &launch) {
		t.Fatalf("got %v, want LaunchError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("LaunchError must wrap the underlying cause")
	}
}

func TestRunReportsWindowNotFound(t *testing.T) {
	left, right := twoDisplays()
	sys := newFakeSystem(left, right)

	tuning := fastTuning()
	tuning.AcquireTimeout = 20 * time.Millisecond
	tuning.RelaxedTimeout = 20 * time.Millisecond

	runner := testRunner(sys, tuning, &fakeProcess{pid: 200}, nil, nil, nil)
	err := runner.Run(context.Background(), Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 0,
		Mode:         placement.ModeMaximize,
	})

	var notFound *WindowNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want WindowNotFoundError", err)
	}
	if notFound.Elapsed <= 0 {
		t.Error("WindowNotFoundError should carry the elapsed search time")
	}
}

func TestRunFallsBackToRelaxedSearch(t *testing.T) {
	left, right := twoDisplays()
	sys := newFakeSystem(left, right)

	// The window belongs to an unrelated PID with a non-matching name and
	// appears only after the primary attempt has timed out. Only the
	// novelty-based relaxed attempt can find it.
	sys.addWindow(platform.Window{
		ID: 30, PID: 999, Kind: platform.KindNormal,
		Bounds: platform.Rect{X: 100, Y: 100, Width: 1000, Height: 700},
	}, 100)

	tuning := fastTuning()
	tuning.AcquireTimeout = 25 * time.Millisecond
	tuning.RelaxedTimeout = 2 * time.Second

	runner := testRunner(sys, tuning, &fakeProcess{pid: 200}, nil, nil, nil)
	err := runner.Run(context.Background(), Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 1,
		Mode:         placement.ModeFitWorkArea,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	w, findErr := sys.find(30)
	if findErr != nil {
		t.Fatal(findErr)
	}
	if w.Bounds != right.Work {
		t.Errorf("window rect = %+v, want %+v", w.Bounds, right.Work)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	left, right := twoDisplays()
	sys := newFakeSystem(left, right)

	tuning := fastTuning()
	tuning.AcquireTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	runner := testRunner(sys, tuning, &fakeProcess{pid: 200}, nil, nil, nil)
	start := time.Now()
	err := runner.Run(ctx, Request{
		ExePath:      fakeExe(t),
		MonitorIndex: 0,
		Mode:         placement.ModeMaximize,
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run took %v after cancellation", elapsed)
	}
}
