package launcher

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
)

// Process is a launched target application. It tracks the spawned PID and
// can sample the descendant tree to build the owned-process-ID set.
type Process struct {
	pid int
	cmd *exec.Cmd
	log zerolog.Logger
}

// Start launches the executable detached from the current session, with no
// controlling terminal and no inherited stdio. The child is reaped in the
// background; launchpin never waits for the application to exit.
func Start(exePath string, log zerolog.Logger) (*Process, error) {
	cmd := exec.Command(exePath)
	cmd.Dir = filepath.Dir(exePath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", exePath, err)
	}

	p := &Process{pid: cmd.Process.Pid, cmd: cmd, log: log}
	log.Debug().Int("pid", p.pid).Str("exe", exePath).Msg("process started")

	go func() {
		// Reap so the child never lingers as a zombie. The exit status is
		// irrelevant: the app outliving launchpin is the normal case.
		_ = cmd.Wait()
	}()

	return p, nil
}

// Pid returns the directly spawned process ID.
func (p *Process) Pid() int {
	return p.pid
}

// OwnedPids samples the process's descendant tree `samples` times, `every`
// apart, and returns the union of all PIDs seen. Repeated sampling matters:
// many applications spawn through a short-lived launcher stub, so the
// process that will own the main window may only appear (as a grandchild)
// some hundreds of milliseconds after spawn.
func (p *Process) OwnedPids(ctx context.Context, samples int, every time.Duration) map[int]struct{} {
	owned := map[int]struct{}{p.pid: {}}

	for i := 0; i < samples; i++ {
		if parent, err := process.NewProcess(int32(p.pid)); err == nil {
			collectDescendants(parent, owned)
		}

		select {
		case <-ctx.Done():
			return owned
		case <-time.After(every):
		}
	}

	p.log.Debug().Int("pids", len(owned)).Msg("owned process set collected")
	return owned
}

// collectDescendants walks the child tree breadth-first, adding every PID to
// the set. Processes that exit mid-walk are skipped.
func collectDescendants(root *process.Process, owned map[int]struct{}) {
	queue := []*process.Process{root}
	for len(queue) > 0 {
		proc := queue[0]
		queue = queue[1:]

		children, err := proc.Children()
		if err != nil {
			continue
		}
		for _, child := range children {
			pid := int(child.Pid)
			if _, seen := owned[pid]; seen {
				continue
			}
			owned[pid] = struct{}{}
			queue = append(queue, child)
		}
	}
}

// NameOfPid resolves a PID to its executable base name, lower-cased for
// case-insensitive comparison. Returns an error for exited processes.
func NameOfPid(pid int) (string, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	name, err := proc.Name()
	if err != nil {
		return "", err
	}
	return strings.ToLower(name), nil
}

// ExeBaseName returns the lower-cased base name of an executable path, the
// form used for candidate name matching.
func ExeBaseName(exePath string) string {
	return strings.ToLower(filepath.Base(exePath))
}
