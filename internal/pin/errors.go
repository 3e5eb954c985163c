package pin

import (
	"fmt"
	"time"
)

// InvalidArgumentError reports a bad request (missing executable,
// out-of-range monitor index, unsupported mode). The operation never
// starts: no process is launched and no window search runs.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// LaunchError reports that the target executable could not be started.
// Fatal to the operation; not retried.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// WindowNotFoundError reports that both acquisition attempts (primary and
// relaxed) exhausted their timeouts without finding a main window.
type WindowNotFoundError struct {
	Elapsed time.Duration
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("could not find a main window for the launched application (searched %s)",
		e.Elapsed.Round(time.Second))
}
