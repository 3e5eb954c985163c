package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toxicorca/launchpin/internal/pin"
	"github.com/toxicorca/launchpin/internal/placement"
	"github.com/toxicorca/launchpin/internal/platform"
)

func newLaunchCmd() *cobra.Command {
	var (
		exePath string
		monitor int
		mode    string
		observe int
		stable  bool
	)

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Launch a program and place its main window on a monitor",
		Long: `Launch a program, wait for its main window to appear, and place it on
the chosen monitor. With --observe, keep watching for the given number of
seconds and re-apply the placement if the application moves itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return &usageError{err: fmt.Errorf("launch takes no positional arguments")}
			}
			if exePath == "" {
				return &usageError{err: fmt.Errorf("missing --exe")}
			}
			if monitor < 0 {
				return &usageError{err: fmt.Errorf("missing --monitor (0-based, left to right)")}
			}

			parsedMode, err := placement.ParseMode(mode)
			if err != nil {
				return &usageError{err: err}
			}
			if observe < 0 {
				return &usageError{err: fmt.Errorf("--observe must be non-negative")}
			}

			tuning, err := loadTuning()
			if err != nil {
				return err
			}
			if stable {
				tuning.EarlyDetect = false
			}

			observeDur := time.Duration(observe) * time.Second
			if !cmd.Flags().Changed("observe") {
				observeDur = tuning.DefaultObserve
			}

			log := newLogger()

			backend, err := platform.NewLinuxBackendFromDisplay()
			if err != nil {
				return fmt.Errorf("failed to connect to display: %w", err)
			}
			defer backend.Disconnect()

			// The pipeline blocks for up to the acquisition timeout plus the
			// observation window; Ctrl-C aborts at the next poll boundary.
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runner := pin.NewRunner(backend, tuning, log)
			return runner.Run(ctx, pin.Request{
				ExePath:      exePath,
				MonitorIndex: monitor,
				Mode:         parsedMode,
				Observe:      observeDur,
			})
		},
	}

	cmd.Flags().StringVar(&exePath, "exe", "", "path to the program to launch")
	cmd.Flags().IntVar(&monitor, "monitor", -1, "monitor index (0-based, left to right)")
	cmd.Flags().StringVar(&mode, "mode", "maximize", "placement mode: maximize, workarea or normal")
	cmd.Flags().IntVar(&observe, "observe", 4, "seconds to watch and correct after placement (0 disables)")
	cmd.Flags().BoolVar(&stable, "stable", false, "wait for the window geometry to settle before placing")

	return cmd
}
