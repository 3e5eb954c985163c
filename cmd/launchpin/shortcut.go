package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toxicorca/launchpin/internal/placement"
	"github.com/toxicorca/launchpin/internal/platform"
	"github.com/toxicorca/launchpin/internal/shortcut"
)

func newShortcutCmd() *cobra.Command {
	var (
		exePath string
		monitor int
		mode    string
		observe int
		name    string
		dir     string
	)

	cmd := &cobra.Command{
		Use:   "shortcut",
		Short: "Create a desktop shortcut that replays a launch",
		Long: `Create a .desktop file that launches the program on the chosen monitor
without opening launchpin interactively. The shortcut is written to the
desktop directory unless --dir says otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return &usageError{err: fmt.Errorf("shortcut takes no positional arguments")}
			}
			if exePath == "" {
				return &usageError{err: fmt.Errorf("missing --exe")}
			}
			if info, err := os.Stat(exePath); err != nil || info.IsDir() {
				return &usageError{err: fmt.Errorf("invalid --exe path: %s", exePath)}
			}
			if _, err := placement.ParseMode(mode); err != nil {
				return &usageError{err: err}
			}
			if observe < 0 {
				return &usageError{err: fmt.Errorf("--observe must be non-negative")}
			}

			// Validate the index against the live enumeration so the
			// shortcut is not born pointing at a missing monitor.
			backend, err := platform.NewLinuxBackendFromDisplay()
			if err != nil {
				return fmt.Errorf("failed to connect to display: %w", err)
			}
			defer backend.Disconnect()

			displays, err := backend.Displays()
			if err != nil {
				return fmt.Errorf("failed to enumerate monitors: %w", err)
			}
			if monitor < 0 || monitor >= len(displays) {
				return &usageError{err: fmt.Errorf("monitor index %d out of range (found %d)", monitor, len(displays))}
			}

			if dir == "" {
				dir, err = shortcut.DesktopDir()
				if err != nil {
					return err
				}
			}

			self, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to resolve launchpin executable: %w", err)
			}

			path, err := shortcut.Write(dir, name, self, shortcut.Invocation{
				ExePath:        exePath,
				MonitorIndex:   monitor,
				Mode:           mode,
				ObserveSeconds: observe,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Shortcut created: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&exePath, "exe", "", "path to the program the shortcut launches")
	cmd.Flags().IntVar(&monitor, "monitor", -1, "monitor index (0-based, left to right)")
	cmd.Flags().StringVar(&mode, "mode", "maximize", "placement mode: maximize, workarea or normal")
	cmd.Flags().IntVar(&observe, "observe", 4, "seconds to watch and correct after placement")
	cmd.Flags().StringVar(&name, "name", "", "shortcut name (default: program name + \" (pinned)\")")
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write the shortcut into (default: desktop)")

	return cmd
}
