package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toxicorca/launchpin/internal/platform"
)

func newMonitorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List monitors in index order",
		Long: `List all monitors with their index, resolution, position and usable work
area. The index shown here is the value to pass to 'launch --monitor'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return &usageError{err: fmt.Errorf("monitors takes no arguments")}
			}

			backend, err := platform.NewLinuxBackendFromDisplay()
			if err != nil {
				return fmt.Errorf("failed to connect to display: %w", err)
			}
			defer backend.Disconnect()

			displays, err := backend.Displays()
			if err != nil {
				return fmt.Errorf("failed to enumerate monitors: %w", err)
			}
			if len(displays) == 0 {
				return fmt.Errorf("no monitors detected")
			}

			for _, d := range displays {
				fmt.Printf("%d: %dx%d @ (%d,%d)  work %dx%d @ (%d,%d)  %s\n",
					d.ID,
					d.Bounds.Width, d.Bounds.Height, d.Bounds.X, d.Bounds.Y,
					d.Work.Width, d.Work.Height, d.Work.X, d.Work.Y,
					d.Name)
			}
			return nil
		},
	}
}
