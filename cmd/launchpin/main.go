// launchpin launches an application, finds its main window and pins it to a
// chosen monitor.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/toxicorca/launchpin/internal/config"
	"github.com/toxicorca/launchpin/internal/pin"
)

// Exit codes: 0 success, 1 runtime failure during acquisition/placement,
// 2 invalid arguments.
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
)

// usageError marks argument-level failures so they exit with code 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

var (
	flagDebug      bool
	flagConfigPath string
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := &cobra.Command{
		Use:           "launchpin",
		Short:         "Launch a program and pin its window to a chosen monitor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to tuning config file")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newLaunchCmd(), newMonitorsCmd(), newShortcutCmd())
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var usage *usageError
		var invalid *pin.InvalidArgumentError
		if errors.As(err, &usage) || errors.As(err, &invalid) {
			return exitUsage
		}
		return exitRuntime
	}
	return exitOK
}

// newLogger builds the CLI logger: human-readable console output on stderr,
// debug level behind the --debug flag.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadTuning reads the tuning config, honoring --config.
func loadTuning() (config.Tuning, error) {
	if flagConfigPath != "" {
		return config.LoadFromPath(flagConfigPath)
	}
	return config.Load()
}
