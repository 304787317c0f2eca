package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/seriate/packset"
)

// version is the semantic version (set via -ldflags).
var version = "dev"

var (
	// verbose enables debug logging.
	verbose bool
	// output overrides the extraction destination.
	output string
	// globFile points at a pattern file narrowing the selection.
	globFile string
	// workers bounds extraction concurrency.
	workers int

	rootCmd = &cobra.Command{
		Use:   "packset",
		Short: "Resolve and extract versioned pack archives",
		Long: `packset reads a pack set directory (a client/ base plus update
generations under versions/), resolves the newest version of every file
across generations, and extracts, lists, or verifies the result.

Damaged version catalogs and unreadable files are skipped with a warning;
the exit status is non-zero whenever any selected file failed.`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&globFile, "globs", "g", "", "file of glob patterns selecting paths to process")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "concurrent workers (0 = auto, <0 = serial)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(verifyCmd)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// newLogger builds the CLI's slog logger on a charmbracelet handler.
func newLogger() *slog.Logger {
	opts := log.Options{ReportTimestamp: false}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(os.Stderr, opts))
}

// openSet opens the pack set named by args (default ".") with the shared
// flag configuration applied. The filter built from --globs is returned
// alongside the set for commands that select files themselves.
func openSet(args []string, dryRun bool, logger *slog.Logger) (*packset.Set, packset.PathFilter, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	var filter packset.PathFilter
	if globFile != "" {
		f, err := loadGlobFilter(globFile, logger)
		if err != nil {
			return nil, nil, err
		}
		filter = f
	}

	set, err := packset.Open(packset.Config{
		Root:       root,
		OutputRoot: output,
		DryRun:     dryRun,
		Filter:     filter,
		Workers:    workers,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return set, filter, nil
}

// failIfAnyFailed turns per-file failures into a non-zero exit status.
func failIfAnyFailed(s *packset.Summary) error {
	if s.Ok() {
		return nil
	}
	return &ExitError{
		Code: 1,
		Err:  fmt.Errorf("%d of %d files failed", s.Failed, len(s.Outcomes)),
	}
}
