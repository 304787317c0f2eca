package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List the resolved view without writing anything",
	Long: `List resolves the pack set at root (default ".") and prints every
selected path with its uncompressed size, one per line. Container ranges
are validated; nothing is read or written beyond that.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	set, _, err := openSet(args, true, logger)
	if err != nil {
		return err
	}
	defer set.Close()

	summary, err := set.Run(cmd.Context())
	if err != nil {
		return err
	}

	printListing(cmd, summary)
	logger.Info("listing complete", "files", summary.Listed, "failed", summary.Failed)
	return failIfAnyFailed(summary)
}
