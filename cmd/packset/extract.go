package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seriate/packset"
)

var dryRun bool

var extractCmd = &cobra.Command{
	Use:   "extract [root]",
	Short: "Extract the newest view of every selected file",
	Long: `Extract resolves the pack set at root (default ".") and writes the
newest version of every selected file under the output directory, which
defaults to the root itself. Files are verified against their catalog
checksums and committed atomically; a file that fails is reported and the
rest of the run continues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&output, "output", "o", "", "directory to extract into (default: the pack set root)")
	extractCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "list what would be extracted without writing")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	set, _, err := openSet(args, dryRun, logger)
	if err != nil {
		return err
	}
	defer set.Close()

	summary, err := set.Run(cmd.Context())
	if err != nil {
		return err
	}

	if dryRun {
		printListing(cmd, summary)
		logger.Info("dry run complete", "files", summary.Listed, "failed", summary.Failed)
	} else {
		logger.Info("extraction complete", "written", summary.Written, "failed", summary.Failed)
	}
	return failIfAnyFailed(summary)
}

// printListing writes one line per listed file to stdout.
func printListing(cmd *cobra.Command, s *packset.Summary) {
	out := cmd.OutOrStdout()
	for _, o := range s.Outcomes {
		if o.Status == packset.StatusListed {
			fmt.Fprintf(out, "%s\t%d\n", o.Path, o.Bytes)
		}
	}
}
