package main

import (
	"fmt"
	"time"

	"github.com/ezix/ezix/pkg/storage"
	"github.com/ezix/ezix/pkg/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [RUN-ID]",
	Short: "Show recorded apply runs",
	Long: `Without arguments, list recent runs newest first. With a run id (or a
unique prefix of one), show every action of that run.

Examples:
  ezix history
  ezix history 3f2a`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("data-dir", defaultDataDir, "Directory holding the apply journal")
	historyCmd.Flags().Int("limit", 20, "Number of runs to list (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := storage.NewBoltStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		run, err := store.GetRun(args[0])
		if err != nil {
			return err
		}
		printRun(cmd, run)
		return nil
	}

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s\n", run.ID, storage.Summary(run))
	}
	return nil
}

func printRun(cmd *cobra.Command, run *types.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Kind:     %s\n", run.Kind)
	fmt.Fprintf(out, "Policy:   %s\n", run.Policy)
	fmt.Fprintf(out, "Status:   %s\n", run.Status)
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Duration: %s\n", run.Duration().Round(time.Millisecond))
	if run.Error != "" {
		fmt.Fprintf(out, "Error:    %s\n", run.Error)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%-24s %-8s %-10s %s\n", "MODULE", "PHASE", "STATUS", "ERROR")
	for _, o := range run.Outcomes {
		fmt.Fprintf(out, "%-24s %-8s %-10s %s\n", o.Module, o.Phase, o.Status, o.Error)
	}
}
