package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/voyago/updaterun/internal/runlog"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded in the run log",
	Long:  `History parses the banner blocks of the run log into run records and lists them, newest last.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show only the last N runs (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := Config()

	runs, err := runlog.ParseFile(cfg.LogPath())
	if err != nil {
		return err
	}

	if historyLimit > 0 && len(runs) > historyLimit {
		runs = runs[len(runs)-historyLimit:]
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(struct {
			Runs  []runlog.Run `json:"runs"`
			Count int          `json:"count"`
		}{runs, len(runs)}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Started", "Completed", "Duration", "Output Lines", "State")

	for i, run := range runs {
		completed := "-"
		duration := "-"
		state := "incomplete"
		if run.Complete {
			completed = run.CompletedAt.Format(runlog.TimestampLayout)
			duration = run.Duration().String()
			state = "complete"
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			run.StartedAt.Format(runlog.TimestampLayout),
			completed,
			duration,
			fmt.Sprintf("%d", run.OutputLines),
			state,
		)
	}

	table.Render()
	fmt.Printf("\nTotal runs: %d (log: %s)\n", len(runs), cfg.LogPath())
	return nil
}
