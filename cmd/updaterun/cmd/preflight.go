package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/voyago/updaterun/internal/preflight"
)

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Verify the update environment without running the update",
	Long: `Preflight checks that a scheduled run would find everything it needs:
the update script, the runtime (optionally at a minimum version), and a
writable log directory. Exits non-zero when any check fails.`,
	Args: cobra.NoArgs,
	RunE: runPreflight,
}

func init() {
	rootCmd.AddCommand(preflightCmd)
}

func runPreflight(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	report := preflight.RunChecks(ctx, Config())

	if IsJSONOutput() {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
	} else {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Check", "OK", "Detail")
		for _, check := range report.Checks {
			ok := "no"
			if check.OK {
				ok = "yes"
			}
			table.Append(check.Name, ok, check.Detail)
		}
		table.Render()

		host := report.Host
		fmt.Printf("\nHost: %s (%s/%s), %s, %d threads, %s RAM\n",
			host.Hostname, host.OS, host.Architecture, host.CPUModel,
			host.CPUThreads, host.RAMHuman)
	}

	if !report.Passed() {
		return fmt.Errorf("preflight failed")
	}
	return nil
}
