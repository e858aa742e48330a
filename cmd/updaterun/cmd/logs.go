package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voyago/updaterun/internal/runlog"
)

var logsBlocks int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the raw run log",
	Long:  `Logs prints the run log as captured: banners plus the update program's combined output.`,
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVar(&logsBlocks, "blocks", 0, "print only the last N banner blocks (0 = whole log)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := Config()

	f, err := os.Open(cfg.LogPath())
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No run log yet at %s\n", cfg.LogPath())
			return nil
		}
		return err
	}
	defer f.Close()

	text, err := runlog.LastBlocks(f, logsBlocks)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
