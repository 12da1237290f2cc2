package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the board and list overdue tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		stats := e.Stats()
		overdue := e.Overdue()
		out := cmd.OutOrStdout()

		if statsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"stats": stats, "overdue": overdue})
		}

		fmt.Fprintln(out, renderStats(stats))
		for _, t := range overdue {
			fmt.Fprintf(out, "  %s  %s (due %s)\n", t.ID, t.Title, t.DueDate)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print JSON instead of text")
	rootCmd.AddCommand(statsCmd)
}
