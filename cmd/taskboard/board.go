package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/models"
)

var (
	boardQuery    string
	boardPriority string
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the board columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := models.Priority(boardPriority)
		if p != "" && !p.Valid() {
			return fmt.Errorf("unknown priority %q", boardPriority)
		}

		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		e.SetSearchQuery(boardQuery)
		e.SetPriorityFilter(p)

		now := time.Now()
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(e.Board(), board.Today(now), now))
		return nil
	},
}

func init() {
	boardCmd.Flags().StringVarP(&boardQuery, "query", "q", "", "Only show tasks whose title or description contains this text")
	boardCmd.Flags().StringVarP(&boardPriority, "priority", "p", "", "Only show tasks with this priority (low, medium, high)")
	rootCmd.AddCommand(boardCmd)
}
