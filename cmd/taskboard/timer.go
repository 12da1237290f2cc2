package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskboard/internal/board"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time spent on a task",
}

func timerAction(use, short string, act func(*board.Engine, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openBoard(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if err := requireTask(e, args[0]); err != nil {
				return err
			}
			if err := act(e, cmd.Context(), args[0]); err != nil {
				return err
			}
			t, _ := e.Task(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %s elapsed\n",
				t.ID, t.TimerStatus, formatMinutes(board.DisplayElapsed(t, time.Now())))
			return nil
		},
	}
}

var timerWatchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Show a live timer; space starts or pauses, s stops, r resets, q quits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if err := requireTask(e, args[0]); err != nil {
			return err
		}
		m := newWatchModel(cmd.Context(), e, args[0], time.Now)
		_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	timerCmd.AddCommand(
		timerAction("start", "Start or resume the timer", (*board.Engine).StartTimer),
		timerAction("pause", "Pause a running timer", (*board.Engine).PauseTimer),
		timerAction("stop", "Stop the timer and record the final time", (*board.Engine).StopTimer),
		timerAction("reset", "Reset the timer to zero", (*board.Engine).ResetTimer),
		timerWatchCmd,
	)
	rootCmd.AddCommand(timerCmd)
}
