package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/models"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage the checklist of a task",
}

var todoAddCmd = &cobra.Command{
	Use:   "add <task-id> <title>",
	Short: "Append a checklist entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if err := requireTask(e, args[0]); err != nil {
			return err
		}
		return e.AddTodo(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var todoToggleCmd = &cobra.Command{
	Use:   "toggle <task-id> <todo-id>",
	Short: "Check or uncheck an entry; checking the last one completes the task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if err := requireTodo(e, args[0], args[1]); err != nil {
			return err
		}
		if err := e.ToggleTodo(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		if t, _ := e.Task(args[0]); t.Status == models.StatusCompleted {
			fmt.Fprintf(cmd.OutOrStdout(), "task %s is completed\n", t.ID)
		}
		return nil
	},
}

var todoRmCmd = &cobra.Command{
	Use:   "rm <task-id> <todo-id>",
	Short: "Remove a checklist entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		if err := requireTodo(e, args[0], args[1]); err != nil {
			return err
		}
		return e.DeleteTodo(cmd.Context(), args[0], args[1])
	},
}

var todoListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List the checklist of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openBoard(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		t, ok := e.Task(args[0])
		if !ok {
			return fmt.Errorf("task %s not found", args[0])
		}
		for _, td := range t.Todos {
			mark := " "
			if td.Completed {
				mark = "x"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s\n", mark, td.ID, td.Title)
		}
		return nil
	},
}

func requireTodo(e *board.Engine, taskID, todoID string) error {
	t, ok := e.Task(taskID)
	if !ok {
		return fmt.Errorf("task %s not found", taskID)
	}
	for _, td := range t.Todos {
		if td.ID == todoID {
			return nil
		}
	}
	return fmt.Errorf("todo %s not found on task %s", todoID, taskID)
}

func init() {
	todoCmd.AddCommand(todoAddCmd, todoToggleCmd, todoRmCmd, todoListCmd)
	rootCmd.AddCommand(todoCmd)
}
