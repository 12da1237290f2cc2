package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"taskboard/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create, edit, move and delete tasks",
}

// task add
var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the end of the To Do column",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var (
	taskAddDescription string
	taskAddPriority    string
	taskAddDue         string
	taskAddEstimate    int
	taskAddAssignee    string
)

// task edit
var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the descriptive fields of a task",
	Long: `Edit the descriptive fields of a task.

Only flags that are given are changed. Pass an empty --assignee to unassign.
Use "task move" to change status or position.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskEdit,
}

var (
	taskEditTitle       string
	taskEditDescription string
	taskEditPriority    string
	taskEditDue         string
	taskEditEstimate    int
	taskEditAssignee    string
)

// task rm
var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

// task move
var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <status> [index]",
	Short: "Move a task to a column position",
	Long: `Move a task to a column position.

Status is one of todo, in_progress or completed. The index is zero-based
and defaults to the end of the column.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runTaskMove,
}

// task reorder
var taskReorderCmd = &cobra.Command{
	Use:   "reorder <status> <from> <to>",
	Short: "Reorder a task within one column by index",
	Args:  cobra.ExactArgs(3),
	RunE:  runTaskReorder,
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskAddDescription, "description", "d", "", "Task description")
	taskAddCmd.Flags().StringVarP(&taskAddPriority, "priority", "p", string(models.PriorityMedium), "Priority: low, medium or high")
	taskAddCmd.Flags().StringVar(&taskAddDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().IntVar(&taskAddEstimate, "estimate", 0, "Estimated minutes")
	taskAddCmd.Flags().StringVar(&taskAddAssignee, "assignee", "", "Person id to assign")

	taskEditCmd.Flags().StringVarP(&taskEditTitle, "title", "t", "", "New title")
	taskEditCmd.Flags().StringVarP(&taskEditDescription, "description", "d", "", "New description")
	taskEditCmd.Flags().StringVarP(&taskEditPriority, "priority", "p", "", "New priority")
	taskEditCmd.Flags().StringVar(&taskEditDue, "due", "", "New due date (YYYY-MM-DD)")
	taskEditCmd.Flags().IntVar(&taskEditEstimate, "estimate", 0, "New estimate in minutes")
	taskEditCmd.Flags().StringVar(&taskEditAssignee, "assignee", "", "New assignee person id")

	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskRmCmd, taskMoveCmd, taskReorderCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	e, err := openBoard(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	created, err := e.CreateTask(cmd.Context(), models.TaskInput{
		Title:            strings.Join(args, " "),
		Description:      taskAddDescription,
		Priority:         models.Priority(taskAddPriority),
		DueDate:          taskAddDue,
		EstimatedMinutes: taskAddEstimate,
		AssigneeID:       taskAddAssignee,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", created.ID)
	return nil
}

// editPatch builds a patch from the flags the user actually set.
func editPatch(flags *pflag.FlagSet) models.TaskPatch {
	var patch models.TaskPatch
	if flags.Changed("title") {
		patch.Title = &taskEditTitle
	}
	if flags.Changed("description") {
		patch.Description = &taskEditDescription
	}
	if flags.Changed("priority") {
		p := models.Priority(taskEditPriority)
		patch.Priority = &p
	}
	if flags.Changed("due") {
		patch.DueDate = &taskEditDue
	}
	if flags.Changed("estimate") {
		patch.EstimatedMinutes = &taskEditEstimate
	}
	if flags.Changed("assignee") {
		patch.AssigneeID = &taskEditAssignee
	}
	return patch
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	patch := editPatch(cmd.Flags())
	if patch.IsZero() {
		return fmt.Errorf("nothing to change; pass at least one flag")
	}

	e, err := openBoard(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	if err := requireTask(e, args[0]); err != nil {
		return err
	}
	updated, err := e.UpdateTask(cmd.Context(), args[0], patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", updated.ID)
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	e, err := openBoard(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	if err := requireTask(e, args[0]); err != nil {
		return err
	}
	if err := e.DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func parseStatus(s string) (models.Status, error) {
	status := models.Status(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q (want todo, in_progress or completed)", s)
	}
	return status, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return n, nil
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	status, err := parseStatus(args[1])
	if err != nil {
		return err
	}

	e, err := openBoard(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	current, ok := e.Task(args[0])
	if !ok {
		return fmt.Errorf("task %s not found", args[0])
	}

	index := len(e.Column(status))
	if current.Status == status {
		index--
	}
	if len(args) == 3 {
		if index, err = parseIndex(args[2]); err != nil {
			return err
		}
	}
	return e.MoveTask(cmd.Context(), args[0], status, index)
}

func runTaskReorder(cmd *cobra.Command, args []string) error {
	status, err := parseStatus(args[0])
	if err != nil {
		return err
	}
	from, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	to, err := parseIndex(args[2])
	if err != nil {
		return err
	}

	e, err := openBoard(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	return e.ReorderTask(cmd.Context(), status, from, to)
}
