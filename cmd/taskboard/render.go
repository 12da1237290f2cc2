package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/models"
)

const columnWidth = 34

var (
	colorGray   = lipgloss.Color("245")
	colorRed    = lipgloss.Color("203")
	colorYellow = lipgloss.Color("221")
	colorGreen  = lipgloss.Color("114")
	colorBlue   = lipgloss.Color("75")

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1).
			Width(columnWidth)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(colorGray)
	overdueStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

var columnTitles = map[models.Status]string{
	models.StatusTodo:       "To Do",
	models.StatusInProgress: "In Progress",
	models.StatusCompleted:  "Completed",
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return lipgloss.NewStyle().Foreground(colorRed)
	case models.PriorityMedium:
		return lipgloss.NewStyle().Foreground(colorYellow)
	}
	return lipgloss.NewStyle().Foreground(colorGreen)
}

// formatMinutes renders minutes as "45m" or "2h 05m".
func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func renderCard(t models.Task, today string, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(t.ID + " "))
	b.WriteString(priorityStyle(t.Priority).Render(string(t.Priority)))

	if t.DueDate != "" {
		b.WriteString(metaStyle.Render(" due " + t.DueDate))
	}
	if board.IsOverdue(t, today) {
		b.WriteString(" " + overdueStyle.Render("OVERDUE"))
	}

	if len(t.Todos) > 0 {
		done := 0
		for _, td := range t.Todos {
			if td.Completed {
				done++
			}
		}
		b.WriteString("\n" + metaStyle.Render(fmt.Sprintf("todos %d/%d", done, len(t.Todos))))
	}

	tracked := t.TimerStatus != "" && t.TimerStatus != models.TimerIdle
	if tracked || t.EstimatedMinutes > 0 {
		timer := formatMinutes(board.DisplayElapsed(t, now))
		if t.EstimatedMinutes > 0 {
			timer += " / " + formatMinutes(t.EstimatedMinutes)
		}
		style := metaStyle
		if t.TimerStatus == models.TimerRunning {
			style = lipgloss.NewStyle().Foreground(colorBlue)
		}
		b.WriteString("\n" + style.Render("timer "+timer))
		if tracked {
			b.WriteString(metaStyle.Render(" (" + string(t.TimerStatus) + ")"))
		}
	}
	return b.String()
}

// renderBoard lays the columns out side by side.
func renderBoard(cols []board.Column, today string, now time.Time) string {
	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		parts := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", columnTitles[col.Status], len(col.Tasks)))}
		if len(col.Tasks) == 0 {
			parts = append(parts, metaStyle.Render("no tasks"))
		}
		for _, t := range col.Tasks {
			parts = append(parts, "", renderCard(t, today, now))
		}
		rendered = append(rendered, columnStyle.Render(strings.Join(parts, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderStats(s board.Stats) string {
	rows := []string{
		headerStyle.Render("Board summary"),
		fmt.Sprintf("Total        %d", s.Total),
		fmt.Sprintf("To Do        %d", s.Todo),
		fmt.Sprintf("In Progress  %d", s.InProgress),
		fmt.Sprintf("Completed    %d (%d%%)", s.Completed, s.CompletionRate),
	}
	overdue := fmt.Sprintf("Overdue      %d", s.Overdue)
	if s.Overdue > 0 {
		overdue = overdueStyle.Render(overdue)
	}
	rows = append(rows, overdue)
	return strings.Join(rows, "\n")
}
