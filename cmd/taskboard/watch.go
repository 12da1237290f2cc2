package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/models"
)

// timerBoard is the part of the board engine the watch view drives.
type timerBoard interface {
	Task(id string) (models.Task, bool)
	StartTimer(ctx context.Context, id string) error
	PauseTimer(ctx context.Context, id string) error
	StopTimer(ctx context.Context, id string) error
	ResetTimer(ctx context.Context, id string) error
}

type tickMsg time.Time

type actionDoneMsg struct{ err error }

// watchModel renders one task's timer and refreshes the elapsed time every
// second. Nothing is written while it merely ticks.
type watchModel struct {
	ctx   context.Context
	board timerBoard
	id    string
	now   func() time.Time

	task models.Task
	at   time.Time
	err  error
	busy bool
}

func newWatchModel(ctx context.Context, b timerBoard, id string, now func() time.Time) watchModel {
	t, _ := b.Task(id)
	return watchModel{ctx: ctx, board: b, id: id, now: now, task: t, at: now()}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) act(fn func(context.Context, string) error) (watchModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	ctx, id := m.ctx, m.id
	return m, func() tea.Msg { return actionDoneMsg{err: fn(ctx, id)} }
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.at = m.now()
		return m, tick()

	case actionDoneMsg:
		m.busy = false
		m.err = msg.err
		if t, ok := m.board.Task(m.id); ok {
			m.task = t
		}
		m.at = m.now()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			if m.task.TimerStatus == models.TimerRunning {
				return m.act(m.board.PauseTimer)
			}
			return m.act(m.board.StartTimer)
		case "s":
			return m.act(m.board.StopTimer)
		case "r":
			return m.act(m.board.ResetTimer)
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.task.Title))
	b.WriteString("\n\n")

	elapsed := board.DisplayElapsed(m.task, m.at)
	clock := lipgloss.NewStyle().Bold(true).Foreground(colorBlue).Render(formatMinutes(elapsed))
	b.WriteString(clock)
	if m.task.EstimatedMinutes > 0 {
		b.WriteString(metaStyle.Render(" of " + formatMinutes(m.task.EstimatedMinutes)))
	}
	status := m.task.TimerStatus
	if status == "" {
		status = models.TimerIdle
	}
	b.WriteString(metaStyle.Render(fmt.Sprintf("  [%s]", status)))
	if m.task.OverBudget {
		b.WriteString(" " + overdueStyle.Render("OVER BUDGET"))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + overdueStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + metaStyle.Render("space start/pause  s stop  r reset  q quit") + "\n")
	return b.String()
}
