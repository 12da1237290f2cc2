package board

import (
	"math"
	"strings"
	"time"

	"taskboard/internal/models"
)

// Today formats now as the UTC calendar date used for due and completion
// dates.
func Today(now time.Time) string {
	return now.UTC().Format(time.DateOnly)
}

// IsOverdue reports whether an open task is late: its due date is before
// today, or its timer finished over the estimate. Completed tasks are never
// overdue. Dates compare as strings because the layout is fixed-width.
func IsOverdue(t models.Task, today string) bool {
	if t.Status == models.StatusCompleted {
		return false
	}
	if t.OverBudget {
		return true
	}
	return t.DueDate != "" && t.DueDate < today
}

// PriorityRank orders priorities from most to least urgent.
func PriorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	}
	return 3
}

// Filter narrows the board view. Zero values match everything.
type Filter struct {
	Query    string
	Priority models.Priority
}

// Match reports whether t passes the filter. The query matches title or
// description case-insensitively.
func (f Filter) Match(t models.Task) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return f.Priority == "" || t.Priority == f.Priority
}

// Column is one rendered board column.
type Column struct {
	Status models.Status
	Tasks  []models.Task
}

// BuildBoard derives the filtered, ordered columns from a snapshot. It is
// recomputed from scratch on every call.
func BuildBoard(tasks []models.Task, f Filter) []Column {
	var matched []models.Task
	for _, t := range tasks {
		if f.Match(t) {
			matched = append(matched, t)
		}
	}
	cols := make([]Column, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		cols = append(cols, Column{Status: s, Tasks: SortColumn(matched, s)})
	}
	return cols
}

// Stats summarizes the whole board, ignoring filters.
type Stats struct {
	Total          int `json:"total"`
	Todo           int `json:"todo"`
	InProgress     int `json:"inProgress"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completionRate"`
}

// ComputeStats counts tasks per column and overdue tasks. CompletionRate is
// the rounded percentage of completed tasks, 0 for an empty board.
func ComputeStats(tasks []models.Task, today string) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusTodo:
			s.Todo++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusCompleted:
			s.Completed++
		}
		if IsOverdue(t, today) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// SetSearchQuery changes the free-text filter of Board.
func (e *Engine) SetSearchQuery(q string) {
	e.mu.Lock()
	e.filter.Query = q
	e.mu.Unlock()
}

// SetPriorityFilter changes the priority filter of Board; "" clears it.
func (e *Engine) SetPriorityFilter(p models.Priority) {
	e.mu.Lock()
	e.filter.Priority = p
	e.mu.Unlock()
}

// Board returns the filtered columns of the optimistic view.
func (e *Engine) Board() []Column {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildBoard(e.view, e.filter)
}

// Stats summarizes the optimistic view as of the engine clock.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeStats(e.view, e.today())
}

// Overdue returns the open tasks that are past due or over budget.
func (e *Engine) Overdue() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	today := e.today()
	var out []models.Task
	for _, t := range e.view {
		if IsOverdue(t, today) {
			out = append(out, t.Clone())
		}
	}
	return out
}
