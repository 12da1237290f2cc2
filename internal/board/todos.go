package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

// AddTodo appends a checklist entry to task id.
func (e *Engine) AddTodo(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: todo title must not be empty", models.ErrValidation)
	}

	e.mu.Lock()
	pos := e.indexOf(id)
	if pos < 0 {
		e.mu.Unlock()
		return nil
	}
	t := &e.view[pos]
	todos := slices.Clone(t.Todos)
	todos = append(todos, models.Todo{
		ID:        uuid.NewString(),
		Title:     title,
		Order:     len(todos),
		CreatedAt: e.clock.Now().UTC().Format(time.RFC3339),
	})
	t.Todos = todos
	b := &batch{}
	b.patch(id).Todos = ptr(slices.Clone(todos))
	e.mu.Unlock()

	return e.persist(ctx, "add todo", b)
}

// ToggleTodo flips one checklist entry. Checking the last open entry of a
// task that is not yet completed moves the task to the end of the completed
// column in the same batch.
func (e *Engine) ToggleTodo(ctx context.Context, id, todoID string) error {
	e.mu.Lock()
	pos := e.indexOf(id)
	if pos < 0 {
		e.mu.Unlock()
		return nil
	}
	t := &e.view[pos]
	i := slices.IndexFunc(t.Todos, func(td models.Todo) bool { return td.ID == todoID })
	if i < 0 {
		e.mu.Unlock()
		return nil
	}
	todos := slices.Clone(t.Todos)
	todos[i].Completed = !todos[i].Completed
	t.Todos = todos

	b := &batch{}
	b.patch(id).Todos = ptr(slices.Clone(todos))

	allDone := !slices.ContainsFunc(todos, func(td models.Todo) bool { return !td.Completed })
	if allDone && t.Status != models.StatusCompleted {
		e.completeLocked(pos, b)
	}
	e.mu.Unlock()

	return e.persist(ctx, "toggle todo", b)
}

// DeleteTodo removes one checklist entry and closes the gap in the order of
// the remaining ones.
func (e *Engine) DeleteTodo(ctx context.Context, id, todoID string) error {
	e.mu.Lock()
	pos := e.indexOf(id)
	if pos < 0 {
		e.mu.Unlock()
		return nil
	}
	t := &e.view[pos]
	todos := slices.DeleteFunc(slices.Clone(t.Todos), func(td models.Todo) bool { return td.ID == todoID })
	if len(todos) == len(t.Todos) {
		e.mu.Unlock()
		return nil
	}
	slices.SortStableFunc(todos, func(a, b models.Todo) int { return a.Order - b.Order })
	for i := range todos {
		todos[i].Order = i
	}
	t.Todos = todos
	b := &batch{}
	b.patch(id).Todos = ptr(slices.Clone(todos))
	e.mu.Unlock()

	return e.persist(ctx, "delete todo", b)
}

// completeLocked moves the task at pos to the end of the completed column
// and closes the gap it leaves. The caller holds e.mu.
func (e *Engine) completeLocked(pos int, b *batch) {
	t := &e.view[pos]
	source := t.Status
	today := e.today()

	order := 0
	for _, idx := range columnIndexes(e.view, models.StatusCompleted) {
		order = max(order, e.view[idx].Order+1)
	}
	t.Status = models.StatusCompleted
	t.CompletedAt = today
	t.Order = order

	p := b.patch(t.ID)
	p.Status = ptr(models.StatusCompleted)
	p.CompletedAt = ptr(today)
	p.Order = ptr(order)

	renumber(e.view, models.StatusCompleted, b, false)
	renumber(e.view, source, b, false)

	e.logger.Info("task auto-completed", slog.String("id", t.ID), slog.String("from", string(source)))
}
