// Package board keeps the in-memory task board: dense per-column ordering,
// drag-and-drop moves, timers and todo-driven completion. Every mutation is
// applied to the local view first and persisted afterwards; failed writes
// are reported but never rolled back.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"taskboard/internal/clock"
	"taskboard/internal/models"
)

// Repository is the persistence collaborator. Update must accept a partial
// patch and return the stored task.
type Repository interface {
	List(ctx context.Context) ([]models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Create(ctx context.Context, task models.Task) (models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Options configures an Engine. Zero values select sensible defaults.
type Options struct {
	Sink   NotificationSink
	Logger *slog.Logger
	Clock  clock.Clock

	// MaxConcurrency bounds the repository calls in flight for a single
	// operation. Zero means unbounded.
	MaxConcurrency int
}

// Engine owns the optimistic board view.
//
// committed holds the last repository-confirmed copy of each task and view
// the optimistic one. Operations only read and write view; Resync and
// Refresh reconcile the two on demand.
type Engine struct {
	repo           Repository
	sink           NotificationSink
	logger         *slog.Logger
	clock          clock.Clock
	maxConcurrency int

	mu        sync.Mutex
	committed []models.Task
	view      []models.Task
	filter    Filter
	lastErr   string
}

// New returns an empty Engine; call Load to fill it.
func New(repo Repository, opts Options) (*Engine, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sink == nil {
		opts.Sink = LogSink{Logger: opts.Logger}
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	return &Engine{
		repo:           repo,
		sink:           opts.Sink,
		logger:         opts.Logger,
		clock:          opts.Clock,
		maxConcurrency: opts.MaxConcurrency,
	}, nil
}

// Load replaces both the committed and the optimistic view with the
// repository's current task list.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.lastErr = ""
	e.mu.Unlock()

	tasks, err := e.repo.List(ctx)
	if err != nil {
		return e.fail("load tasks", err)
	}

	e.mu.Lock()
	e.committed = cloneTasks(tasks)
	e.view = cloneTasks(tasks)
	e.mu.Unlock()

	e.logger.Debug("board loaded", slog.Int("tasks", len(tasks)))
	return nil
}

// Refresh discards the optimistic view and reloads from the repository.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.Load(ctx)
}

// Resync resets the optimistic view to the last confirmed snapshot without
// touching the network.
func (e *Engine) Resync() {
	e.mu.Lock()
	e.view = cloneTasks(e.committed)
	e.mu.Unlock()
}

// ReloadTask fetches one task and replaces the cached copy.
func (e *Engine) ReloadTask(ctx context.Context, id string) error {
	task, err := e.repo.Get(ctx, id)
	if err != nil {
		return e.fail("load task", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed = upsert(e.committed, task)
	e.view = upsert(e.view, task)
	return nil
}

// MoveTask drops a task into newStatus at targetIndex, renumbering the
// target column and, for cross-column moves, the column it left.
func (e *Engine) MoveTask(ctx context.Context, id string, newStatus models.Status, targetIndex int) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, newStatus)
	}

	e.mu.Lock()
	pos := e.indexOf(id)
	if pos < 0 {
		e.mu.Unlock()
		return nil
	}

	source := e.view[pos].Status
	column := columnIndexes(e.view, newStatus)
	target := slices.DeleteFunc(slices.Clone(column), func(i int) bool { return i == pos })
	if targetIndex < 0 || targetIndex > len(target) {
		e.mu.Unlock()
		return fmt.Errorf("%w: target %d not in [0, %d]", ErrInvalidIndex, targetIndex, len(target))
	}
	if source == newStatus && slices.Index(column, pos) == targetIndex {
		e.mu.Unlock()
		return nil
	}

	today := e.today()
	b := &batch{}
	for i, idx := range slices.Insert(target, targetIndex, pos) {
		t := &e.view[idx]
		t.Order = i
		p := b.patch(t.ID)
		p.Order = ptr(i)
		if idx != pos {
			continue
		}
		t.Status = newStatus
		p.Status = ptr(newStatus)
		switch {
		case newStatus == models.StatusCompleted:
			t.CompletedAt = today
			p.CompletedAt = ptr(today)
		case source == models.StatusCompleted:
			t.CompletedAt = ""
			p.CompletedAt = ptr("")
		}
	}
	if source != newStatus {
		renumber(e.view, source, b, false)
	}
	e.mu.Unlock()

	e.logger.Debug("task moved",
		slog.String("id", id),
		slog.String("from", string(source)),
		slog.String("to", string(newStatus)),
		slog.Int("index", targetIndex))
	return e.persist(ctx, "move task", b)
}

// ReorderTask moves the task at previousIndex of a column to currentIndex.
func (e *Engine) ReorderTask(ctx context.Context, status models.Status, previousIndex, currentIndex int) error {
	if !status.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidStatus, status)
	}

	e.mu.Lock()
	column := columnIndexes(e.view, status)
	for _, idx := range []int{previousIndex, currentIndex} {
		if idx < 0 || idx >= len(column) {
			e.mu.Unlock()
			return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, idx, len(column))
		}
	}
	if previousIndex == currentIndex {
		e.mu.Unlock()
		return nil
	}

	b := &batch{}
	for i, idx := range moveElement(column, previousIndex, currentIndex) {
		t := &e.view[idx]
		t.Order = i
		b.patch(t.ID).Order = ptr(i)
	}
	e.mu.Unlock()

	return e.persist(ctx, "reorder tasks", b)
}

// CreateTask stores a new task at the end of the todo column. Creation is
// not optimistic: the task appears once the repository has assigned its id.
func (e *Engine) CreateTask(ctx context.Context, in models.TaskInput) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, err
	}

	e.mu.Lock()
	order := 0
	for _, t := range e.view {
		if t.Status == models.StatusTodo && t.Order >= order {
			order = t.Order + 1
		}
	}
	task := models.Task{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Status:           models.StatusTodo,
		Priority:         in.Priority,
		DueDate:          in.DueDate,
		CreatedAt:        e.today(),
		Order:            order,
		AssigneeID:       in.AssigneeID,
		EstimatedMinutes: in.EstimatedMinutes,
		TimerStatus:      models.TimerIdle,
	}
	e.mu.Unlock()

	created, err := e.repo.Create(ctx, task)
	if err != nil {
		return models.Task{}, e.fail("create task", err)
	}

	e.mu.Lock()
	e.committed = upsert(e.committed, created)
	e.view = upsert(e.view, created)
	e.mu.Unlock()
	return created.Clone(), nil
}

// UpdateTask edits descriptive fields of a task and replaces the cached copy
// with the repository's answer.
func (e *Engine) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.Status != nil || patch.Order != nil {
		return models.Task{}, ErrOrderingField
	}
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	e.mu.Lock()
	pos := e.indexOf(id)
	e.mu.Unlock()
	if pos < 0 {
		return models.Task{}, nil
	}

	updated, err := e.repo.Update(ctx, id, patch)
	if err != nil {
		return models.Task{}, e.fail("update task", err)
	}

	e.mu.Lock()
	e.committed = upsert(e.committed, updated)
	e.view = upsert(e.view, updated)
	e.mu.Unlock()
	return updated.Clone(), nil
}

// DeleteTask removes a task once the repository confirms and closes the gap
// it leaves in its column.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	e.mu.Lock()
	known := e.indexOf(id) >= 0
	e.mu.Unlock()
	if !known {
		return nil
	}

	if err := e.repo.Delete(ctx, id); err != nil {
		return e.fail("delete task", err)
	}

	b := &batch{}
	e.mu.Lock()
	e.committed = slices.DeleteFunc(e.committed, func(t models.Task) bool { return t.ID == id })
	if pos := e.indexOf(id); pos >= 0 {
		status := e.view[pos].Status
		e.view = slices.Delete(e.view, pos, pos+1)
		renumber(e.view, status, b, false)
	}
	e.mu.Unlock()

	return e.persist(ctx, "delete task", b)
}

// persist sends every patch in b concurrently and waits for all of them.
// Failures are aggregated into one PersistenceError; successful writes
// still update the committed snapshot.
func (e *Engine) persist(ctx context.Context, op string, b *batch) error {
	if b.len() == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithContext(ctx)
	if e.maxConcurrency > 0 {
		p = p.WithMaxGoroutines(e.maxConcurrency)
	}
	for _, id := range b.ids {
		patch := *b.patches[id]
		p.Go(func(ctx context.Context) error {
			confirmed, err := e.repo.Update(ctx, id, patch)
			if err != nil {
				return fmt.Errorf("update task %s: %w", id, err)
			}
			e.confirm(confirmed)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return e.fail(op, err)
	}
	return nil
}

// confirm records a repository answer in the committed snapshot only; the
// optimistic view may already hold newer values.
func (e *Engine) confirm(task models.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.committed {
		if e.committed[i].ID == task.ID {
			e.committed[i] = task.Clone()
			return
		}
	}
}

func (e *Engine) fail(op string, err error) error {
	perr := &PersistenceError{Op: op, Err: err}
	msg := perr.Error()

	e.mu.Lock()
	e.lastErr = msg
	e.mu.Unlock()

	e.logger.Error("board operation failed", slog.String("op", op), slog.String("error", err.Error()))
	e.sink.Notify(msg)
	return perr
}

// Error returns the message of the most recent failed operation, or "".
func (e *Engine) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ClearError dismisses the current error message.
func (e *Engine) ClearError() {
	e.mu.Lock()
	e.lastErr = ""
	e.mu.Unlock()
}

// Tasks returns a copy of the optimistic view in fetch order.
func (e *Engine) Tasks() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTasks(e.view)
}

// Committed returns a copy of the last repository-confirmed snapshot.
func (e *Engine) Committed() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTasks(e.committed)
}

// Task returns one task from the optimistic view.
func (e *Engine) Task(id string) (models.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos := e.indexOf(id); pos >= 0 {
		return e.view[pos].Clone(), true
	}
	return models.Task{}, false
}

// Column returns the unfiltered tasks of one column in display order.
func (e *Engine) Column(status models.Status) []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SortColumn(e.view, status)
}

func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.view, func(t models.Task) bool { return t.ID == id })
}

func (e *Engine) today() string {
	return Today(e.clock.Now())
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// upsert replaces the task with the same id or appends it.
func upsert(tasks []models.Task, task models.Task) []models.Task {
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task.Clone()
			return tasks
		}
	}
	return append(tasks, task.Clone())
}
