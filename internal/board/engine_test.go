package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"taskboard/internal/clock"
	"taskboard/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeRepo is an in-memory Repository that records every update.
type fakeRepo struct {
	mu      sync.Mutex
	tasks   []models.Task
	updates []string
	fail    map[string]bool
	listErr error
}

func newFakeRepo(tasks ...models.Task) *fakeRepo {
	return &fakeRepo{tasks: cloneTasks(tasks), fail: map[string]bool{}}
}

func (r *fakeRepo) List(context.Context) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return cloneTasks(r.tasks), nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s not found", id)
}

func (r *fakeRepo) Create(_ context.Context, task models.Task) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = fmt.Sprintf("new-%d", len(r.tasks)+1)
	r.tasks = append(r.tasks, task.Clone())
	return task, nil
}

func (r *fakeRepo) Update(_ context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, id)
	if r.fail[id] {
		return models.Task{}, errBackend
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i] = r.tasks[i].Apply(patch)
			return r.tasks[i].Clone(), nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s not found", id)
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = slices.DeleteFunc(r.tasks, func(t models.Task) bool { return t.ID == id })
	return nil
}

func (r *fakeRepo) updated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.updates)
	slices.Sort(out)
	return out
}

func (r *fakeRepo) stored(id string) models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t.Clone()
		}
	}
	return models.Task{}
}

var testNow = time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, repo *fakeRepo) (*Engine, *clock.Fake, *[]string) {
	t.Helper()
	clk := clock.NewFake(testNow)
	var (
		mu       sync.Mutex
		messages []string
	)
	e, err := New(repo, Options{
		Clock: clk,
		Sink: SinkFunc(func(msg string) {
			mu.Lock()
			messages = append(messages, msg)
			mu.Unlock()
		}),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e, clk, &messages
}

func task(id string, status models.Status, order int) models.Task {
	return models.Task{
		ID: id, Title: "Task " + id, Status: status, Order: order,
		Priority: models.PriorityMedium, TimerStatus: models.TimerIdle,
	}
}

func columnIDs(e *Engine, status models.Status) []string {
	var ids []string
	for _, t := range e.Column(status) {
		ids = append(ids, t.ID)
	}
	return ids
}

func assertDense(t *testing.T, e *Engine) {
	t.Helper()
	for _, s := range models.Statuses {
		for i, task := range e.Column(s) {
			if task.Order != i {
				t.Fatalf("column %s: task %s has order %d at index %d", s, task.ID, task.Order, i)
			}
		}
	}
}

func TestNewRequiresRepository(t *testing.T) {
	if _, err := New(nil, Options{}); !errors.Is(err, ErrRepositoryNil) {
		t.Fatalf("expected ErrRepositoryNil, got %v", err)
	}
}

func TestMoveWithinColumn(t *testing.T) {
	repo := newFakeRepo(
		task("T1", models.StatusTodo, 0),
		task("T2", models.StatusTodo, 1),
		task("T3", models.StatusTodo, 2),
	)
	e, _, _ := newTestEngine(t, repo)

	if err := e.MoveTask(context.Background(), "T3", models.StatusTodo, 0); err != nil {
		t.Fatalf("move: %v", err)
	}

	if got, want := columnIDs(e, models.StatusTodo), []string{"T3", "T1", "T2"}; !slices.Equal(got, want) {
		t.Fatalf("column = %v, want %v", got, want)
	}
	assertDense(t, e)
	if got, want := repo.updated(), []string{"T1", "T2", "T3"}; !slices.Equal(got, want) {
		t.Fatalf("updates = %v, want %v", got, want)
	}
	if got := repo.stored("T3").Order; got != 0 {
		t.Fatalf("stored order of T3 = %d, want 0", got)
	}
}

func TestMoveToSamePositionIsNoop(t *testing.T) {
	repo := newFakeRepo(task("T1", models.StatusTodo, 0), task("T2", models.StatusTodo, 1))
	e, _, _ := newTestEngine(t, repo)

	if err := e.MoveTask(context.Background(), "T2", models.StatusTodo, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := e.ReorderTask(context.Background(), models.StatusTodo, 0, 0); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if n := len(repo.updated()); n != 0 {
		t.Fatalf("expected no repository calls, got %d", n)
	}
}

func TestMoveAcrossColumnsStampsCompletion(t *testing.T) {
	repo := newFakeRepo(
		task("A", models.StatusInProgress, 0),
		task("B", models.StatusInProgress, 1),
		task("C", models.StatusInProgress, 2),
		task("D", models.StatusCompleted, 0),
	)
	e, _, _ := newTestEngine(t, repo)

	if err := e.MoveTask(context.Background(), "B", models.StatusCompleted, 0); err != nil {
		t.Fatalf("move: %v", err)
	}

	if got, want := columnIDs(e, models.StatusCompleted), []string{"B", "D"}; !slices.Equal(got, want) {
		t.Fatalf("completed = %v, want %v", got, want)
	}
	if got, want := columnIDs(e, models.StatusInProgress), []string{"A", "C"}; !slices.Equal(got, want) {
		t.Fatalf("in progress = %v, want %v", got, want)
	}
	assertDense(t, e)

	moved, _ := e.Task("B")
	if moved.CompletedAt != "2026-01-01" {
		t.Fatalf("completedAt = %q, want 2026-01-01", moved.CompletedAt)
	}
	if got := repo.stored("B"); got.Status != models.StatusCompleted || got.CompletedAt != "2026-01-01" {
		t.Fatalf("stored B = %+v", got)
	}
	// A kept its order, so only the target column and C are written.
	if got, want := repo.updated(), []string{"B", "C", "D"}; !slices.Equal(got, want) {
		t.Fatalf("updates = %v, want %v", got, want)
	}
}

func TestMoveOutOfCompletedClearsCompletion(t *testing.T) {
	done := task("D", models.StatusCompleted, 0)
	done.CompletedAt = "2025-12-20"
	repo := newFakeRepo(done)
	e, _, _ := newTestEngine(t, repo)

	if err := e.MoveTask(context.Background(), "D", models.StatusTodo, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := repo.stored("D"); got.CompletedAt != "" || got.Status != models.StatusTodo {
		t.Fatalf("stored D = %+v", got)
	}
}

func TestMoveRejectsBadInput(t *testing.T) {
	repo := newFakeRepo(task("T1", models.StatusTodo, 0))
	e, _, _ := newTestEngine(t, repo)
	ctx := context.Background()

	if err := e.MoveTask(ctx, "T1", models.StatusTodo, 2); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("expected ErrInvalidIndex, got %v", err)
	}
	if err := e.MoveTask(ctx, "T1", models.Status("archived"), 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := e.ReorderTask(ctx, models.StatusTodo, 0, 1); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := e.MoveTask(ctx, "missing", models.StatusTodo, 0); err != nil {
		t.Fatalf("unknown task should be ignored, got %v", err)
	}
	if n := len(repo.updated()); n != 0 {
		t.Fatalf("expected no repository calls, got %d", n)
	}
}

func TestReorderDensifiesCorruptColumn(t *testing.T) {
	repo := newFakeRepo(
		task("X", models.StatusTodo, 5),
		task("Y", models.StatusTodo, 5),
		task("Z", models.StatusTodo, 9),
	)
	e, _, _ := newTestEngine(t, repo)

	if err := e.ReorderTask(context.Background(), models.StatusTodo, 2, 0); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if got, want := columnIDs(e, models.StatusTodo), []string{"Z", "X", "Y"}; !slices.Equal(got, want) {
		t.Fatalf("column = %v, want %v", got, want)
	}
	assertDense(t, e)
}

func TestPersistenceFailureKeepsOptimisticView(t *testing.T) {
	repo := newFakeRepo(
		task("T1", models.StatusTodo, 0),
		task("T2", models.StatusTodo, 1),
		task("T3", models.StatusTodo, 2),
	)
	repo.fail["T1"] = true
	repo.fail["T2"] = true
	e, _, messages := newTestEngine(t, repo)

	err := e.MoveTask(context.Background(), "T3", models.StatusTodo, 0)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	for _, id := range []string{"T1", "T2"} {
		if !strings.Contains(err.Error(), id) {
			t.Fatalf("error %q should mention %s", err, id)
		}
	}

	if got, want := columnIDs(e, models.StatusTodo), []string{"T3", "T1", "T2"}; !slices.Equal(got, want) {
		t.Fatalf("view rolled back: %v", got)
	}
	if len(*messages) != 1 || !strings.HasPrefix((*messages)[0], "failed to move task") {
		t.Fatalf("notifications = %v", *messages)
	}
	if e.Error() == "" {
		t.Fatal("expected error message to be recorded")
	}

	// T3 succeeded, so only its confirmed copy reaches the snapshot.
	committed := map[string]int{}
	for _, c := range e.Committed() {
		committed[c.ID] = c.Order
	}
	if committed["T3"] != 0 || committed["T1"] != 0 || committed["T2"] != 1 {
		t.Fatalf("committed orders = %v", committed)
	}

	e.Resync()
	if got, want := columnIDs(e, models.StatusTodo), []string{"T1", "T3", "T2"}; !slices.Equal(got, want) {
		t.Fatalf("after resync = %v, want %v", got, want)
	}

	e.ClearError()
	if e.Error() != "" {
		t.Fatal("expected error to be cleared")
	}
}

func TestLoadFailureNotifies(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errBackend
	e, err := New(repo, Options{Sink: SinkFunc(func(string) {})})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := e.Load(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !strings.HasPrefix(e.Error(), "failed to load tasks") {
		t.Fatalf("error = %q", e.Error())
	}
}

func TestCreateAppendsToTodo(t *testing.T) {
	repo := newFakeRepo(task("T1", models.StatusTodo, 0), task("T2", models.StatusTodo, 3))
	e, _, _ := newTestEngine(t, repo)

	created, err := e.CreateTask(context.Background(), models.TaskInput{Title: "  Write docs ", Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Order != 4 || created.Title != "Write docs" || created.CreatedAt != "2026-01-01" {
		t.Fatalf("created = %+v", created)
	}
	if _, ok := e.Task(created.ID); !ok {
		t.Fatal("created task missing from view")
	}

	if _, err := e.CreateTask(context.Background(), models.TaskInput{Title: " "}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsOrderingFields(t *testing.T) {
	repo := newFakeRepo(task("T1", models.StatusTodo, 0))
	e, _, _ := newTestEngine(t, repo)
	ctx := context.Background()

	if _, err := e.UpdateTask(ctx, "T1", models.TaskPatch{Order: ptr(3)}); !errors.Is(err, ErrOrderingField) {
		t.Fatalf("expected ErrOrderingField, got %v", err)
	}
	updated, err := e.UpdateTask(ctx, "T1", models.TaskPatch{Title: ptr("Renamed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title = %q", updated.Title)
	}
	if got, _ := e.Task("T1"); got.Title != "Renamed" {
		t.Fatalf("view title = %q", got.Title)
	}
}

func TestDeleteClosesGap(t *testing.T) {
	repo := newFakeRepo(
		task("T1", models.StatusTodo, 0),
		task("T2", models.StatusTodo, 1),
		task("T3", models.StatusTodo, 2),
	)
	e, _, _ := newTestEngine(t, repo)

	if err := e.DeleteTask(context.Background(), "T1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, want := columnIDs(e, models.StatusTodo), []string{"T2", "T3"}; !slices.Equal(got, want) {
		t.Fatalf("column = %v, want %v", got, want)
	}
	assertDense(t, e)
	if got := repo.stored("T3").Order; got != 1 {
		t.Fatalf("stored order of T3 = %d, want 1", got)
	}
}

func TestReloadTask(t *testing.T) {
	repo := newFakeRepo(task("T1", models.StatusTodo, 0))
	e, _, _ := newTestEngine(t, repo)

	repo.tasks[0].Title = "Changed elsewhere"
	if err := e.ReloadTask(context.Background(), "T1"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, _ := e.Task("T1"); got.Title != "Changed elsewhere" {
		t.Fatalf("title = %q", got.Title)
	}
}
