package sqlite

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/models"
)

// newTestStore opens an in-memory database on the pure-Go driver so the
// tests run without cgo.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(Options{Path: ":memory:", Driver: DriverPureGo}, nil)
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() err=%v", err)
		}
	})
	return s
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Path: ":memory:", Driver: "postgres"}, nil); err == nil {
		t.Fatalf("Open() err=nil, want unsupported driver error")
	}
}

func TestCreateTaskAppendsToColumn(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.CreateTask(ctx, models.Task{Title: "first", Order: -1})
	if err != nil {
		t.Fatalf("CreateTask() err=%v", err)
	}
	second, err := s.CreateTask(ctx, models.Task{Title: "second", Order: -1})
	if err != nil {
		t.Fatalf("CreateTask() err=%v", err)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("CreateTask() ids=%q,%q, want distinct generated ids", first.ID, second.ID)
	}
	if first.Status != models.StatusTodo || first.Priority != models.PriorityMedium {
		t.Fatalf("CreateTask() defaults = %s/%s", first.Status, first.Priority)
	}
	if first.Order != 0 || second.Order != 1 {
		t.Fatalf("CreateTask() orders=%d,%d, want 0,1", first.Order, second.Order)
	}
	if first.TimerStatus != models.TimerIdle {
		t.Fatalf("CreateTask() timer=%q, want idle", first.TimerStatus)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateTask(context.Background(), models.Task{Title: "  "})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("CreateTask() err=%v, want %v", err, models.ErrValidation)
	}
}

func TestUpdateTaskPatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateTask(ctx, models.Task{ID: "a", Title: "write docs", Order: 0})
	if err != nil {
		t.Fatalf("CreateTask() err=%v", err)
	}

	status := models.StatusCompleted
	completed := "2026-02-09"
	order := 4
	todos := []models.Todo{{ID: "x", Title: "outline", Completed: true}}
	got, err := s.UpdateTask(ctx, created.ID, models.TaskPatch{
		Status: &status, CompletedAt: &completed, Order: &order, Todos: &todos,
	})
	if err != nil {
		t.Fatalf("UpdateTask() err=%v", err)
	}
	if got.Status != models.StatusCompleted || got.CompletedAt != completed || got.Order != 4 {
		t.Fatalf("UpdateTask() = %+v", got)
	}
	if len(got.Todos) != 1 || !got.Todos[0].Completed {
		t.Fatalf("UpdateTask() todos = %+v", got.Todos)
	}

	cleared := ""
	got, err = s.UpdateTask(ctx, created.ID, models.TaskPatch{CompletedAt: &cleared})
	if err != nil {
		t.Fatalf("UpdateTask() err=%v", err)
	}
	if got.CompletedAt != "" {
		t.Fatalf("UpdateTask() completedAt=%q, want cleared", got.CompletedAt)
	}
}

func TestUpdateTaskStatusChangeAppends(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, task := range []models.Task{
		{ID: "a", Title: "a", Status: models.StatusInProgress, Order: 0},
		{ID: "b", Title: "b", Status: models.StatusInProgress, Order: 1},
		{ID: "c", Title: "c", Status: models.StatusTodo, Order: 0},
	} {
		if _, err := s.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask() err=%v", err)
		}
	}

	status := models.StatusInProgress
	got, err := s.UpdateTask(ctx, "c", models.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask() err=%v", err)
	}
	if got.Order != 2 {
		t.Fatalf("UpdateTask() order=%d, want 2", got.Order)
	}
}

func TestUpdateAndDeleteMissingTask(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	title := "x"
	if _, err := s.UpdateTask(ctx, "nope", models.TaskPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateTask() err=%v, want %v", err, ErrNotFound)
	}
	if err := s.DeleteTask(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTask() err=%v, want %v", err, ErrNotFound)
	}
}

func TestListTasksKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Reset(ctx, DemoTasks(), DemoPersons()); err != nil {
		t.Fatalf("Reset() err=%v", err)
	}

	tasks, err := s.ListTasks(ctx, TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks() err=%v", err)
	}
	want := DemoTasks()
	if len(tasks) != len(want) {
		t.Fatalf("ListTasks() len=%d, want %d", len(tasks), len(want))
	}
	for i := range want {
		if tasks[i].ID != want[i].ID {
			t.Fatalf("ListTasks()[%d].ID=%q, want %q", i, tasks[i].ID, want[i].ID)
		}
	}

	high, err := s.ListTasks(ctx, TaskFilter{Priority: models.PriorityHigh, Query: "report"})
	if err != nil {
		t.Fatalf("ListTasks() err=%v", err)
	}
	if len(high) != 1 || high[0].ID != "4" {
		t.Fatalf("ListTasks(filter) = %+v, want task 4", high)
	}
}

func TestPersonLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.CreatePerson(ctx, models.Person{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreatePerson() err=%v", err)
	}
	if p.ID == "" || p.CreatedAt == "" {
		t.Fatalf("CreatePerson() = %+v, want id and createdAt", p)
	}

	if _, err := s.CreateTask(ctx, models.Task{ID: "t", Title: "assigned", AssigneeID: p.ID}); err != nil {
		t.Fatalf("CreateTask() err=%v", err)
	}

	city := "London"
	updated, err := s.UpdatePerson(ctx, p.ID, models.PersonPatch{City: &city})
	if err != nil {
		t.Fatalf("UpdatePerson() err=%v", err)
	}
	if updated.City != "London" || updated.UpdatedAt == "" {
		t.Fatalf("UpdatePerson() = %+v", updated)
	}

	if err := s.DeletePerson(ctx, p.ID); err != nil {
		t.Fatalf("DeletePerson() err=%v", err)
	}
	task, err := s.GetTask(ctx, "t")
	if err != nil {
		t.Fatalf("GetTask() err=%v", err)
	}
	if task.AssigneeID != "" {
		t.Fatalf("DeletePerson() left assignee %q", task.AssigneeID)
	}
	if _, err := s.GetPerson(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPerson() err=%v, want %v", err, ErrNotFound)
	}
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, models.User{Name: "Linus", Email: "linus@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() err=%v", err)
	}
	if u.ID == "" || u.CreatedAt == "" || u.Role != models.RoleViewer {
		t.Fatalf("CreateUser() = %+v, want id, createdAt and viewer role", u)
	}
	if _, err := s.CreateUser(ctx, models.User{Name: "Nobody", Email: "x@example.com", Role: "owner"}); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("CreateUser(bad role) err=%v, want %v", err, models.ErrValidation)
	}

	role := models.RoleManager
	updated, err := s.UpdateUser(ctx, u.ID, models.UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("UpdateUser() err=%v", err)
	}
	if updated.Role != models.RoleManager || updated.Name != "Linus" {
		t.Fatalf("UpdateUser() = %+v", updated)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() err=%v", err)
	}
	if len(users) != 1 || users[0].Role != models.RoleManager {
		t.Fatalf("ListUsers() = %+v", users)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() err=%v", err)
	}
	if err := s.DeleteUser(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteUser() twice err=%v, want %v", err, ErrNotFound)
	}
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older, err := s.CreatePost(ctx, models.Post{ID: "p-1", Title: "Kickoff", AuthorID: "u1", CreatedAt: "2026-01-01T10:00:00.000Z"})
	if err != nil {
		t.Fatalf("CreatePost() err=%v", err)
	}
	if older.ID != "p-1" {
		t.Fatalf("CreatePost() id=%q, want client id kept", older.ID)
	}
	newer, err := s.CreatePost(ctx, models.Post{Title: "Retro", Content: "Went well", AuthorID: "u2", CreatedAt: "2026-01-02T10:00:00.000Z"})
	if err != nil {
		t.Fatalf("CreatePost() err=%v", err)
	}

	all, err := s.ListPosts(ctx, "")
	if err != nil {
		t.Fatalf("ListPosts() err=%v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID {
		t.Fatalf("ListPosts() = %+v, want newest first", all)
	}
	mine, err := s.ListPosts(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPosts(author) err=%v", err)
	}
	if len(mine) != 1 || mine[0].ID != "p-1" {
		t.Fatalf("ListPosts(author) = %+v", mine)
	}

	content := "Agenda attached"
	updated, err := s.UpdatePost(ctx, "p-1", models.PostPatch{Content: &content})
	if err != nil {
		t.Fatalf("UpdatePost() err=%v", err)
	}
	if got, _ := s.GetPost(ctx, "p-1"); got.Content != content || updated.AuthorID != "u1" {
		t.Fatalf("UpdatePost() stored %+v", got)
	}

	if err := s.DeletePost(ctx, "p-1"); err != nil {
		t.Fatalf("DeletePost() err=%v", err)
	}
	if _, err := s.GetPost(ctx, "p-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPost() err=%v, want %v", err, ErrNotFound)
	}
}
