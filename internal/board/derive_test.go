package board

import (
	"testing"

	"taskboard/internal/models"
)

func TestIsOverdue(t *testing.T) {
	cases := []struct {
		name   string
		status models.Status
		due    string
		want   bool
	}{
		{"past due", models.StatusTodo, "2020-01-01", true},
		{"due today", models.StatusTodo, "2026-01-01", false},
		{"future", models.StatusInProgress, "2026-06-01", false},
		{"no due date", models.StatusTodo, "", false},
		{"completed late", models.StatusCompleted, "2020-01-01", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := task("T", tc.status, 0)
			tk.DueDate = tc.due
			if got := IsOverdue(tk, "2026-01-01"); got != tc.want {
				t.Fatalf("IsOverdue = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildBoardFilters(t *testing.T) {
	a := task("A", models.StatusTodo, 1)
	a.Title = "Write release notes"
	a.Priority = models.PriorityHigh
	b := task("B", models.StatusTodo, 0)
	b.Description = "update the RELEASE checklist"
	c := task("C", models.StatusCompleted, 0)
	c.Title = "Unrelated"

	cols := BuildBoard([]models.Task{a, b, c}, Filter{Query: "release"})
	if len(cols) != 3 {
		t.Fatalf("columns = %d", len(cols))
	}
	if cols[0].Status != models.StatusTodo || len(cols[0].Tasks) != 2 || cols[0].Tasks[0].ID != "B" {
		t.Fatalf("todo column = %+v", cols[0])
	}
	if len(cols[2].Tasks) != 0 {
		t.Fatalf("completed column should be filtered out: %+v", cols[2])
	}

	cols = BuildBoard([]models.Task{a, b, c}, Filter{Query: "release", Priority: models.PriorityHigh})
	if len(cols[0].Tasks) != 1 || cols[0].Tasks[0].ID != "A" {
		t.Fatalf("priority filter = %+v", cols[0].Tasks)
	}
}

func TestComputeStats(t *testing.T) {
	late := task("L", models.StatusTodo, 0)
	late.DueDate = "2025-12-01"
	tasks := []models.Task{
		late,
		task("P", models.StatusInProgress, 0),
		task("C1", models.StatusCompleted, 0),
	}

	got := ComputeStats(tasks, "2026-01-01")
	want := Stats{Total: 3, Todo: 1, InProgress: 1, Completed: 1, Overdue: 1, CompletionRate: 33}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}

	if got := ComputeStats(nil, "2026-01-01"); got != (Stats{}) {
		t.Fatalf("empty stats = %+v", got)
	}
}

func TestEngineBoardUsesFilter(t *testing.T) {
	hi := task("H", models.StatusTodo, 0)
	hi.Priority = models.PriorityHigh
	repo := newFakeRepo(hi, task("M", models.StatusTodo, 1))
	e, _, _ := newTestEngine(t, repo)

	e.SetPriorityFilter(models.PriorityHigh)
	if cols := e.Board(); len(cols[0].Tasks) != 1 || cols[0].Tasks[0].ID != "H" {
		t.Fatalf("filtered board = %+v", cols[0].Tasks)
	}
	e.SetPriorityFilter("")
	e.SetSearchQuery("task m")
	if cols := e.Board(); len(cols[0].Tasks) != 1 || cols[0].Tasks[0].ID != "M" {
		t.Fatalf("searched board = %+v", cols[0].Tasks)
	}
	if s := e.Stats(); s.Total != 2 {
		t.Fatalf("stats ignore filters: %+v", s)
	}
}
