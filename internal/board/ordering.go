package board

import (
	"cmp"
	"slices"

	"taskboard/internal/models"
)

// columnIndexes returns the positions in tasks of every task in status,
// sorted by Order. Equal orders keep fetch order, so a corrupted column
// still renumbers deterministically.
func columnIndexes(tasks []models.Task, status models.Status) []int {
	var idx []int
	for i := range tasks {
		if tasks[i].Status == status {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(tasks[a].Order, tasks[b].Order)
	})
	return idx
}

// moveElement removes the element at from and inserts it at to in the
// shortened sequence.
func moveElement[T any](seq []T, from, to int) []T {
	out := slices.Clone(seq)
	v := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, v)
}

// SortColumn returns copies of the tasks in status ordered for display.
func SortColumn(tasks []models.Task, status models.Status) []models.Task {
	idx := columnIndexes(tasks, status)
	out := make([]models.Task, 0, len(idx))
	for _, i := range idx {
		out = append(out, tasks[i].Clone())
	}
	return out
}

// batch collects the per-task patches of one user operation, merging
// several changes to the same task into a single repository call.
type batch struct {
	ids     []string
	patches map[string]*models.TaskPatch
}

func (b *batch) patch(id string) *models.TaskPatch {
	if b.patches == nil {
		b.patches = make(map[string]*models.TaskPatch)
	}
	p, ok := b.patches[id]
	if !ok {
		p = &models.TaskPatch{}
		b.patches[id] = p
		b.ids = append(b.ids, id)
	}
	return p
}

func (b *batch) len() int { return len(b.ids) }

// renumber rewrites the orders of one column to 0..n-1. With all set every
// task in the column is added to the batch; otherwise only tasks whose
// order actually changed.
func renumber(tasks []models.Task, status models.Status, b *batch, all bool) {
	for i, idx := range columnIndexes(tasks, status) {
		t := &tasks[idx]
		if t.Order == i && !all {
			continue
		}
		t.Order = i
		b.patch(t.ID).Order = ptr(i)
	}
}

func ptr[T any](v T) *T { return &v }
