package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/storage/sqlite"
)

// taskRequest is the body of POST /tasks. Order is optional; when it is
// absent the task is appended to its column.
type taskRequest struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Status           models.Status      `json:"status"`
	Priority         models.Priority    `json:"priority"`
	DueDate          string             `json:"dueDate"`
	CreatedAt        string             `json:"createdAt"`
	CompletedAt      string             `json:"completedAt"`
	Order            *int               `json:"order"`
	AssigneeID       string             `json:"assigneeId"`
	EstimatedMinutes int                `json:"estimatedMinutes"`
	ElapsedMinutes   int                `json:"elapsedMinutes"`
	TimerStatus      models.TimerStatus `json:"timerStatus"`
	Todos            []models.Todo      `json:"todos"`
}

func (r taskRequest) validate() error {
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, r.Status)
	}
	if r.Priority != "" && !r.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", models.ErrValidation, r.Priority)
	}
	if r.DueDate != "" && !models.ValidDate(r.DueDate) {
		return fmt.Errorf("%w: due date %q is not YYYY-MM-DD", models.ErrValidation, r.DueDate)
	}
	if r.TimerStatus != "" && !r.TimerStatus.Valid() {
		return fmt.Errorf("%w: unknown timer status %q", models.ErrValidation, r.TimerStatus)
	}
	if r.Order != nil && *r.Order < 0 {
		return fmt.Errorf("%w: order must not be negative", models.ErrValidation)
	}
	return nil
}

func (r taskRequest) task() models.Task {
	order := -1
	if r.Order != nil {
		order = *r.Order
	}
	return models.Task{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Status:           r.Status,
		Priority:         r.Priority,
		DueDate:          r.DueDate,
		CreatedAt:        r.CreatedAt,
		CompletedAt:      r.CompletedAt,
		Order:            order,
		AssigneeID:       r.AssigneeID,
		EstimatedMinutes: r.EstimatedMinutes,
		ElapsedMinutes:   r.ElapsedMinutes,
		TimerStatus:      r.TimerStatus,
		Todos:            r.Todos,
	}
}

// handleListTasks returns every task, optionally filtered by status,
// priority or a free-text query (?status=&priority=&q=).
func (s *Server) handleListTasks(c *gin.Context) {
	filter := sqlite.TaskFilter{
		Status:   models.Status(c.Query("status")),
		Priority: models.Priority(c.Query("priority")),
		Query:    c.Query("q"),
	}

	tasks, err := s.store.ListTasks(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleGetTask returns one task.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleCreateTask inserts a new task into a board column.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), req.task())
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleUpdateTask applies a partial update such as a new status or order.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
