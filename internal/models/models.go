package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation marks caller-supplied data that violates a field contract.
var ErrValidation = errors.New("validation failed")

// Status is the board column a task belongs to.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Valid reports whether s names one of the board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TimerStatus is the lifecycle state of a task's time tracker.
type TimerStatus string

const (
	TimerIdle      TimerStatus = "idle"
	TimerRunning   TimerStatus = "running"
	TimerPaused    TimerStatus = "paused"
	TimerCompleted TimerStatus = "completed"
)

func (s TimerStatus) Valid() bool {
	switch s {
	case TimerIdle, TimerRunning, TimerPaused, TimerCompleted:
		return true
	}
	return false
}

// Todo is a checklist entry nested inside a task.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Task represents a single card on the board.
//
// Dates (DueDate, CreatedAt, CompletedAt) use the fixed-width YYYY-MM-DD
// layout so they compare correctly as strings. TimerStartedAt is RFC 3339
// with sub-second precision.
type Task struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Status           Status      `json:"status"`
	Priority         Priority    `json:"priority"`
	DueDate          string      `json:"dueDate"`
	CreatedAt        string      `json:"createdAt"`
	CompletedAt      string      `json:"completedAt,omitempty"`
	Order            int         `json:"order"`
	AssigneeID       string      `json:"assigneeId,omitempty"`
	EstimatedMinutes int         `json:"estimatedMinutes,omitempty"`
	ElapsedMinutes   int         `json:"elapsedMinutes,omitempty"`
	TimerStatus      TimerStatus `json:"timerStatus,omitempty"`
	TimerStartedAt   string      `json:"timerStartedAt,omitempty"`
	OverBudget       bool        `json:"overBudget,omitempty"`
	Todos            []Todo      `json:"todos,omitempty"`
}

// Clone returns a copy of t that shares no slices with the original.
func (t Task) Clone() Task {
	if t.Todos != nil {
		t.Todos = append([]Todo(nil), t.Todos...)
	}
	return t
}

// TaskPatch is a partial update. Nil fields are left untouched; an empty
// string in DueDate, CompletedAt, TimerStartedAt or AssigneeID clears the field.
type TaskPatch struct {
	Title            *string      `json:"title,omitempty"`
	Description      *string      `json:"description,omitempty"`
	Status           *Status      `json:"status,omitempty"`
	Priority         *Priority    `json:"priority,omitempty"`
	DueDate          *string      `json:"dueDate,omitempty"`
	CompletedAt      *string      `json:"completedAt,omitempty"`
	Order            *int         `json:"order,omitempty"`
	AssigneeID       *string      `json:"assigneeId,omitempty"`
	EstimatedMinutes *int         `json:"estimatedMinutes,omitempty"`
	ElapsedMinutes   *int         `json:"elapsedMinutes,omitempty"`
	TimerStatus      *TimerStatus `json:"timerStatus,omitempty"`
	TimerStartedAt   *string      `json:"timerStartedAt,omitempty"`
	OverBudget       *bool        `json:"overBudget,omitempty"`
	Todos            *[]Todo      `json:"todos,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p == TaskPatch{}
}

// Validate checks every field the patch sets.
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, *p.Priority)
	}
	if p.DueDate != nil && *p.DueDate != "" && !ValidDate(*p.DueDate) {
		return fmt.Errorf("%w: due date %q is not YYYY-MM-DD", ErrValidation, *p.DueDate)
	}
	if p.CompletedAt != nil && *p.CompletedAt != "" && !ValidDate(*p.CompletedAt) {
		return fmt.Errorf("%w: completed date %q is not YYYY-MM-DD", ErrValidation, *p.CompletedAt)
	}
	if p.Order != nil && *p.Order < 0 {
		return fmt.Errorf("%w: order must not be negative", ErrValidation)
	}
	if p.EstimatedMinutes != nil && *p.EstimatedMinutes < 0 {
		return fmt.Errorf("%w: estimated minutes must not be negative", ErrValidation)
	}
	if p.ElapsedMinutes != nil && *p.ElapsedMinutes < 0 {
		return fmt.Errorf("%w: elapsed minutes must not be negative", ErrValidation)
	}
	if p.TimerStatus != nil && !p.TimerStatus.Valid() {
		return fmt.Errorf("%w: unknown timer status %q", ErrValidation, *p.TimerStatus)
	}
	if p.TimerStartedAt != nil && *p.TimerStartedAt != "" {
		if _, err := time.Parse(time.RFC3339Nano, *p.TimerStartedAt); err != nil {
			return fmt.Errorf("%w: timer start %q is not RFC 3339", ErrValidation, *p.TimerStartedAt)
		}
	}
	return nil
}

// Apply returns t with every field set in p overwritten.
func (t Task) Apply(p TaskPatch) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.CompletedAt != nil {
		t.CompletedAt = *p.CompletedAt
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.EstimatedMinutes != nil {
		t.EstimatedMinutes = *p.EstimatedMinutes
	}
	if p.ElapsedMinutes != nil {
		t.ElapsedMinutes = *p.ElapsedMinutes
	}
	if p.TimerStatus != nil {
		t.TimerStatus = *p.TimerStatus
	}
	if p.TimerStartedAt != nil {
		t.TimerStartedAt = *p.TimerStartedAt
	}
	if p.OverBudget != nil {
		t.OverBudget = *p.OverBudget
	}
	if p.Todos != nil {
		t.Todos = append([]Todo(nil), (*p.Todos)...)
	}
	return t
}

// TaskInput carries the user-editable fields of a new task.
type TaskInput struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         Priority `json:"priority"`
	DueDate          string   `json:"dueDate"`
	EstimatedMinutes int      `json:"estimatedMinutes,omitempty"`
	AssigneeID       string   `json:"assigneeId,omitempty"`
}

func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	if in.DueDate != "" && !ValidDate(in.DueDate) {
		return fmt.Errorf("%w: due date %q is not YYYY-MM-DD", ErrValidation, in.DueDate)
	}
	if in.EstimatedMinutes < 0 {
		return fmt.Errorf("%w: estimated minutes must not be negative", ErrValidation)
	}
	return nil
}

// Person is a contact that tasks can be assigned to.
type Person struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// Validate checks the fields a person cannot be stored without.
func (p Person) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email %q is not valid", ErrValidation, p.Email)
	}
	if p.DateOfBirth != "" && !ValidDate(p.DateOfBirth) {
		return fmt.Errorf("%w: date of birth %q is not YYYY-MM-DD", ErrValidation, p.DateOfBirth)
	}
	return nil
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// PersonPatch is a partial update of a person.
type PersonPatch struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
}

// Apply returns p with every field set in patch overwritten.
func (p Person) Apply(patch PersonPatch) Person {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.FirstName, patch.FirstName)
	set(&p.LastName, patch.LastName)
	set(&p.Email, patch.Email)
	set(&p.Phone, patch.Phone)
	set(&p.DateOfBirth, patch.DateOfBirth)
	set(&p.Address, patch.Address)
	set(&p.City, patch.City)
	set(&p.Country, patch.Country)
	return p
}
