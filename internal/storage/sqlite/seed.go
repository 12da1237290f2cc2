package sqlite

import "taskboard/internal/models"

// DemoTasks returns the fixture board loaded by "taskboard seed". The todo
// column deliberately starts at position 1 so the board's renumbering is
// visible on first use.
func DemoTasks() []models.Task {
	return []models.Task{
		{
			ID: "1", Title: "Complete project proposal",
			Description: "Draft and finalize the Q1 proposal for the new client engagement",
			Status:      models.StatusCompleted, Priority: models.PriorityHigh,
			DueDate: "2026-02-10", CreatedAt: "2026-02-01", CompletedAt: "2026-02-09", Order: 0,
			TimerStatus: models.TimerCompleted, EstimatedMinutes: 240, ElapsedMinutes: 205,
		},
		{
			ID: "2", Title: "Review team performance",
			Description: "Run quarterly performance reviews for every team member",
			Status:      models.StatusInProgress, Priority: models.PriorityMedium,
			DueDate: "2026-02-20", CreatedAt: "2026-02-02", Order: 0,
			AssigneeID:  "p1",
			TimerStatus: models.TimerPaused, EstimatedMinutes: 180, ElapsedMinutes: 45,
			Todos: []models.Todo{
				{ID: "t1", Title: "Collect peer feedback", Completed: true, Order: 0, CreatedAt: "2026-02-02"},
				{ID: "t2", Title: "Write summaries", Order: 1, CreatedAt: "2026-02-02"},
			},
		},
		{
			ID: "3", Title: "Update website content",
			Description: "Refresh the homepage and about page with the new branding",
			Status:      models.StatusTodo, Priority: models.PriorityLow,
			DueDate: "2026-02-25", CreatedAt: "2026-02-03", Order: 1,
			TimerStatus: models.TimerIdle,
		},
		{
			ID: "4", Title: "Prepare budget report",
			Description: "Compile the Q4 budget analysis for management review",
			Status:      models.StatusCompleted, Priority: models.PriorityHigh,
			DueDate: "2026-02-12", CreatedAt: "2026-02-01", CompletedAt: "2026-02-11", Order: 1,
			TimerStatus: models.TimerIdle,
		},
		{
			ID: "5", Title: "Schedule team meeting",
			Description: "Organize the monthly sync and prepare an agenda",
			Status:      models.StatusTodo, Priority: models.PriorityMedium,
			DueDate: "2026-02-28", CreatedAt: "2026-02-05", Order: 2,
			AssigneeID:  "p2",
			TimerStatus: models.TimerIdle,
			Todos: []models.Todo{
				{ID: "t3", Title: "Book a room", Order: 0, CreatedAt: "2026-02-05"},
				{ID: "t4", Title: "Send invites", Order: 1, CreatedAt: "2026-02-05"},
			},
		},
		{
			ID: "6", Title: "Fix login regression",
			Description: "Sessions expire immediately after password reset",
			Status:      models.StatusInProgress, Priority: models.PriorityHigh,
			DueDate: "2026-02-08", CreatedAt: "2026-02-04", Order: 1,
			TimerStatus: models.TimerIdle, EstimatedMinutes: 60,
		},
	}
}

// DemoPersons returns the fixture contacts loaded by "taskboard seed".
func DemoPersons() []models.Person {
	return []models.Person{
		{
			ID: "p1", FirstName: "Maria", LastName: "Schmidt", Email: "maria.schmidt@example.com",
			Phone: "+49 30 1234567", DateOfBirth: "1988-04-12",
			Address: "Torstrasse 12", City: "Berlin", Country: "Germany",
			CreatedAt: "2026-01-15T09:00:00Z",
		},
		{
			ID: "p2", FirstName: "Tomas", LastName: "Novak", Email: "tomas.novak@example.com",
			Phone: "+420 777 123 456", DateOfBirth: "1992-11-03",
			Address: "Vinohradska 8", City: "Prague", Country: "Czechia",
			CreatedAt: "2026-01-20T14:30:00Z",
		},
	}
}
