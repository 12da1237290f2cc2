package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"taskboard/internal/models"
)

// Driver names accepted by Open.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps access to the SQLite database and exposes high level helpers.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Options selects the database file and driver.
type Options struct {
	Path   string
	Driver string
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(opts Options, logger *slog.Logger) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if opts.Driver == "" {
		opts.Driver = DriverCGO
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureDir(opts.Path); err != nil {
		return nil, err
	}

	dsn, err := dataSource(opts)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Debug("database ready", slog.String("path", opts.Path), slog.String("driver", opts.Driver))
	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func dataSource(opts Options) (string, error) {
	switch opts.Driver {
	case DriverCGO:
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", opts.Path), nil
	case DriverPureGo:
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", opts.Path), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", opts.Driver)
	}
}

func ensureDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS persons (
            id TEXT PRIMARY KEY,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            date_of_birth TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'todo',
            priority TEXT NOT NULL DEFAULT 'medium',
            due_date TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL,
            completed_at TEXT NOT NULL DEFAULT '',
            position INTEGER NOT NULL DEFAULT 0,
            assignee_id TEXT NOT NULL DEFAULT '',
            estimated_minutes INTEGER NOT NULL DEFAULT 0,
            elapsed_minutes INTEGER NOT NULL DEFAULT 0,
            timer_status TEXT NOT NULL DEFAULT 'idle',
            timer_started_at TEXT NOT NULL DEFAULT '',
            over_budget INTEGER NOT NULL DEFAULT 0,
            todos TEXT NOT NULL DEFAULT '[]',
            seq INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status_position ON tasks(status, position);`,
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'viewer',
            created_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS posts (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            content TEXT NOT NULL DEFAULT '',
            author_id TEXT NOT NULL,
            created_at TEXT NOT NULL
        );`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// taskRow is the column layout of the tasks table.
type taskRow struct {
	ID               string `db:"id"`
	Title            string `db:"title"`
	Description      string `db:"description"`
	Status           string `db:"status"`
	Priority         string `db:"priority"`
	DueDate          string `db:"due_date"`
	CreatedAt        string `db:"created_at"`
	CompletedAt      string `db:"completed_at"`
	Position         int    `db:"position"`
	AssigneeID       string `db:"assignee_id"`
	EstimatedMinutes int    `db:"estimated_minutes"`
	ElapsedMinutes   int    `db:"elapsed_minutes"`
	TimerStatus      string `db:"timer_status"`
	TimerStartedAt   string `db:"timer_started_at"`
	OverBudget       bool   `db:"over_budget"`
	Todos            string `db:"todos"`
	Seq              int64  `db:"seq"`
}

func (r taskRow) task() (models.Task, error) {
	t := models.Task{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Status:           models.Status(r.Status),
		Priority:         models.Priority(r.Priority),
		DueDate:          r.DueDate,
		CreatedAt:        r.CreatedAt,
		CompletedAt:      r.CompletedAt,
		Order:            r.Position,
		AssigneeID:       r.AssigneeID,
		EstimatedMinutes: r.EstimatedMinutes,
		ElapsedMinutes:   r.ElapsedMinutes,
		TimerStatus:      models.TimerStatus(r.TimerStatus),
		TimerStartedAt:   r.TimerStartedAt,
		OverBudget:       r.OverBudget,
	}
	if r.Todos != "" {
		if err := json.Unmarshal([]byte(r.Todos), &t.Todos); err != nil {
			return models.Task{}, fmt.Errorf("decode todos of task %s: %w", r.ID, err)
		}
		if len(t.Todos) == 0 {
			t.Todos = nil
		}
	}
	return t, nil
}

func rowFromTask(t models.Task) (taskRow, error) {
	todos := t.Todos
	if todos == nil {
		todos = []models.Todo{}
	}
	raw, err := json.Marshal(todos)
	if err != nil {
		return taskRow{}, fmt.Errorf("encode todos of task %s: %w", t.ID, err)
	}
	timer := t.TimerStatus
	if timer == "" {
		timer = models.TimerIdle
	}
	return taskRow{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		DueDate:          t.DueDate,
		CreatedAt:        t.CreatedAt,
		CompletedAt:      t.CompletedAt,
		Position:         t.Order,
		AssigneeID:       t.AssigneeID,
		EstimatedMinutes: t.EstimatedMinutes,
		ElapsedMinutes:   t.ElapsedMinutes,
		TimerStatus:      string(timer),
		TimerStartedAt:   t.TimerStartedAt,
		OverBudget:       t.OverBudget,
		Todos:            string(raw),
	}, nil
}

// TaskFilter narrows ListTasks. Zero values match everything.
type TaskFilter struct {
	Status   models.Status
	Priority models.Priority
	Query    string
}

// ListTasks returns tasks ordered by insertion, which is the fetch order the
// board uses to break ties between equal positions.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	query := `SELECT * FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY seq, id"

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.task()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	var r taskRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM tasks WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return r.task()
}

// CreateTask inserts a new task. A missing id is replaced with a UUID and a
// negative Order appends the task to the end of its column.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: task title must not be empty", models.ErrValidation)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if !t.Status.Valid() {
		t.Status = models.StatusTodo
	}
	if !t.Priority.Valid() {
		t.Priority = models.PriorityMedium
	}
	if t.CreatedAt == "" {
		t.CreatedAt = time.Now().UTC().Format(time.DateOnly)
	}
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)

	if t.Order < 0 {
		pos, err := s.nextPosition(ctx, t.Status)
		if err != nil {
			return models.Task{}, err
		}
		t.Order = pos
	}

	row, err := rowFromTask(t)
	if err != nil {
		return models.Task{}, err
	}

	_, err = s.db.NamedExecContext(ctx, `INSERT INTO tasks(
            id, title, description, status, priority, due_date, created_at, completed_at,
            position, assignee_id, estimated_minutes, elapsed_minutes, timer_status,
            timer_started_at, over_budget, todos, seq)
        VALUES(
            :id, :title, :description, :status, :priority, :due_date, :created_at, :completed_at,
            :position, :assignee_id, :estimated_minutes, :elapsed_minutes, :timer_status,
            :timer_started_at, :over_budget, :todos, (SELECT COALESCE(MAX(seq), 0) + 1 FROM tasks))`, row)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, t.ID)
}

// UpdateTask applies a partial update. A status change without an explicit
// order appends the task to the end of its new column.
func (s *Store) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if err := patch.Validate(); err != nil {
		return models.Task{}, err
	}

	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	next := current.Apply(patch)
	if next.Status != current.Status && patch.Order == nil {
		pos, err := s.nextPosition(ctx, next.Status)
		if err != nil {
			return models.Task{}, err
		}
		next.Order = pos
	}

	row, err := rowFromTask(next)
	if err != nil {
		return models.Task{}, err
	}

	_, err = s.db.NamedExecContext(ctx, `UPDATE tasks SET
            title = :title, description = :description, status = :status, priority = :priority,
            due_date = :due_date, completed_at = :completed_at, position = :position,
            assignee_id = :assignee_id, estimated_minutes = :estimated_minutes,
            elapsed_minutes = :elapsed_minutes, timer_status = :timer_status,
            timer_started_at = :timer_started_at, over_budget = :over_budget, todos = :todos
        WHERE id = :id`, row)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) nextPosition(ctx context.Context, status models.Status) (int, error) {
	var position sql.NullInt64
	err := s.db.QueryRowxContext(ctx, `SELECT MAX(position) FROM tasks WHERE status = ?`, string(status)).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("select position: %w", err)
	}
	if position.Valid {
		return int(position.Int64) + 1, nil
	}
	return 0, nil
}

// Reset replaces every task and person with the given fixtures in one
// transaction.
func (s *Store) Reset(ctx context.Context, tasks []models.Task, persons []models.Person) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM tasks`, `DELETE FROM persons`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	for i, t := range tasks {
		row, err := rowFromTask(t)
		if err != nil {
			return err
		}
		row.Seq = int64(i + 1)
		_, err = tx.NamedExecContext(ctx, `INSERT INTO tasks(
                id, title, description, status, priority, due_date, created_at, completed_at,
                position, assignee_id, estimated_minutes, elapsed_minutes, timer_status,
                timer_started_at, over_budget, todos, seq)
            VALUES(
                :id, :title, :description, :status, :priority, :due_date, :created_at, :completed_at,
                :position, :assignee_id, :estimated_minutes, :elapsed_minutes, :timer_status,
                :timer_started_at, :over_budget, :todos, :seq)`, row)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}

	for _, p := range persons {
		if _, err := tx.NamedExecContext(ctx, insertPersonSQL, rowFromPerson(p)); err != nil {
			return fmt.Errorf("insert person %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	s.logger.Info("database reset", slog.Int("tasks", len(tasks)), slog.Int("persons", len(persons)))
	return nil
}
