package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

type userRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Role      string `db:"role"`
	CreatedAt string `db:"created_at"`
}

func (r userRow) user() models.User {
	return models.User{ID: r.ID, Name: r.Name, Email: r.Email, Role: models.Role(r.Role), CreatedAt: r.CreatedAt}
}

func rowFromUser(u models.User) userRow {
	return userRow{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

// ListUsers returns every user in creation order.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM users ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]models.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var r userRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return r.user(), nil
}

// CreateUser stores a new user. A missing role defaults to viewer and a
// missing createdAt is stamped with the current time.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleViewer
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt == "" {
		u.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO users(id, name, email, role, created_at)
        VALUES(:id, :name, :email, :role, :created_at)`, rowFromUser(u))
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser(ctx, u.ID)
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	current, err := s.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	next := current.Apply(patch)
	if err := next.Validate(); err != nil {
		return models.User{}, err
	}

	_, err = s.db.NamedExecContext(ctx, `UPDATE users SET name = :name, email = :email, role = :role
        WHERE id = :id`, rowFromUser(next))
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return next, nil
}

// DeleteUser removes a user. Their posts are kept.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "users", "user", id)
}

// deleteByID removes one row of table and reports ErrNotFound when no row
// matched.
func (s *Store) deleteByID(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
