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

const insertPersonSQL = `INSERT INTO persons(
        id, first_name, last_name, email, phone, date_of_birth, address, city, country, created_at, updated_at)
    VALUES(
        :id, :first_name, :last_name, :email, :phone, :date_of_birth, :address, :city, :country, :created_at, :updated_at)`

type personRow struct {
	ID          string `db:"id"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Email       string `db:"email"`
	Phone       string `db:"phone"`
	DateOfBirth string `db:"date_of_birth"`
	Address     string `db:"address"`
	City        string `db:"city"`
	Country     string `db:"country"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func rowFromPerson(p models.Person) personRow {
	return personRow(p)
}

// ListPersons retrieves all persons ordered by last and first name.
func (s *Store) ListPersons(ctx context.Context) ([]models.Person, error) {
	var rows []personRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM persons ORDER BY last_name, first_name, id`); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	persons := make([]models.Person, 0, len(rows))
	for _, r := range rows {
		persons = append(persons, models.Person(r))
	}
	return persons, nil
}

// GetPerson fetches a single person by id.
func (s *Store) GetPerson(ctx context.Context, id string) (models.Person, error) {
	var r personRow
	err := s.db.GetContext(ctx, &r, `SELECT * FROM persons WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, fmt.Errorf("person %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("get person: %w", err)
	}
	return models.Person(r), nil
}

// CreatePerson persists a new person, assigning an id when none is given.
func (s *Store) CreatePerson(ctx context.Context, p models.Person) (models.Person, error) {
	if err := p.Validate(); err != nil {
		return models.Person{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	p.UpdatedAt = ""

	if _, err := s.db.NamedExecContext(ctx, insertPersonSQL, rowFromPerson(p)); err != nil {
		return models.Person{}, fmt.Errorf("insert person: %w", err)
	}
	return s.GetPerson(ctx, p.ID)
}

// UpdatePerson applies a partial update and stamps updatedAt.
func (s *Store) UpdatePerson(ctx context.Context, id string, patch models.PersonPatch) (models.Person, error) {
	current, err := s.GetPerson(ctx, id)
	if err != nil {
		return models.Person{}, err
	}

	next := current.Apply(patch)
	if err := next.Validate(); err != nil {
		return models.Person{}, err
	}
	next.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.NamedExecContext(ctx, `UPDATE persons SET
            first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
            date_of_birth = :date_of_birth, address = :address, city = :city, country = :country,
            updated_at = :updated_at
        WHERE id = :id`, rowFromPerson(next))
	if err != nil {
		return models.Person{}, fmt.Errorf("update person: %w", err)
	}
	return s.GetPerson(ctx, id)
}

// DeletePerson removes a person and unassigns their tasks.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("person %s: %w", id, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET assignee_id = '' WHERE assignee_id = ?`, id); err != nil {
		return fmt.Errorf("unassign tasks: %w", err)
	}
	return tx.Commit()
}
