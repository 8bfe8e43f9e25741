package roster

import (
	"context"
	"database/sql"
	"errors"
)

// Repository reads class and roster data from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindClassByName returns the class with the given name, or nil when absent.
func (r *Repository) FindClassByName(ctx context.Context, name string) (*Class, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(homeroom_teacher_id, ''), created_at
		FROM classes WHERE name = $1
	`, name)
	var cls Class
	if err := row.Scan(&cls.ID, &cls.Name, &cls.HomeroomTeacherID, &cls.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cls, nil
}

// FindStudentsByClass returns the current roster, alphabetical by name.
// The secondary sort on id keeps order stable across students sharing a name.
func (r *Repository) FindStudentsByClass(ctx context.Context, classID string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, enroll_no
		FROM students
		WHERE class_id = $1
		ORDER BY name, id
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.EnrollNo); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
