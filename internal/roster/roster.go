package roster

import (
	"context"
	"time"
)

// Class is an academic class or section.
type Class struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	HomeroomTeacherID string    `json:"homeroom_teacher_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Student is one roster entry. Roster membership is owned elsewhere; this
// package only reads it.
type Student struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	EnrollNo string `json:"enroll_no"`
}

// Provider resolves classes and their current rosters.
type Provider interface {
	FindClassByName(ctx context.Context, name string) (*Class, error)
	FindStudentsByClass(ctx context.Context, classID string) ([]Student, error)
}
