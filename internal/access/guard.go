// Package access decides whether a caller may touch a class's attendance.
// The check runs once per request, before any attendance data is read or
// written for the target class.
package access

import (
	"context"

	"classtrack/internal/apperr"
	"classtrack/internal/auth"
	"classtrack/internal/roster"
)

// ClassResolver is the slice of the roster provider the guard needs.
type ClassResolver interface {
	FindClassByName(ctx context.Context, name string) (*roster.Class, error)
}

// Guard resolves class access for an authenticated caller.
type Guard struct {
	classes ClassResolver
}

// NewGuard creates a guard backed by a class resolver.
func NewGuard(classes ClassResolver) *Guard {
	return &Guard{classes: classes}
}

// CheckClassAccess resolves the class and verifies the caller may act on it.
// Admins reach every class, teachers only the class they homeroom, students
// none. Returns the resolved class so callers do not look it up twice.
func (g *Guard) CheckClassAccess(ctx context.Context, className string, ident auth.Identity) (*roster.Class, error) {
	if ident.Role == auth.RoleStudent {
		return nil, apperr.Forbidden("students cannot access class attendance")
	}
	cls, err := g.classes.FindClassByName(ctx, className)
	if err != nil {
		return nil, err
	}
	if cls == nil {
		return nil, apperr.NotFound("class %q not found", className)
	}
	if ident.Role == auth.RoleAdmin {
		return cls, nil
	}
	if ident.Role == auth.RoleTeacher && cls.HomeroomTeacherID == ident.ID {
		return cls, nil
	}
	return nil, apperr.Forbidden("caller does not own class %q", className)
}
