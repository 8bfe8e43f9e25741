package store

import (
	"context"
	"database/sql"
	"log"
)

// Migrate applies the schema. All statements are idempotent so the server can
// run this on every boot. The unique index on (class_id, day) is load-bearing:
// it is what makes the attendance upsert a single atomic statement.
func Migrate(ctx context.Context, db *sql.DB) error {
	log.Println("running database migrations...")
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS classes (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			homeroom_teacher_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY,
			class_id UUID NOT NULL REFERENCES classes(id),
			name TEXT NOT NULL,
			enroll_no TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_students_class ON students (class_id)`,
		`CREATE TABLE IF NOT EXISTS attendance_sessions (
			id UUID PRIMARY KEY,
			class_id UUID NOT NULL REFERENCES classes(id),
			day DATE NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			marks JSONB NOT NULL,
			UNIQUE (class_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_audit (
			id UUID PRIMARY KEY,
			session_id UUID NOT NULL,
			class_id UUID NOT NULL,
			day DATE NOT NULL,
			total_marks INT NOT NULL,
			recorded_by TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			log.Printf("migration failed: %v", err)
			return err
		}
	}
	log.Println("database migrations completed")
	return nil
}
