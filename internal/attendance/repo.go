package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionRepo is the storage contract for attendance sessions. The Postgres
// implementation below is the real one; tests use an in-memory fake.
type SessionRepo interface {
	UpsertSession(ctx context.Context, sess Session) (Session, error)
	GetSession(ctx context.Context, classID string, day time.Time) (*Session, error)
	LatestSession(ctx context.Context, classID string) (*Session, error)
	ListSessions(ctx context.Context, classID string) ([]Session, error)
	SessionsInRange(ctx context.Context, classID string, from, to time.Time) ([]Session, error)
}

// Repository persists attendance sessions in Postgres. Marks live as a JSONB
// column on the session row so the replace-on-conflict upsert is one atomic
// statement; the unique index on (class_id, day) enforces the one-session-
// per-class-per-day rule even under concurrent writers.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const sessionCols = `id, class_id, day, recorded_at, marks`

// UpsertSession creates the session for (class, day) or replaces its marks
// wholesale. Concurrent writers for the same key cannot both insert; the
// loser of the race lands on the DO UPDATE branch.
func (r *Repository) UpsertSession(ctx context.Context, sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.RecordedAt.IsZero() {
		sess.RecordedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(sess.Marks)
	if err != nil {
		return Session{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_sessions (id, class_id, day, recorded_at, marks)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (class_id, day) DO UPDATE SET
			marks = EXCLUDED.marks,
			recorded_at = EXCLUDED.recorded_at
		RETURNING id, recorded_at
	`, sess.ID, sess.ClassID, sess.Day, sess.RecordedAt, raw)
	if err := row.Scan(&sess.ID, &sess.RecordedAt); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GetSession returns the session for an exact day, or nil when none exists.
func (r *Repository) GetSession(ctx context.Context, classID string, day time.Time) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionCols+`
		FROM attendance_sessions
		WHERE class_id = $1 AND day = $2
	`, classID, day)
	return scanSession(row)
}

// SessionByID returns a session by primary key, or nil. Used by the audit
// worker, which only has the id off the queue.
func (r *Repository) SessionByID(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionCols+`
		FROM attendance_sessions
		WHERE id = $1
	`, id)
	return scanSession(row)
}

// LatestSession returns the most recent session for a class, or nil.
func (r *Repository) LatestSession(ctx context.Context, classID string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionCols+`
		FROM attendance_sessions
		WHERE class_id = $1
		ORDER BY day DESC
		LIMIT 1
	`, classID)
	return scanSession(row)
}

// ListSessions returns every session for a class, newest first.
func (r *Repository) ListSessions(ctx context.Context, classID string) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionCols+`
		FROM attendance_sessions
		WHERE class_id = $1
		ORDER BY day DESC
	`, classID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

// SessionsInRange returns sessions with day in the half-open range [from, to).
func (r *Repository) SessionsInRange(ctx context.Context, classID string, from, to time.Time) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionCols+`
		FROM attendance_sessions
		WHERE class_id = $1 AND day >= $2 AND day < $3
		ORDER BY day
	`, classID, from, to)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func scanSession(row *sql.Row) (*Session, error) {
	var sess Session
	var raw []byte
	if err := row.Scan(&sess.ID, &sess.ClassID, &sess.Day, &sess.RecordedAt, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &sess.Marks); err != nil {
		return nil, err
	}
	sess.Day = NormalizeDay(sess.Day)
	return &sess, nil
}

func collectSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()
	var res []Session
	for rows.Next() {
		var sess Session
		var raw []byte
		if err := rows.Scan(&sess.ID, &sess.ClassID, &sess.Day, &sess.RecordedAt, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &sess.Marks); err != nil {
			return nil, err
		}
		sess.Day = NormalizeDay(sess.Day)
		res = append(res, sess)
	}
	return res, rows.Err()
}

// InsertAudit appends one audit row for a saved session. Used by the worker,
// never by the request path.
func (r *Repository) InsertAudit(ctx context.Context, sessionID, classID string, day time.Time, totalMarks int, recordedBy string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_audit (id, session_id, class_id, day, total_marks, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), sessionID, classID, day, totalMarks, recordedBy)
	return err
}
