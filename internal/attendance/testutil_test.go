package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/roster"
)

// memRepo is an in-memory SessionRepo keyed exactly like the unique index.
type memRepo struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: make(map[string]Session)}
}

func sessionKey(classID string, day time.Time) string {
	return classID + "|" + day.Format("2006-01-02")
}

func (r *memRepo) UpsertSession(_ context.Context, sess Session) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := sessionKey(sess.ClassID, sess.Day)
	if prev, ok := r.sessions[key]; ok {
		// same contract as ON CONFLICT DO UPDATE: the row id survives
		sess.ID = prev.ID
	} else if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	r.sessions[key] = sess
	return sess, nil
}

func (r *memRepo) GetSession(_ context.Context, classID string, day time.Time) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[sessionKey(classID, day)]; ok {
		return &sess, nil
	}
	return nil, nil
}

func (r *memRepo) LatestSession(_ context.Context, classID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *Session
	for _, sess := range r.sessions {
		if sess.ClassID != classID {
			continue
		}
		if latest == nil || sess.Day.After(latest.Day) {
			s := sess
			latest = &s
		}
	}
	return latest, nil
}

func (r *memRepo) ListSessions(_ context.Context, classID string) ([]Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Session
	for _, sess := range r.sessions {
		if sess.ClassID == classID {
			res = append(res, sess)
		}
	}
	// newest first
	for i := 0; i < len(res); i++ {
		for j := i + 1; j < len(res); j++ {
			if res[j].Day.After(res[i].Day) {
				res[i], res[j] = res[j], res[i]
			}
		}
	}
	return res, nil
}

func (r *memRepo) SessionsInRange(_ context.Context, classID string, from, to time.Time) ([]Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Session
	for _, sess := range r.sessions {
		if sess.ClassID != classID {
			continue
		}
		if !sess.Day.Before(from) && sess.Day.Before(to) {
			res = append(res, sess)
		}
	}
	return res, nil
}

// fakeRoster serves classes and rosters from maps.
type fakeRoster struct {
	classes  map[string]roster.Class     // by name
	students map[string][]roster.Student // by class id
}

func (f *fakeRoster) FindClassByName(_ context.Context, name string) (*roster.Class, error) {
	if cls, ok := f.classes[name]; ok {
		return &cls, nil
	}
	return nil, nil
}

func (f *fakeRoster) FindStudentsByClass(_ context.Context, classID string) ([]roster.Student, error) {
	return f.students[classID], nil
}

// class8A returns a roster fixture: class "8A" owned by teacher t1 with
// students s1..s3.
func class8A() *fakeRoster {
	return &fakeRoster{
		classes: map[string]roster.Class{
			"8A": {ID: "c-8a", Name: "8A", HomeroomTeacherID: "t1"},
		},
		students: map[string][]roster.Student{
			"c-8a": {
				{ID: "s1", Name: "Asha", EnrollNo: "8A-01"},
				{ID: "s2", Name: "Binta", EnrollNo: "8A-02"},
				{ID: "s3", Name: "Chen", EnrollNo: "8A-03"},
			},
		},
	}
}
