package attendance

import "time"

// Status is a per-student mark. NotRecorded never appears in stored marks;
// it is the monthly matrix's default for days without a session.
type Status string

const (
	Present     Status = "Present"
	Absent      Status = "Absent"
	NotRecorded Status = "NotRecorded"
)

// Valid reports whether the status may appear in a saved mark.
func (s Status) Valid() bool {
	return s == Present || s == Absent
}

// Mark is one student's status for one day.
type Mark struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName,omitempty"`
	EnrollNo    string `json:"enrollNo,omitempty"`
	Status      Status `json:"status"`
}

// Session is the single attendance record for a class on one calendar day.
// At most one session exists per (class, day); saving again replaces Marks
// wholesale.
type Session struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"-"`
	ClassName  string    `json:"className"`
	Day        time.Time `json:"date"`
	RecordedAt time.Time `json:"recordedAt"`
	Marks      []Mark    `json:"records"`
}

// DaySummary is the read shape for a single day: stored marks plus counts
// derived by scanning them. Counts are never persisted, so they cannot drift
// from the marks.
type DaySummary struct {
	ClassName string    `json:"className"`
	Date      time.Time `json:"date"`
	Total     int       `json:"total"`
	Present   int       `json:"present"`
	Absent    int       `json:"absent"`
	Records   []Mark    `json:"records"`
}

// Summarize derives the day summary for a session. A nil session yields the
// explicit empty shape: nothing recorded is a valid state, not an error.
func Summarize(className string, day time.Time, sess *Session) DaySummary {
	sum := DaySummary{ClassName: className, Date: day, Records: []Mark{}}
	if sess == nil {
		return sum
	}
	sum.Date = sess.Day
	sum.Records = sess.Marks
	sum.Total = len(sess.Marks)
	for _, m := range sess.Marks {
		switch m.Status {
		case Present:
			sum.Present++
		case Absent:
			sum.Absent++
		}
	}
	return sum
}

// MonthlyRow is one roster student's dense month: Daily[d-1] holds day d.
type MonthlyRow struct {
	StudentID   string   `json:"studentId"`
	StudentName string   `json:"studentName"`
	EnrollNo    string   `json:"enrollNo"`
	Daily       []Status `json:"daily"`
	Present     int      `json:"present"`
	Absent      int      `json:"absent"`
}

// MonthlyMatrix is the dense roster x days attendance table for one month.
// Derived fresh on every request; roster and sessions mutate independently,
// so caching it would go stale.
type MonthlyMatrix struct {
	ClassName string       `json:"className"`
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	Days      []int        `json:"days"`
	Students  []MonthlyRow `json:"students"`
}
