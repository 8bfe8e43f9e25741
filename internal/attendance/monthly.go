package attendance

import (
	"context"
	"sort"
	"sync"

	"classtrack/internal/auth"
	"classtrack/internal/roster"
)

// Monthly builds the dense roster x days matrix for one calendar month.
// Every current roster student gets a row, marks or no marks; days without a
// session default to NotRecorded. A pure join of two read-only snapshots.
func (s *Service) Monthly(ctx context.Context, ident auth.Identity, className string, year, month int) (MonthlyMatrix, error) {
	from, to, daysInMonth, err := MonthRange(year, month)
	if err != nil {
		return MonthlyMatrix{}, err
	}
	cls, err := s.guard.CheckClassAccess(ctx, className, ident)
	if err != nil {
		return MonthlyMatrix{}, err
	}

	// Roster and session range are independent reads; fetch both at once and
	// join after both land.
	var (
		wg        sync.WaitGroup
		students  []roster.Student
		sessions  []Session
		rosterErr error
		sessErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		students, rosterErr = s.roster.FindStudentsByClass(ctx, cls.ID)
	}()
	go func() {
		defer wg.Done()
		sessions, sessErr = s.repo.SessionsInRange(ctx, cls.ID, from, to)
	}()
	wg.Wait()
	if rosterErr != nil {
		return MonthlyMatrix{}, rosterErr
	}
	if sessErr != nil {
		return MonthlyMatrix{}, sessErr
	}

	// studentId -> day of month -> status, folded from every session's marks
	// keyed by the session's own day.
	byStudent := make(map[string]map[int]Status)
	for _, sess := range sessions {
		dom := sess.Day.Day()
		for _, m := range sess.Marks {
			if byStudent[m.StudentID] == nil {
				byStudent[m.StudentID] = make(map[int]Status)
			}
			byStudent[m.StudentID][dom] = m.Status
		}
	}

	// The provider already orders by name, but the matrix promises stable
	// output on its own terms, so sort here regardless of the source.
	sort.Slice(students, func(i, j int) bool {
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})

	matrix := MonthlyMatrix{
		ClassName: cls.Name,
		Year:      year,
		Month:     month,
		Days:      make([]int, daysInMonth),
		Students:  make([]MonthlyRow, 0, len(students)),
	}
	for d := 1; d <= daysInMonth; d++ {
		matrix.Days[d-1] = d
	}
	for _, st := range students {
		row := MonthlyRow{
			StudentID:   st.ID,
			StudentName: st.Name,
			EnrollNo:    st.EnrollNo,
			Daily:       make([]Status, daysInMonth),
		}
		for d := 1; d <= daysInMonth; d++ {
			status, ok := byStudent[st.ID][d]
			if !ok {
				status = NotRecorded
			}
			row.Daily[d-1] = status
			switch status {
			case Present:
				row.Present++
			case Absent:
				row.Absent++
			}
		}
		matrix.Students = append(matrix.Students, row)
	}
	return matrix, nil
}
