package attendance

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/apperr"
)

func TestMonthlyEmptyMonthStillHasFullRoster(t *testing.T) {
	svc, _ := newTestService()

	matrix, err := svc.Monthly(context.Background(), teacher, "8A", 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, "8A", matrix.ClassName)
	require.Len(t, matrix.Students, 3, "row count equals roster size, sessions or not")
	require.Len(t, matrix.Days, 30)
	for _, row := range matrix.Students {
		assert.Equal(t, 0, row.Present)
		assert.Equal(t, 0, row.Absent)
		for _, st := range row.Daily {
			assert.Equal(t, NotRecorded, st)
		}
	}
}

func TestMonthlySparseSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// one session on day 10 marking only s1 and s2
	_, err := svc.Save(ctx, teacher, "8A", day(2025, 11, 10), []Mark{
		{StudentID: "s1", Status: Present},
		{StudentID: "s2", Status: Absent},
	})
	require.NoError(t, err)

	matrix, err := svc.Monthly(ctx, teacher, "8A", 2025, 11)
	require.NoError(t, err)
	require.Len(t, matrix.Students, 3)

	rows := make(map[string]MonthlyRow)
	for _, row := range matrix.Students {
		rows[row.StudentID] = row
	}

	assert.Equal(t, Present, rows["s1"].Daily[9], "day 10 lives at index 9")
	assert.Equal(t, Absent, rows["s2"].Daily[9])
	assert.Equal(t, NotRecorded, rows["s3"].Daily[9], "unmarked roster student defaults")

	assert.Equal(t, 1, rows["s1"].Present)
	assert.Equal(t, 0, rows["s1"].Absent)
	assert.Equal(t, 1, rows["s2"].Absent)
	assert.Equal(t, 0, rows["s3"].Present+rows["s3"].Absent)
}

func TestMonthlyCountsBounded(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for d := 1; d <= 12; d++ {
		_, err := svc.Save(ctx, teacher, "8A", day(2025, 11, d), []Mark{
			{StudentID: "s1", Status: Present},
		})
		require.NoError(t, err)
	}

	matrix, err := svc.Monthly(ctx, teacher, "8A", 2025, 11)
	require.NoError(t, err)
	for _, row := range matrix.Students {
		assert.LessOrEqual(t, row.Present+row.Absent, len(matrix.Days))
	}
}

func TestMonthlyDeterministicOrdering(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Monthly(ctx, teacher, "8A", 2025, 11)
	require.NoError(t, err)
	second, err := svc.Monthly(ctx, teacher, "8A", 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// alphabetical by name: Asha, Binta, Chen
	assert.Equal(t, "s1", first.Students[0].StudentID)
	assert.Equal(t, "s2", first.Students[1].StudentID)
	assert.Equal(t, "s3", first.Students[2].StudentID)
}

func TestMonthlyExcludesNeighboringMonths(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Save(ctx, teacher, "8A", day(2025, 10, 31), []Mark{{StudentID: "s1", Status: Present}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, teacher, "8A", day(2025, 12, 1), []Mark{{StudentID: "s1", Status: Present}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, teacher, "8A", day(2025, 11, 1), []Mark{{StudentID: "s1", Status: Present}})
	require.NoError(t, err)

	matrix, err := svc.Monthly(ctx, teacher, "8A", 2025, 11)
	require.NoError(t, err)
	rows := make(map[string]MonthlyRow)
	for _, row := range matrix.Students {
		rows[row.StudentID] = row
	}
	assert.Equal(t, 1, rows["s1"].Present, "only the in-range session counts")
}

func TestMonthlyErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		className string
		year      int
		month     int
		status    int
	}{
		{name: "month too small", className: "8A", year: 2025, month: 0, status: http.StatusBadRequest},
		{name: "month too large", className: "8A", year: 2025, month: 13, status: http.StatusBadRequest},
		{name: "unknown class", className: "9Z", year: 2025, month: 11, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Monthly(ctx, teacher, tt.className, tt.year, tt.month)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperr.StatusOf(err))
		})
	}
}

func TestSummarizeNilSession(t *testing.T) {
	d := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	sum := Summarize("8A", d, nil)
	assert.Equal(t, DaySummary{ClassName: "8A", Date: d, Records: []Mark{}}, sum)
}
