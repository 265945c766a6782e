package reconcile

import (
	"testing"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_TotalInvariant(t *testing.T) {
	e := newTestEngine()
	for _, collapse := range []bool{false, true} {
		for _, month := range []time.Month{time.February, time.April, time.May} {
			start, end := MonthRange(2025, month)
			res, err := e.Reconcile(sampleInput(), Query{Persons: []string{"Somchai", "Malee", "Ghost"}, Start: start, End: end})
			require.NoError(t, err)

			s := Summarize(res.People, collapse)

			days := end.Day()
			require.Len(t, s.Rows, 3)
			for _, row := range s.Rows {
				sum := 0
				for _, c := range s.Categories {
					n, ok := row.Counts[c]
					assert.True(t, ok, "category %q missing for %s", c, row.PersonName)
					sum += n
				}
				assert.Equal(t, days, row.Total)
				assert.Equal(t, days, sum)
				assert.Len(t, row.Counts, len(s.Categories))
			}
		}
	}
}

func TestSummarize_CollapseLeave(t *testing.T) {
	e := newTestEngine()
	in := sampleInput()
	in.Leaves = append(in.Leaves, leaveOf("l9", "Somchai", leave.CategoryPersonal, "2025-05-19", "2025-05-19"))
	res, err := e.Reconcile(in, Query{Persons: []string{"Somchai"}, Start: date("2025-05-01"), End: date("2025-05-31")})
	require.NoError(t, err)

	split := Summarize(res.People, false)
	assert.Equal(t, 2, split.Rows[0].Counts[report.LeaveStatus(leave.CategorySick)])
	assert.Equal(t, 1, split.Rows[0].Counts[report.LeaveStatus(leave.CategoryPersonal)])
	assert.Equal(t, 0, split.Rows[0].Counts[report.LeaveStatus(leave.CategoryOrdination)])
	assert.NotContains(t, split.Categories, report.StatusLeave)

	collapsed := Summarize(res.People, true)
	assert.Equal(t, 3, collapsed.Rows[0].Counts[report.StatusLeave])
	assert.NotContains(t, collapsed.Categories, report.LeaveStatus(leave.CategorySick))
	assert.Equal(t, 1, collapsed.Rows[0].Counts[report.StatusOvertime])
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := Summarize(nil, false)
	assert.Empty(t, s.Rows)
	assert.Len(t, s.Categories, 8+len(leave.Categories))
}
