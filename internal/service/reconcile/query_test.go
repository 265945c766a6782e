package reconcile

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(NewIdentity(IdentityPolicy{}), DefaultWorkHours())
}

func sampleInput() Input {
	return Input{
		Leaves: []leave.LeaveRecord{
			leaveOf("l1", "Somchai", leave.CategorySick, "2025-05-13", "2025-05-14"),
			leaveOf("l2", "Malee", leave.CategoryVacation, "2025-04-28", "2025-05-02"),
			leaveOf("l3", "Outside", leave.CategoryVacation, "2025-07-01", "2025-07-02"),
		},
		Travels: []travel.TravelRecord{
			travelOf("t1", "Anan", "Somchai", "2025-05-20", "2025-05-21"),
		},
		Scans: []attendance.ScanRecord{
			scanOn("Somchai", "2025-05-12", "08:20", "16:35"),
			scanOn("Somchai", "2025-05-13", "08:00", "16:30"),
			scanOn("Malee", "2025-05-05", "08:45", "16:45"),
			scanOn("Somchai", "2025-05-10", "09:00", "12:00"),
		},
	}
}

func TestEngine_CoverageCompleteness(t *testing.T) {
	e := newTestEngine()
	windows := [][2]string{
		{"2025-05-01", "2025-05-31"},
		{"2025-02-01", "2025-02-28"},
		{"2024-02-01", "2024-02-29"},
		{"2025-05-13", "2025-05-13"},
		{"2024-12-30", "2025-01-02"},
	}
	for _, w := range windows {
		res, err := e.Reconcile(sampleInput(), Query{Persons: []string{"Somchai", "Nobody"}, Start: date(w[0]), End: date(w[1])})
		require.NoError(t, err)
		want := int(date(w[1]).Sub(date(w[0])).Hours()/24) + 1
		require.Len(t, res.People, 2)
		for _, p := range res.People {
			require.Len(t, p.Days, want, "window %v", w)
			for i, d := range p.Days {
				assert.True(t, d.Date.Equal(date(w[0]).AddDate(0, 0, i)), "day %d of %v", i, w)
			}
		}
	}
}

func TestEngine_MonthReport(t *testing.T) {
	e := newTestEngine()
	start, end := MonthRange(2025, time.May)

	res, err := e.Reconcile(sampleInput(), Query{Start: start, End: end})
	require.NoError(t, err)

	// Everyone with a record in May, sorted by display name. "Outside" has
	// only a July leave.
	var names []string
	for _, p := range res.People {
		names = append(names, p.PersonName)
	}
	assert.Equal(t, []string{"Anan", "Malee", "Somchai"}, names)

	somchai := res.People[2].Days
	// Mon 12 scanned on time, Tue 13 scanned but on leave, Sat 10 scanned.
	assert.Equal(t, report.StatusNormal, somchai[11].Status)
	assert.Equal(t, report.Status("Leave (sick)"), somchai[12].Status)
	assert.Equal(t, "08:00", FormatClock(somchai[12].ClockIn))
	assert.Equal(t, report.Status("Leave (sick)"), somchai[13].Status)
	assert.Equal(t, report.StatusOvertime, somchai[9].Status)
	assert.Equal(t, report.StatusDayOff, somchai[10].Status)
	assert.Equal(t, report.StatusAbsent, somchai[14].Status)

	malee := res.People[1].Days
	assert.Equal(t, report.Status("Leave (vacation)"), malee[0].Status)
	assert.Equal(t, report.Status("Leave (vacation)"), malee[1].Status)
	assert.Equal(t, report.StatusLate, malee[4].Status)

	anan := res.People[0].Days
	assert.Equal(t, report.StatusTravel, anan[19].Status)
	assert.Equal(t, []string{"Somchai"}, anan[19].Companions)
	assert.Empty(t, res.Issues)
}

func TestEngine_UnknownPersonGetsAbsentAndDayOff(t *testing.T) {
	e := newTestEngine()

	res, err := e.Reconcile(Input{}, Query{Persons: []string{"Ghost"}, Start: date("2025-05-01"), End: date("2025-05-31")})
	require.NoError(t, err)
	require.Len(t, res.People, 1)

	for _, d := range res.People[0].Days {
		if report.IsWeekend(d.Date) {
			assert.Equal(t, report.StatusDayOff, d.Status)
		} else {
			assert.Equal(t, report.StatusAbsent, d.Status)
		}
		assert.Nil(t, d.ClockIn)
		assert.Nil(t, d.ClockOut)
	}
}

func TestEngine_InvalidRange(t *testing.T) {
	e := newTestEngine()

	_, err := e.Reconcile(Input{}, Query{Start: date("2025-05-31"), End: date("2025-05-01")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, report.ErrInvalidDateRange))

	_, err = e.Reconcile(Input{}, Query{End: date("2025-05-01")})
	assert.True(t, errors.Is(err, report.ErrInvalidDateRange))
}

func TestEngine_CallerOrderIsKept(t *testing.T) {
	e := newTestEngine()

	res, err := e.Reconcile(sampleInput(), Query{
		Persons: []string{"Somchai", "anan", "Malee", "somchai "},
		Start:   date("2025-05-01"),
		End:     date("2025-05-31"),
	})
	require.NoError(t, err)

	require.Len(t, res.People, 3)
	assert.Equal(t, "Somchai", res.People[0].PersonName)
	assert.Equal(t, "Anan", res.People[1].PersonName) // display form from the records
	assert.Equal(t, "Malee", res.People[2].PersonName)
}

func TestEngine_WeekendIdempotence(t *testing.T) {
	e := newTestEngine()
	in := sampleInput()
	// Records on other days must not leak into weekends regardless of order.
	in.Leaves = append(in.Leaves, leaveOf("l4", "Somchai", leave.CategoryOther, "2025-05-26", "2025-05-30"))
	in.Travels = append(in.Travels, travelOf("t2", "Somchai", "", "2025-05-19", "2025-05-23"))
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		rng.Shuffle(len(in.Leaves), func(a, b int) { in.Leaves[a], in.Leaves[b] = in.Leaves[b], in.Leaves[a] })
		rng.Shuffle(len(in.Travels), func(a, b int) { in.Travels[a], in.Travels[b] = in.Travels[b], in.Travels[a] })
		rng.Shuffle(len(in.Scans), func(a, b int) { in.Scans[a], in.Scans[b] = in.Scans[b], in.Scans[a] })

		res, err := e.Reconcile(in, Query{Persons: []string{"Somchai"}, Start: date("2025-05-01"), End: date("2025-05-31")})
		require.NoError(t, err)
		for _, d := range res.People[0].Days {
			day := d.Date.Format("2006-01-02")
			if day == "2025-05-10" {
				continue // scanned Saturday
			}
			if report.IsWeekend(d.Date) {
				assert.Equal(t, report.StatusDayOff, d.Status, day)
			}
		}
	}
}

func TestEngine_GroupTravel(t *testing.T) {
	e := newTestEngine()
	names := []string{"Anan", "Busaba", "Chai"}
	var travels []travel.TravelRecord
	for i, n := range names {
		var others []string
		for j, o := range names {
			if j != i {
				others = append(others, o)
			}
		}
		travels = append(travels, travelOf("t"+n, n, travel.JoinNames(others), "2025-05-13", "2025-05-14"))
	}

	res, err := e.Reconcile(Input{Travels: travels}, Query{Start: date("2025-05-13"), End: date("2025-05-14")})
	require.NoError(t, err)

	require.Len(t, res.People, 3)
	for _, p := range res.People {
		for _, d := range p.Days {
			assert.Equal(t, report.StatusTravel, d.Status)
			assert.Len(t, d.Companions, 2)
			assert.NotContains(t, d.Companions, p.PersonName)
		}
	}
}

func TestEngine_DataQualityIssues(t *testing.T) {
	e := newTestEngine()
	in := Input{
		Leaves: []leave.LeaveRecord{
			leaveOf("l1", "P", leave.CategorySick, "2025-05-13", "2025-05-14"),
			leaveOf("l2", "P", leave.CategoryPersonal, "2025-05-14", "2025-05-15"),
			leaveOf("bad", "P", leave.CategorySick, "2025-05-20", "2025-05-18"),
			{ID: "undated", PersonName: "P", Category: leave.CategorySick},
			leaveOf("noname", "  ", leave.CategorySick, "2025-05-01", "2025-05-01"),
		},
		Travels: []travel.TravelRecord{
			travelOf("t1", "P", "", "2025-05-15", "2025-05-15"),
		},
		Scans: []attendance.ScanRecord{
			scanOn("P", "2025-05-12", "08:00", "16:30"),
			scanOn("P", "2025-05-12", "09:00", "16:30"),
		},
	}

	res, err := e.Reconcile(in, Query{Start: date("2025-05-01"), End: date("2025-05-31")})
	require.NoError(t, err)

	kinds := map[report.IssueKind]int{}
	for _, is := range res.Issues {
		kinds[is.Kind]++
	}
	assert.Equal(t, 1, kinds[report.IssueOverlappingLeave])
	assert.Equal(t, 1, kinds[report.IssueLeaveTravelConflict])
	assert.Equal(t, 1, kinds[report.IssueInvertedRange])
	assert.Equal(t, 1, kinds[report.IssueUnparseableDate])
	assert.Equal(t, 1, kinds[report.IssueMissingName])
	assert.Equal(t, 1, kinds[report.IssueDuplicateScan])

	// The first scan of the duplicated day is used.
	require.Len(t, res.People, 1)
	assert.Equal(t, report.StatusNormal, res.People[0].Days[11].Status)
	// Leave wins the conflicting day.
	assert.Equal(t, report.Status("Leave (personal)"), res.People[0].Days[14].Status)
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine()
	in := sampleInput()
	before := sampleInput()

	_, err := e.Reconcile(in, Query{Start: date("2025-05-01"), End: date("2025-05-31")})
	require.NoError(t, err)

	assert.Equal(t, before, in)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.February)
	assert.Equal(t, "2024-02-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-02-29", end.Format("2006-01-02"))
}
