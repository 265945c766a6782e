package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// The table fakes embed the repository interfaces; only ListBetween is
// reached by the report service.
type fakeLeaves struct {
	leave.LeaveRepository
	rows []leave.LeaveRecord
	err  error
}

func (f fakeLeaves) ListBetween(context.Context, time.Time, time.Time) ([]leave.LeaveRecord, error) {
	return f.rows, f.err
}

type fakeTravels struct {
	travel.TravelRepository
	rows []travel.TravelRecord
}

func (f fakeTravels) ListBetween(context.Context, time.Time, time.Time) ([]travel.TravelRecord, error) {
	return f.rows, nil
}

type fakeScans struct {
	attendance.ScanRepository
	rows []attendance.ScanRecord
}

func (f fakeScans) ListBetween(context.Context, time.Time, time.Time) ([]attendance.ScanRecord, error) {
	return f.rows, nil
}

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func clock(h, m int) *time.Time {
	t := time.Date(0, 1, 1, h, m, 0, 0, time.UTC)
	return &t
}

func newTestService(leaves fakeLeaves, travels fakeTravels, scans fakeScans, opts Options) *ReportServiceImpl {
	engine := reconcile.NewEngine(reconcile.NewIdentity(reconcile.IdentityPolicy{}), reconcile.DefaultWorkHours())
	svc := NewReportService(leaves, travels, scans, engine, opts).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func mayFixture() (fakeLeaves, fakeTravels, fakeScans) {
	leaves := fakeLeaves{rows: []leave.LeaveRecord{{
		ID: "l1", PersonName: "B", WorkGroup: meta.WorkGroups[0], Category: leave.CategorySick,
		StartDate: date("2025-05-14"), EndDate: date("2025-05-15"), TotalDays: 2,
	}}}
	travels := fakeTravels{rows: []travel.TravelRecord{{
		ID: "t1", GroupID: "g1", PersonName: "C", WorkGroup: meta.WorkGroups[1], Activity: "สอบสวนโรค",
		Location: "ชัยภูมิ", StartDate: date("2025-05-20"), EndDate: date("2025-05-20"), TotalDays: 1,
	}}}
	scans := fakeScans{rows: []attendance.ScanRecord{{
		ID: "s1", PersonName: "A", Date: date("2025-05-13"), ClockIn: clock(8, 45), ClockOut: clock(16, 45),
	}}}
	return leaves, travels, scans
}

func employee(t *testing.T, r report.MonthlyAttendanceReport, name string) report.MonthlyAttendanceEmployee {
	t.Helper()
	for _, e := range r.Employees {
		if e.EmployeeName == name {
			return e
		}
	}
	t.Fatalf("employee %q not in report", name)
	return report.MonthlyAttendanceEmployee{}
}

func TestGenerateMonthlyAttendanceReport_ResolvesMonth(t *testing.T) {
	// Arrange
	leaves, travels, scans := mayFixture()
	svc := newTestService(leaves, travels, scans, Options{})

	// Act
	got, err := svc.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{
		Month: 5, Year: 2568,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2025, got.PeriodYear)
	assert.Equal(t, "2025-05-01", got.PeriodStart)
	assert.Equal(t, "2025-05-31", got.PeriodEnd)
	require.Len(t, got.Employees, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got.Employees[0].EmployeeName, got.Employees[1].EmployeeName, got.Employees[2].EmployeeName})

	a := employee(t, got, "A")
	assert.Equal(t, 31, a.Summary.Total)
	assert.Equal(t, 1, a.Summary.Counts[string(report.StatusLate)])
	assert.Equal(t, 9, a.Summary.Counts[string(report.StatusDayOff)])
	assert.Equal(t, 21, a.Summary.Counts[string(report.StatusAbsent)])
	assert.Equal(t, "08:45", a.DailyLogs[12].ClockIn)
	assert.Equal(t, "Tuesday", a.DailyLogs[12].DayOfWeek)

	b := employee(t, got, "B")
	assert.Equal(t, 2, b.Summary.Counts[string(report.LeaveStatus(leave.CategorySick))])
	assert.Equal(t, "sick", b.DailyLogs[13].LeaveCategory)

	c := employee(t, got, "C")
	assert.Equal(t, 1, c.Summary.Counts[string(report.StatusTravel)])
	assert.NotNil(t, got.Issues)
}

func TestGenerateMonthlyAttendanceReport_CollapseAndPersons(t *testing.T) {
	leaves, travels, scans := mayFixture()
	svc := newTestService(leaves, travels, scans, Options{})
	collapse := true

	got, err := svc.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{
		Month: 5, Year: 2025, Persons: []string{"B", "Nobody"}, CollapseLeave: &collapse,
	})

	require.NoError(t, err)
	require.Len(t, got.Employees, 2)
	assert.Equal(t, "B", got.Employees[0].EmployeeName)
	assert.Equal(t, 2, got.Employees[0].Summary.Counts[string(report.StatusLeave)])
	assert.Equal(t, string(report.StatusLeave), got.Employees[0].DailyLogs[13].Status)
	assert.Contains(t, got.Categories, string(report.StatusLeave))
	assert.Equal(t, 22, got.Employees[1].Summary.Counts[string(report.StatusAbsent)])
}

func TestGenerateMonthlyAttendanceReport_InvalidMonth(t *testing.T) {
	leaves, travels, scans := mayFixture()
	svc := newTestService(leaves, travels, scans, Options{})

	_, err := svc.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{Month: 13, Year: 2025})

	assert.Error(t, err)
}

func TestGenerateMonthlyAttendanceReport_LoadError(t *testing.T) {
	_, travels, scans := mayFixture()
	boom := errors.New("drive unavailable")
	svc := newTestService(fakeLeaves{err: boom}, travels, scans, Options{Timeout: time.Second})

	_, err := svc.GenerateMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{Month: 5, Year: 2025})

	assert.ErrorIs(t, err, boom)
}

func TestExportMonthlyAttendanceReport_Workbook(t *testing.T) {
	// Arrange
	leaves, travels, scans := mayFixture()
	svc := newTestService(leaves, travels, scans, Options{})

	// Act
	buf, filename, err := svc.ExportMonthlyAttendanceReport(context.Background(), report.MonthlyAttendanceReportRequest{
		Month: 5, Year: 2025,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "attendance_2025-05.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, dailySheet}, f.GetSheetList())
	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, "ชื่อ-สกุล", summary[0][0])
	assert.Equal(t, "Total", summary[0][len(summary[0])-1])
	assert.Equal(t, "31", summary[1][len(summary[1])-1])

	daily, err := f.GetRows(dailySheet)
	require.NoError(t, err)
	assert.Len(t, daily, 1+3*31)
	assert.Equal(t, string(report.StatusLate), daily[13][5])

	lateStyle, err := f.GetCellStyle(dailySheet, "F14")
	require.NoError(t, err)
	absentStyle, err := f.GetCellStyle(dailySheet, "F2")
	require.NoError(t, err)
	assert.NotZero(t, lateStyle)
	assert.NotEqual(t, lateStyle, absentStyle)
}

func TestGenerateDashboard_SumsPerCategoryAndGroup(t *testing.T) {
	// Arrange
	leaves, travels, scans := mayFixture()
	leaves.rows = append(leaves.rows,
		leave.LeaveRecord{ID: "l2", PersonName: "A", WorkGroup: meta.WorkGroups[0], Category: leave.CategoryVacation,
			StartDate: date("2025-06-02"), EndDate: date("2025-06-04"), TotalDays: 3},
		leave.LeaveRecord{ID: "l3", PersonName: "A", WorkGroup: "อื่น", Category: leave.CategorySick,
			StartDate: date("2024-12-30"), EndDate: date("2025-01-02"), TotalDays: 4},
	)
	svc := newTestService(leaves, travels, scans, Options{})

	// Act
	all, err := svc.GenerateDashboard(context.Background(), report.DashboardRequest{})
	require.NoError(t, err)
	y2025, err := svc.GenerateDashboard(context.Background(), report.DashboardRequest{Year: 2568})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 3, all.TotalLeaveRecords)
	assert.Equal(t, 9, all.TotalLeaveDays)
	assert.Equal(t, 1, all.TotalTravelRecords)
	assert.Equal(t, 1, all.TotalTravelDays)
	require.Len(t, all.LeaveDaysByCategory, len(leave.Categories))
	assert.Equal(t, report.CategoryDays{Category: "sick", Label: "ลาป่วย", Records: 2, Days: 6}, all.LeaveDaysByCategory[0])
	assert.Equal(t, []report.WorkGroupDays{
		{WorkGroup: meta.WorkGroups[0], Records: 2, Days: 5},
		{WorkGroup: "อื่น", Records: 1, Days: 4},
	}, all.LeaveDaysByWorkGroup)
	assert.Equal(t, []report.WorkGroupDays{{WorkGroup: meta.WorkGroups[1], Records: 1, Days: 1}}, all.TravelDaysByGroup)

	assert.Equal(t, 2025, y2025.Year)
	assert.Equal(t, 2, y2025.TotalLeaveRecords)
	assert.Equal(t, 5, y2025.TotalLeaveDays)
}
