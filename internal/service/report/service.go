package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
)

// Options are the configurable report defaults.
type Options struct {
	CollapseLeave bool
	// Timeout bounds loading the tables for one report. Zero means none.
	Timeout time.Duration
}

type ReportServiceImpl struct {
	leaveRepo  leave.LeaveRepository
	travelRepo travel.TravelRepository
	scanRepo   attendance.ScanRepository
	engine     *reconcile.Engine
	opts       Options
	now        func() time.Time
}

func NewReportService(
	leaveRepo leave.LeaveRepository,
	travelRepo travel.TravelRepository,
	scanRepo attendance.ScanRepository,
	engine *reconcile.Engine,
	opts Options,
) report.ReportService {
	return &ReportServiceImpl{
		leaveRepo:  leaveRepo,
		travelRepo: travelRepo,
		scanRepo:   scanRepo,
		engine:     engine,
		opts:       opts,
		now:        time.Now,
	}
}

// load reads the three tables for [start, end] under the report timeout.
func (s *ReportServiceImpl) load(ctx context.Context, start, end time.Time, withScans bool) (reconcile.Input, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	var in reconcile.Input
	var err error
	if in.Leaves, err = s.leaveRepo.ListBetween(ctx, start, end); err != nil {
		return reconcile.Input{}, fmt.Errorf("failed to load leaves: %w", err)
	}
	if in.Travels, err = s.travelRepo.ListBetween(ctx, start, end); err != nil {
		return reconcile.Input{}, fmt.Errorf("failed to load travels: %w", err)
	}
	if withScans {
		if in.Scans, err = s.scanRepo.ListBetween(ctx, start, end); err != nil {
			return reconcile.Input{}, fmt.Errorf("failed to load scans: %w", err)
		}
	}
	return in, nil
}

// reconcileMonth validates the request and runs the engine over the month.
func (s *ReportServiceImpl) reconcileMonth(ctx context.Context, req *report.MonthlyAttendanceReportRequest) (reconcile.Result, report.Summary, bool, error) {
	if err := req.Validate(); err != nil {
		return reconcile.Result{}, report.Summary{}, false, err
	}

	collapse := s.opts.CollapseLeave
	if req.CollapseLeave != nil {
		collapse = *req.CollapseLeave
	}

	start, end := reconcile.MonthRange(req.Year, time.Month(req.Month))
	in, err := s.load(ctx, start, end, true)
	if err != nil {
		return reconcile.Result{}, report.Summary{}, false, err
	}

	res, err := s.engine.Reconcile(in, reconcile.Query{Persons: req.Persons, Start: start, End: end})
	if err != nil {
		return reconcile.Result{}, report.Summary{}, false, err
	}
	return res, reconcile.Summarize(res.People, collapse), collapse, nil
}

// GenerateMonthlyAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	res, summary, collapse, err := s.reconcileMonth(ctx, &req)
	if err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	out := report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: res.Start.Format("2006-01-02"),
		PeriodEnd:   res.End.Format("2006-01-02"),
		GeneratedAt: s.now().Format(time.RFC3339),
		Categories:  make([]string, 0, len(summary.Categories)),
		Employees:   make([]report.MonthlyAttendanceEmployee, 0, len(res.People)),
		Issues:      res.Issues,
	}
	if out.Issues == nil {
		out.Issues = []report.Issue{}
	}
	for _, c := range summary.Categories {
		out.Categories = append(out.Categories, string(c))
	}

	for i, p := range res.People {
		row := summary.Rows[i]
		emp := report.MonthlyAttendanceEmployee{
			EmployeeName: p.PersonName,
			Summary: report.AttendanceSummary{
				Counts: make(map[string]int, len(row.Counts)),
				Total:  row.Total,
			},
			DailyLogs: make([]report.AttendanceDailyLog, 0, len(p.Days)),
		}
		for status, n := range row.Counts {
			emp.Summary.Counts[string(status)] = n
		}
		for _, d := range p.Days {
			emp.DailyLogs = append(emp.DailyLogs, dailyLog(d, collapse))
		}
		out.Employees = append(out.Employees, emp)
	}

	return out, nil
}

func dailyLog(d report.DailyStatus, collapse bool) report.AttendanceDailyLog {
	status := d.Status
	if collapse && status.IsLeave() {
		status = report.StatusLeave
	}
	return report.AttendanceDailyLog{
		Date:          d.Date.Format("2006-01-02"),
		DayOfWeek:     d.Date.Weekday().String(),
		ClockIn:       reconcile.FormatClock(d.ClockIn),
		ClockOut:      reconcile.FormatClock(d.ClockOut),
		Status:        string(status),
		LeaveCategory: string(d.LeaveCategory),
		Note:          d.Note,
		Companions:    d.Companions,
	}
}

// Bounds of the all-years dashboard window.
var (
	dashboardFrom = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	dashboardTo   = time.Date(2200, 12, 31, 0, 0, 0, 0, time.UTC)
)

// GenerateDashboard implements report.ReportService. With a year, records
// are attributed to the year their interval starts in.
func (s *ReportServiceImpl) GenerateDashboard(ctx context.Context, req report.DashboardRequest) (report.DashboardReport, error) {
	if err := req.Validate(); err != nil {
		return report.DashboardReport{}, err
	}

	from, to := dashboardFrom, dashboardTo
	if req.Year != 0 {
		from = time.Date(req.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		to = time.Date(req.Year, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	in, err := s.load(ctx, from, to, false)
	if err != nil {
		return report.DashboardReport{}, err
	}

	inYear := func(start time.Time) bool {
		return req.Year == 0 || start.Year() == req.Year
	}

	out := report.DashboardReport{Year: req.Year, GeneratedAt: s.now().Format(time.RFC3339)}

	byCategory := make(map[leave.Category]*report.CategoryDays, len(leave.Categories))
	for _, c := range leave.Categories {
		byCategory[c] = &report.CategoryDays{Category: string(c), Label: c.ThaiLabel()}
	}
	leaveGroups := newGroupTally()
	for _, l := range in.Leaves {
		if !inYear(l.StartDate) {
			continue
		}
		out.TotalLeaveRecords++
		out.TotalLeaveDays += l.TotalDays

		c := l.Category
		if !c.Valid() {
			c = leave.CategoryOther
		}
		byCategory[c].Records++
		byCategory[c].Days += l.TotalDays
		leaveGroups.add(l.WorkGroup, l.TotalDays)
	}
	for _, c := range leave.Categories {
		out.LeaveDaysByCategory = append(out.LeaveDaysByCategory, *byCategory[c])
	}

	travelGroups := newGroupTally()
	for _, t := range in.Travels {
		if !inYear(t.StartDate) {
			continue
		}
		out.TotalTravelRecords++
		out.TotalTravelDays += t.TotalDays
		travelGroups.add(t.WorkGroup, t.TotalDays)
	}

	out.LeaveDaysByWorkGroup = leaveGroups.rows()
	out.TravelDaysByGroup = travelGroups.rows()
	return out, nil
}

// groupTally sums records and days per work group. Listed groups come
// first in their fixed order, then any others alphabetically.
type groupTally map[string]*report.WorkGroupDays

func newGroupTally() groupTally {
	return groupTally{}
}

func (g groupTally) add(group string, days int) {
	if group == "" {
		group = "-"
	}
	row, ok := g[group]
	if !ok {
		row = &report.WorkGroupDays{WorkGroup: group}
		g[group] = row
	}
	row.Records++
	row.Days += days
}

func (g groupTally) rows() []report.WorkGroupDays {
	out := make([]report.WorkGroupDays, 0, len(g))
	for _, name := range meta.WorkGroups {
		if row, ok := g[name]; ok {
			out = append(out, *row)
		}
	}
	var rest []string
	for name := range g {
		if !meta.IsWorkGroup(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, *g[name])
	}
	return out
}
