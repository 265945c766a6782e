package report

import (
	"fmt"
	"strings"

	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
)

// Accepted report years, Gregorian.
const (
	MinYear = 2000
	MaxYear = 2100
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"` // Gregorian or Buddhist Era

	// Persons limits the report to these names in this order. Empty means
	// everyone with a record in the month.
	Persons []string `json:"persons,omitempty"`

	// CollapseLeave overrides the configured leave bucketing when set.
	CollapseLeave *bool `json:"collapse_leave,omitempty"`
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year > 2500 {
		r.Year -= 543
	}
	if r.Year < MinYear || r.Year > MaxYear {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear),
		})
	}

	var persons []string
	for _, p := range r.Persons {
		if p = strings.TrimSpace(p); p != "" && !strings.EqualFold(p, "all") {
			persons = append(persons, p)
		}
	}
	r.Persons = persons

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Categories []string                    `json:"categories"`
	Employees  []MonthlyAttendanceEmployee `json:"employees"`
	Issues     []Issue                     `json:"issues"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeName string `json:"employee_name"`

	Summary   AttendanceSummary    `json:"summary"`
	DailyLogs []AttendanceDailyLog `json:"daily_logs"`
}

type AttendanceSummary struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

type AttendanceDailyLog struct {
	Date          string   `json:"date"`
	DayOfWeek     string   `json:"day_of_week"`
	ClockIn       string   `json:"clock_in"`
	ClockOut      string   `json:"clock_out"`
	Status        string   `json:"status"`
	LeaveCategory string   `json:"leave_category,omitempty"`
	Note          string   `json:"note,omitempty"`
	Companions    []string `json:"companions,omitempty"`
}

// ========================================
// DASHBOARD
// ========================================

type DashboardRequest struct {
	Year int `json:"year"` // 0 means all years
}

func (r *DashboardRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year > 2500 {
		r.Year -= 543
	}
	if r.Year != 0 && (r.Year < MinYear || r.Year > MaxYear) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a valid year",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DashboardReport struct {
	Year        int    `json:"year,omitempty"`
	GeneratedAt string `json:"generated_at"`

	TotalLeaveRecords  int `json:"total_leave_records"`
	TotalTravelRecords int `json:"total_travel_records"`
	TotalLeaveDays     int `json:"total_leave_days"`
	TotalTravelDays    int `json:"total_travel_days"`

	LeaveDaysByCategory  []CategoryDays  `json:"leave_days_by_category"`
	TravelDaysByGroup    []WorkGroupDays `json:"travel_days_by_work_group"`
	LeaveDaysByWorkGroup []WorkGroupDays `json:"leave_days_by_work_group"`
}

type CategoryDays struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Records  int    `json:"records"`
	Days     int    `json:"days"`
}

type WorkGroupDays struct {
	WorkGroup string `json:"work_group"`
	Records   int    `json:"records"`
	Days      int    `json:"days"`
}
