package report

import (
	"strings"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
)

// Status is the single resolved label for one person on one day.
type Status string

const (
	StatusNormal        Status = "Normal attendance"
	StatusLate          Status = "Late"
	StatusLeftEarly     Status = "Left early"
	StatusLateLeftEarly Status = "Late + left early"
	StatusAbsent        Status = "Absent"
	StatusOvertime      Status = "Overtime"
	StatusTravel        Status = "Official travel"
	StatusDayOff        Status = "Day off"

	// StatusLeave is the collapsed bucket for every leave category.
	StatusLeave Status = "Leave"
)

const leavePrefix = "Leave ("

// LeaveStatus is the label for a day covered by leave of category c.
func LeaveStatus(c leave.Category) Status {
	if !c.Valid() {
		c = leave.CategoryOther
	}
	return Status(leavePrefix + string(c) + ")")
}

// IsLeave reports whether s is a leave label, collapsed or not.
func (s Status) IsLeave() bool {
	return s == StatusLeave || strings.HasPrefix(string(s), leavePrefix)
}

// Categories lists every status a summary counts, in column order. With
// collapse, all leave categories are the single StatusLeave column.
func Categories(collapseLeave bool) []Status {
	out := []Status{
		StatusNormal,
		StatusLate,
		StatusLeftEarly,
		StatusLateLeftEarly,
		StatusAbsent,
		StatusOvertime,
		StatusTravel,
		StatusDayOff,
	}
	if collapseLeave {
		return append(out, StatusLeave)
	}
	for _, c := range leave.Categories {
		out = append(out, LeaveStatus(c))
	}
	return out
}

// DailyStatus is the derived view of one person on one date.
type DailyStatus struct {
	PersonKey     string
	PersonName    string
	Date          time.Time
	Status        Status
	LeaveCategory leave.Category // leave days only
	ClockIn       *time.Time
	ClockOut      *time.Time
	Note          string
	Companions    []string // travel days only
}

// Weekend reports whether the date is a Saturday or Sunday.
func (d DailyStatus) Weekend() bool {
	return IsWeekend(d.Date)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PersonDays is one person's contiguous daily sequence.
type PersonDays struct {
	PersonKey  string
	PersonName string
	Days       []DailyStatus
}

// SummaryRow counts one person's days per status category.
type SummaryRow struct {
	PersonKey  string
	PersonName string
	Counts     map[Status]int
	Total      int
}

// Summary is a monthly pivot. Every row has a count for every category.
type Summary struct {
	Categories []Status
	Rows       []SummaryRow
}

type IssueKind string

const (
	IssueUnparseableDate     IssueKind = "unparseable_date"
	IssueInvertedRange       IssueKind = "inverted_range"
	IssueMissingName         IssueKind = "missing_name"
	IssueOverlappingLeave    IssueKind = "overlapping_leave"
	IssueOverlappingTravel   IssueKind = "overlapping_travel"
	IssueLeaveTravelConflict IssueKind = "leave_travel_conflict"
	IssueDuplicateScan       IssueKind = "duplicate_scan"
)

// Issue is a data-quality finding. Issues never stop a report.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	Table      string    `json:"table"`
	RecordID   string    `json:"record_id,omitempty"`
	PersonName string    `json:"person_name,omitempty"`
	Date       string    `json:"date,omitempty"`
	Message    string    `json:"message"`
}
