package reconcile

import (
	"fmt"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
)

// WorkHours is the official work window as offsets from midnight.
type WorkHours struct {
	Start time.Duration
	End   time.Duration
}

// DefaultWorkHours is 08:30 to 16:30.
func DefaultWorkHours() WorkHours {
	return WorkHours{Start: 8*time.Hour + 30*time.Minute, End: 16*time.Hour + 30*time.Minute}
}

// ParseWorkHours reads "HH:MM" start and end times.
func ParseWorkHours(start, end string) (WorkHours, error) {
	s := clockFromString(start)
	if s == nil {
		return WorkHours{}, fmt.Errorf("invalid work start time %q", start)
	}
	e := clockFromString(end)
	if e == nil {
		return WorkHours{}, fmt.Errorf("invalid work end time %q", end)
	}
	h := WorkHours{Start: sinceMidnight(*s), End: sinceMidnight(*e)}
	if h.End <= h.Start {
		return WorkHours{}, fmt.Errorf("work end time %q must be after start time %q", end, start)
	}
	return h, nil
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

// Resolver picks the single status of a person-day.
type Resolver struct {
	identity *Identity
	hours    WorkHours
}

func NewResolver(identity *Identity, hours WorkHours) *Resolver {
	return &Resolver{identity: identity, hours: hours}
}

// Resolve returns the status of person on date given the full tables. Records
// of other persons and records with unusable dates are ignored.
func (r *Resolver) Resolve(person string, date time.Time, leaves []leave.LeaveRecord, travels []travel.TravelRecord, scans []attendance.ScanRecord) report.DailyStatus {
	key := r.identity.Key(person)
	day, ok := NormalizeDate(date)
	if !ok {
		day = date
	}

	var ownLeaves []interval[leave.LeaveRecord]
	for _, l := range leaves {
		if r.identity.Key(l.PersonName) != key {
			continue
		}
		if iv, ok := newInterval(l, l.StartDate, l.EndDate); ok {
			ownLeaves = append(ownLeaves, iv)
		}
	}
	var ownTravels []interval[travel.TravelRecord]
	for _, t := range travels {
		if r.identity.Key(t.PersonName) != key {
			continue
		}
		if iv, ok := newInterval(t, t.StartDate, t.EndDate); ok {
			ownTravels = append(ownTravels, iv)
		}
	}
	var scan *attendance.ScanRecord
	for i := range scans {
		if r.identity.Key(scans[i].PersonName) != key {
			continue
		}
		if d, ok := NormalizeDate(scans[i].Date); ok && d.Equal(day) {
			scan = &scans[i]
			break
		}
	}

	lv, _ := firstCovering(ownLeaves, day)
	tv, _ := firstCovering(ownTravels, day)
	return r.resolveDay(key, person, day, lv, tv, scan)
}

// resolveDay applies the precedence leave > travel > scan > weekend > absent
// to already matched records.
func (r *Resolver) resolveDay(key, display string, day time.Time, lv *leave.LeaveRecord, tv *travel.TravelRecord, scan *attendance.ScanRecord) report.DailyStatus {
	ds := report.DailyStatus{
		PersonKey:  key,
		PersonName: display,
		Date:       day,
	}
	if scan != nil {
		ds.ClockIn = scan.ClockIn
		ds.ClockOut = scan.ClockOut
		ds.Note = scan.Note
	}

	weekend := report.IsWeekend(day)
	switch {
	case lv != nil:
		ds.Status = report.LeaveStatus(lv.Category)
		ds.LeaveCategory = lv.Category
		if ds.Note == "" {
			ds.Note = lv.Reason
		}
	case tv != nil:
		ds.Status = report.StatusTravel
		ds.Companions = tv.CompanionNames()
		if ds.Note == "" {
			ds.Note = travelNote(*tv)
		}
	case scan != nil:
		ds.Status = r.scanStatus(weekend, scan.ClockIn, scan.ClockOut)
	case weekend:
		ds.Status = report.StatusDayOff
	default:
		ds.Status = report.StatusAbsent
	}
	return ds
}

func (r *Resolver) scanStatus(weekend bool, in, out *time.Time) report.Status {
	if weekend {
		return report.StatusOvertime
	}
	if in == nil && out == nil {
		return report.StatusAbsent
	}
	late := in != nil && sinceMidnight(*in) > r.hours.Start
	early := out != nil && sinceMidnight(*out) < r.hours.End
	switch {
	case late && early:
		return report.StatusLateLeftEarly
	case late:
		return report.StatusLate
	case early:
		return report.StatusLeftEarly
	default:
		return report.StatusNormal
	}
}

func travelNote(t travel.TravelRecord) string {
	switch {
	case t.Activity != "" && t.Location != "":
		return t.Activity + " @ " + t.Location
	case t.Activity != "":
		return t.Activity
	default:
		return t.Location
	}
}

// interval is a record with normalized, inclusive bounds.
type interval[T any] struct {
	record     T
	start, end time.Time
}

func newInterval[T any](record T, rawStart, rawEnd time.Time) (interval[T], bool) {
	start, ok1 := NormalizeDate(rawStart)
	end, ok2 := NormalizeDate(rawEnd)
	if !ok1 || !ok2 || end.Before(start) {
		return interval[T]{}, false
	}
	return interval[T]{record: record, start: start, end: end}, true
}

func (iv interval[T]) covers(day time.Time) bool {
	return !day.Before(iv.start) && !day.After(iv.end)
}

func (iv interval[T]) intersects(start, end time.Time) bool {
	return !iv.end.Before(start) && !iv.start.After(end)
}

// firstCovering returns the first record covering day and how many do.
func firstCovering[T any](list []interval[T], day time.Time) (*T, int) {
	var first *T
	n := 0
	for i := range list {
		if list[i].covers(day) {
			if first == nil {
				first = &list[i].record
			}
			n++
		}
	}
	return first, n
}
