// Package reconcile merges leave, travel and scan tables into one status per
// person per day and rolls the days up into monthly counts. Everything here
// is pure: callers load the tables and pass them in.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
)

// Input is a read-only snapshot of the three tables.
type Input struct {
	Leaves  []leave.LeaveRecord
	Travels []travel.TravelRecord
	Scans   []attendance.ScanRecord
}

// Query selects persons and an inclusive date window. An empty Persons
// means everyone with a record in the window.
type Query struct {
	Persons []string
	Start   time.Time
	End     time.Time
}

// Result holds one contiguous day sequence per person plus the data-quality
// findings seen while building it.
type Result struct {
	Start  time.Time
	End    time.Time
	People []report.PersonDays
	Issues []report.Issue
}

// Engine answers range queries.
type Engine struct {
	identity *Identity
	resolver *Resolver
}

func NewEngine(identity *Identity, hours WorkHours) *Engine {
	return &Engine{identity: identity, resolver: NewResolver(identity, hours)}
}

// Resolver exposes the single-day resolver sharing this engine's policy.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// MonthRange returns the first and last day of a month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

type scanKey struct {
	person string
	date   time.Time
}

type personRecords struct {
	display string
	leaves  []interval[leave.LeaveRecord]
	travels []interval[travel.TravelRecord]
}

// Reconcile resolves every day of the window for the selected persons.
func (e *Engine) Reconcile(in Input, q Query) (Result, error) {
	start, okStart := NormalizeDate(q.Start)
	end, okEnd := NormalizeDate(q.End)
	if !okStart || !okEnd || start.After(end) {
		return Result{}, fmt.Errorf("%w: %s to %s", report.ErrInvalidDateRange,
			q.Start.Format("2006-01-02"), q.End.Format("2006-01-02"))
	}

	var wanted map[string]bool
	if len(q.Persons) > 0 {
		wanted = make(map[string]bool, len(q.Persons))
		for _, p := range q.Persons {
			if k := e.identity.Key(p); k != "" {
				wanted[k] = true
			}
		}
	}

	b := &builder{
		engine:  e,
		wanted:  wanted,
		start:   start,
		end:     end,
		persons: make(map[string]*personRecords),
		scans:   make(map[scanKey]*attendance.ScanRecord),
	}

	// Scans first so their spelling of a name becomes the display form.
	for i := range in.Scans {
		b.addScan(&in.Scans[i])
	}
	for _, l := range in.Leaves {
		b.addLeave(l)
	}
	for _, t := range in.Travels {
		b.addTravel(t)
	}

	res := Result{Start: start, End: end, Issues: b.issues}
	for _, p := range b.order(q.Persons) {
		res.People = append(res.People, b.resolvePerson(p.key, p.display, &res))
	}
	return res, nil
}

type builder struct {
	engine  *Engine
	wanted  map[string]bool
	start   time.Time
	end     time.Time
	persons map[string]*personRecords
	scans   map[scanKey]*attendance.ScanRecord
	issues  []report.Issue
}

func (b *builder) selected(key string) bool {
	return b.wanted == nil || b.wanted[key]
}

// person returns the bucket for key, creating it on first sight.
func (b *builder) person(key, display string) *personRecords {
	p, ok := b.persons[key]
	if !ok {
		p = &personRecords{display: display}
		b.persons[key] = p
	}
	return p
}

func (b *builder) addScan(s *attendance.ScanRecord) {
	key := b.engine.identity.Key(s.PersonName)
	if key == "" {
		b.flag(report.IssueMissingName, "scans", s.ID, "", "", "scan row has no person name")
		return
	}
	if !b.selected(key) {
		return
	}
	day, ok := NormalizeDate(s.Date)
	if !ok {
		b.flag(report.IssueUnparseableDate, "scans", s.ID, s.PersonName, "", "scan row date could not be read")
		return
	}
	if day.Before(b.start) || day.After(b.end) {
		return
	}
	b.person(key, s.PersonName)
	k := scanKey{person: key, date: day}
	if _, dup := b.scans[k]; dup {
		b.flag(report.IssueDuplicateScan, "scans", s.ID, s.PersonName, day.Format("2006-01-02"),
			"more than one scan row for this day; the first one is used")
		return
	}
	b.scans[k] = s
}

func (b *builder) addLeave(l leave.LeaveRecord) {
	key := b.engine.identity.Key(l.PersonName)
	if key == "" {
		b.flag(report.IssueMissingName, "leaves", l.ID, "", "", "leave row has no person name")
		return
	}
	if !b.selected(key) {
		return
	}
	iv, ok := newInterval(l, l.StartDate, l.EndDate)
	if !ok {
		b.flagInterval("leaves", l.ID, l.PersonName, l.StartDate, l.EndDate)
		return
	}
	if !iv.intersects(b.start, b.end) {
		return
	}
	p := b.person(key, l.PersonName)
	p.leaves = append(p.leaves, iv)
}

func (b *builder) addTravel(t travel.TravelRecord) {
	key := b.engine.identity.Key(t.PersonName)
	if key == "" {
		b.flag(report.IssueMissingName, "travels", t.ID, "", "", "travel row has no person name")
		return
	}
	if !b.selected(key) {
		return
	}
	iv, ok := newInterval(t, t.StartDate, t.EndDate)
	if !ok {
		b.flagInterval("travels", t.ID, t.PersonName, t.StartDate, t.EndDate)
		return
	}
	if !iv.intersects(b.start, b.end) {
		return
	}
	p := b.person(key, t.PersonName)
	p.travels = append(p.travels, iv)
}

func (b *builder) flagInterval(table, id, person string, rawStart, rawEnd time.Time) {
	start, ok1 := NormalizeDate(rawStart)
	end, ok2 := NormalizeDate(rawEnd)
	if ok1 && ok2 && end.Before(start) {
		b.flag(report.IssueInvertedRange, table, id, person, start.Format("2006-01-02"), "end date is before start date")
		return
	}
	b.flag(report.IssueUnparseableDate, table, id, person, "", "start or end date could not be read")
}

func (b *builder) flag(kind report.IssueKind, table, id, person, date, msg string) {
	b.issues = append(b.issues, report.Issue{
		Kind:       kind,
		Table:      table,
		RecordID:   id,
		PersonName: person,
		Date:       date,
		Message:    msg,
	})
}

type orderedPerson struct {
	key     string
	display string
}

// order lists the persons to emit: caller order when persons were named,
// otherwise everyone seen, by display name.
func (b *builder) order(requested []string) []orderedPerson {
	var out []orderedPerson
	if len(requested) > 0 {
		seen := make(map[string]bool, len(requested))
		for _, name := range requested {
			key := b.engine.identity.Key(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			display := name
			if p, ok := b.persons[key]; ok {
				display = p.display
			}
			out = append(out, orderedPerson{key: key, display: display})
		}
		return out
	}

	for key, p := range b.persons {
		out = append(out, orderedPerson{key: key, display: p.display})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].display != out[j].display {
			return out[i].display < out[j].display
		}
		return out[i].key < out[j].key
	})
	return out
}

func (b *builder) resolvePerson(key, display string, res *Result) report.PersonDays {
	p := b.persons[key]
	if p == nil {
		p = &personRecords{display: display}
	}

	days := make([]report.DailyStatus, 0, int(b.end.Sub(b.start).Hours()/24)+1)
	for day := b.start; !day.After(b.end); day = day.AddDate(0, 0, 1) {
		lv, nLeave := firstCovering(p.leaves, day)
		tv, nTravel := firstCovering(p.travels, day)
		date := day.Format("2006-01-02")
		if nLeave > 1 {
			res.Issues = append(res.Issues, report.Issue{Kind: report.IssueOverlappingLeave, Table: "leaves",
				RecordID: lv.ID, PersonName: display, Date: date, Message: "more than one leave covers this day; the first one is used"})
		}
		if nTravel > 1 {
			res.Issues = append(res.Issues, report.Issue{Kind: report.IssueOverlappingTravel, Table: "travels",
				RecordID: tv.ID, PersonName: display, Date: date, Message: "more than one travel covers this day; the first one is used"})
		}
		if lv != nil && tv != nil {
			res.Issues = append(res.Issues, report.Issue{Kind: report.IssueLeaveTravelConflict, Table: "leaves",
				RecordID: lv.ID, PersonName: display, Date: date, Message: "leave and travel both cover this day; leave is used"})
		}
		scan := b.scans[scanKey{person: key, date: day}]
		days = append(days, b.engine.resolver.resolveDay(key, display, day, lv, tv, scan))
	}
	return report.PersonDays{PersonKey: key, PersonName: display, Days: days}
}
