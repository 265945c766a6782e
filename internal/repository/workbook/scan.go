package workbook

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
)

var scanColumns = []column{
	{key: "id", header: "id", aliases: []string{"รหัส"}},
	{key: "person_name", header: "ชื่อ-สกุล", aliases: []string{"ชื่อ", "name", "full_name", "employee", "พนักงาน"}},
	{key: "date", header: "วันที่", aliases: []string{"scan_date", "day", "วันที่สแกน"}},
	{key: "clock_in", header: "เวลาเข้า", aliases: []string{"in", "time_in", "check_in", "เข้า", "เวลาเข้างาน"}},
	{key: "clock_out", header: "เวลาออก", aliases: []string{"out", "time_out", "check_out", "ออก", "เวลาออกงาน"}},
	{key: "note", header: "หมายเหตุ", aliases: []string{"remark", "remarks"}},
	{key: "created_at", header: "วันที่บันทึก", aliases: []string{"timestamp"}},
}

func decodeScan(r sheetRow) attendance.ScanRecord {
	return attendance.ScanRecord{
		ID:         rowID(r.get("id"), r.line),
		PersonName: r.get("person_name"),
		Date:       readDate(r, "date"),
		ClockIn:    reconcile.NormalizeTime(r.get("clock_in")),
		ClockOut:   reconcile.NormalizeTime(r.get("clock_out")),
		Note:       r.get("note"),
		CreatedAt:  readTimestamp(r, "created_at"),
	}
}

var scanCodec = codec[attendance.ScanRecord]{
	sheet:   "scans",
	columns: scanColumns,
	decode:  decodeScan,
	encode: func(s attendance.ScanRecord, _ int) map[string]any {
		return map[string]any{
			"id":          s.ID,
			"person_name": s.PersonName,
			"date":        dateCell(s.Date),
			"clock_in":    clockCell(s.ClockIn),
			"clock_out":   clockCell(s.ClockOut),
			"note":        s.Note,
			"created_at":  timestampCell(s.CreatedAt),
		}
	},
}

type scanRepository struct {
	tbl *table[attendance.ScanRecord]
}

func NewScanRepository(store Store, file string) attendance.ScanRepository {
	return &scanRepository{tbl: &table[attendance.ScanRecord]{store: store, file: file, codec: scanCodec}}
}

func prepareScans(records []attendance.ScanRecord) []attendance.ScanRecord {
	now := time.Now()
	out := make([]attendance.ScanRecord, len(records))
	for i, s := range records {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		out[i] = s
	}
	return out
}

// List implements attendance.ScanRepository.
func (r *scanRepository) List(ctx context.Context, filter attendance.ScanFilter) ([]attendance.ScanRecord, int64, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	from, hasFrom := filterDate(filter.StartDate)
	to, hasTo := filterDate(filter.EndDate)

	var matched []attendance.ScanRecord
	for _, s := range records {
		if filter.PersonName != nil && *filter.PersonName != "" && !containsFold(s.PersonName, *filter.PersonName) {
			continue
		}
		if hasFrom && s.Date.Before(from) {
			continue
		}
		if hasTo && s.Date.After(to) {
			continue
		}
		matched = append(matched, s)
	}

	asc := filter.SortOrder == "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			if asc {
				return a.Date.Before(b.Date)
			}
			return a.Date.After(b.Date)
		}
		if asc {
			return a.PersonName < b.PersonName
		}
		return a.PersonName > b.PersonName
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

// ListBetween implements attendance.ScanRepository. Rows with unreadable
// dates are included.
func (r *scanRepository) ListBetween(ctx context.Context, start, end time.Time) ([]attendance.ScanRecord, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []attendance.ScanRecord
	for _, s := range records {
		if intersects(s.Date, s.Date, start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

// CreateBatch implements attendance.ScanRepository.
func (r *scanRepository) CreateBatch(ctx context.Context, records []attendance.ScanRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	created := prepareScans(records)
	err := r.tbl.mutate(ctx, func(existing []attendance.ScanRecord) ([]attendance.ScanRecord, error) {
		return append(existing, created...), nil
	})
	if err != nil {
		return 0, err
	}
	return len(created), nil
}

// ReplaceAll implements attendance.ScanRepository.
func (r *scanRepository) ReplaceAll(ctx context.Context, records []attendance.ScanRecord) error {
	out := prepareScans(records)

	r.tbl.mu.Lock()
	defer r.tbl.mu.Unlock()
	return r.tbl.save(ctx, out)
}

// scanParser reads a scanner export. Unlike the stored scan table it
// requires the name and date columns.
type scanParser struct{}

func NewScanParser() attendance.ScanParser {
	return scanParser{}
}

// ParseScans implements attendance.ScanParser.
func (scanParser) ParseScans(r io.Reader) ([]attendance.ScanRecord, []attendance.RowIssue, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}

	index, rows, err := scanCodec.rows(content)
	if err != nil {
		return nil, nil, err
	}
	if index == nil {
		return nil, nil, attendance.ErrEmptyWorkbook
	}
	if _, ok := index["person_name"]; !ok {
		return nil, nil, attendance.ErrMissingColumns
	}
	if _, ok := index["date"]; !ok {
		return nil, nil, attendance.ErrMissingColumns
	}
	if len(rows) == 0 {
		return nil, nil, attendance.ErrEmptyWorkbook
	}

	var scans []attendance.ScanRecord
	var issues []attendance.RowIssue
	for _, row := range rows {
		s := decodeScan(row)
		switch {
		case s.PersonName == "":
			issues = append(issues, attendance.RowIssue{Row: row.line, Message: "missing name"})
			continue
		case s.Date.IsZero():
			issues = append(issues, attendance.RowIssue{
				Row:     row.line,
				Message: fmt.Sprintf("unreadable date %q", row.get("date")),
			})
			continue
		}
		s.ID = ""
		s.CreatedAt = time.Time{}
		scans = append(scans, s)
	}
	return scans, issues, nil
}
