package workbook

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
)

var leaveColumns = []column{
	{key: "id", header: "id", aliases: []string{"รหัส"}},
	{key: "seq", header: "ลำดับ", aliases: []string{"no", "no."}},
	{key: "person_name", header: "ชื่อ-สกุล", aliases: []string{"ชื่อ", "name", "full_name", "person"}},
	{key: "work_group", header: "กลุ่มงาน", aliases: []string{"group", "department"}},
	{key: "category", header: "ประเภทการลา", aliases: []string{"leave_type", "type"}},
	{key: "start_date", header: "วันที่เริ่ม", aliases: []string{"start", "from"}},
	{key: "end_date", header: "วันที่สิ้นสุด", aliases: []string{"end", "to"}},
	{key: "total_days", header: "จำนวนวันลา", aliases: []string{"จำนวนวัน", "days"}},
	{key: "reason", header: "เหตุผล", aliases: []string{"หมายเหตุ", "note"}},
	{key: "attachment_url", header: "ไฟล์แนบ", aliases: []string{"attachment", "file"}},
	{key: "created_at", header: "วันที่บันทึก", aliases: []string{"timestamp", "submitted_at"}},
	{key: "updated_at", header: "วันที่แก้ไข"},
}

var leaveCodec = codec[leave.LeaveRecord]{
	sheet:   "leave",
	columns: leaveColumns,
	decode: func(r sheetRow) leave.LeaveRecord {
		l := leave.LeaveRecord{
			ID:            rowID(r.get("id"), r.line),
			PersonName:    r.get("person_name"),
			WorkGroup:     r.get("work_group"),
			Category:      leave.ParseCategory(r.get("category")),
			StartDate:     readDate(r, "start_date"),
			EndDate:       readDate(r, "end_date"),
			Reason:        r.get("reason"),
			AttachmentURL: r.optional("attachment_url"),
			CreatedAt:     readTimestamp(r, "created_at"),
			UpdatedAt:     readTimestamp(r, "updated_at"),
		}
		if n, ok := r.count("total_days"); ok {
			l.TotalDays = n
		} else if !l.StartDate.IsZero() && !l.EndDate.IsZero() {
			l.TotalDays = meta.DayCount(l.StartDate, l.EndDate)
		}
		if l.UpdatedAt.IsZero() {
			l.UpdatedAt = l.CreatedAt
		}
		return l
	},
	encode: func(l leave.LeaveRecord, seq int) map[string]any {
		return map[string]any{
			"id":             l.ID,
			"seq":            seq,
			"person_name":    l.PersonName,
			"work_group":     l.WorkGroup,
			"category":       l.Category.ThaiLabel(),
			"start_date":     dateCell(l.StartDate),
			"end_date":       dateCell(l.EndDate),
			"total_days":     l.TotalDays,
			"reason":         l.Reason,
			"attachment_url": stringCell(l.AttachmentURL),
			"created_at":     timestampCell(l.CreatedAt),
			"updated_at":     timestampCell(l.UpdatedAt),
		}
	},
}

type leaveRepository struct {
	tbl *table[leave.LeaveRecord]
}

func NewLeaveRepository(store Store, file string) leave.LeaveRepository {
	return &leaveRepository{tbl: &table[leave.LeaveRecord]{store: store, file: file, codec: leaveCodec}}
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	now := time.Now()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	err := r.tbl.mutate(ctx, func(records []leave.LeaveRecord) ([]leave.LeaveRecord, error) {
		return append(records, record), nil
	})
	if err != nil {
		return leave.LeaveRecord{}, err
	}
	return record, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRecord, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return leave.LeaveRecord{}, err
	}
	for _, l := range records {
		if l.ID == id {
			return l, nil
		}
	}
	return leave.LeaveRecord{}, leave.ErrLeaveNotFound
}

// List implements leave.LeaveRepository.
func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRecord, int64, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	from, hasFrom := filterDate(filter.StartDate)
	to, hasTo := filterDate(filter.EndDate)

	var matched []leave.LeaveRecord
	for _, l := range records {
		if filter.PersonName != nil && *filter.PersonName != "" && !containsFold(l.PersonName, *filter.PersonName) {
			continue
		}
		if filter.WorkGroup != nil && *filter.WorkGroup != "" && l.WorkGroup != *filter.WorkGroup {
			continue
		}
		if filter.Category != nil && *filter.Category != "" && string(l.Category) != *filter.Category {
			continue
		}
		if hasFrom && l.EndDate.Before(from) {
			continue
		}
		if hasTo && l.StartDate.After(to) {
			continue
		}
		matched = append(matched, l)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].StartDate.Equal(matched[j].StartDate) {
			return matched[i].StartDate.After(matched[j].StartDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

// ListBetween implements leave.LeaveRepository. Rows with unreadable dates
// are included.
func (r *leaveRepository) ListBetween(ctx context.Context, start, end time.Time) ([]leave.LeaveRecord, error) {
	records, err := r.tbl.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []leave.LeaveRecord
	for _, l := range records {
		if intersects(l.StartDate, l.EndDate, start, end) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Update implements leave.LeaveRepository.
func (r *leaveRepository) Update(ctx context.Context, record leave.LeaveRecord) error {
	return r.tbl.mutate(ctx, func(records []leave.LeaveRecord) ([]leave.LeaveRecord, error) {
		for i, l := range records {
			if l.ID == record.ID {
				record.CreatedAt = l.CreatedAt
				record.UpdatedAt = time.Now()
				records[i] = record
				return records, nil
			}
		}
		return nil, leave.ErrLeaveNotFound
	})
}

// Delete implements leave.LeaveRepository.
func (r *leaveRepository) Delete(ctx context.Context, id string) error {
	return r.tbl.mutate(ctx, func(records []leave.LeaveRecord) ([]leave.LeaveRecord, error) {
		for i, l := range records {
			if l.ID == id {
				return append(records[:i], records[i+1:]...), nil
			}
		}
		return nil, leave.ErrLeaveNotFound
	})
}

// ReplaceAll implements leave.LeaveRepository.
func (r *leaveRepository) ReplaceAll(ctx context.Context, records []leave.LeaveRecord) error {
	now := time.Now()
	out := make([]leave.LeaveRecord, len(records))
	for i, l := range records {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = now
		}
		l.UpdatedAt = now
		out[i] = l
	}

	r.tbl.mu.Lock()
	defer r.tbl.mu.Unlock()
	return r.tbl.save(ctx, out)
}
